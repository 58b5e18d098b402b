package users

import (
	"context"
	"log"
	"time"
)

// StartResetJanitor clears every user's query counter once per interval,
// giving the quota its "per reset period" meaning.
func StartResetJanitor(ctx context.Context, store Store, interval time.Duration) {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := store.ResetAllQueryCounts(ctx); err != nil {
					log.Printf("quota reset failed: %v", err)
				}
			}
		}
	}()
}
