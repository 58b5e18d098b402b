package quota

import (
	"context"
	"errors"
	"fmt"

	"github.com/antoniostano/medquery/internal/users"
)

// ErrQuotaExceeded means the user spent their allowance for the current
// reset period.
var ErrQuotaExceeded = errors.New("query limit exceeded")

// Gate admits queries against per-user counters. Admission never mutates the
// counter; Charge applies the single post-success increment.
type Gate struct {
	store           users.Store
	freeLimit       int
	subscriberLimit int
}

func NewGate(store users.Store, freeLimit, subscriberLimit int) *Gate {
	if freeLimit <= 0 {
		freeLimit = 3
	}
	if subscriberLimit < freeLimit {
		subscriberLimit = freeLimit
	}
	return &Gate{
		store:           store,
		freeLimit:       freeLimit,
		subscriberLimit: subscriberLimit,
	}
}

// Limit returns the allowance that applies to a user.
func (g *Gate) Limit(u users.User) int {
	if u.Subscriber {
		return g.subscriberLimit
	}
	return g.freeLimit
}

// Admit loads the user and checks the counter against the applicable limit.
// An unreachable store fails closed: the caller gets an error, never a free
// pass. users.ErrNotFound passes through unchanged.
func (g *Gate) Admit(ctx context.Context, userID string) (users.User, error) {
	u, err := g.store.Get(ctx, userID)
	if errors.Is(err, users.ErrNotFound) {
		return users.User{}, err
	}
	if err != nil {
		return users.User{}, fmt.Errorf("user store unavailable: %w", err)
	}
	if u.QueryCount >= g.Limit(u) {
		return u, ErrQuotaExceeded
	}
	return u, nil
}

// Charge atomically increments the user's counter. Called exactly once per
// successful generation.
func (g *Gate) Charge(ctx context.Context, userID string) error {
	if err := g.store.IncrementQueryCount(ctx, userID); err != nil {
		return fmt.Errorf("charge quota: %w", err)
	}
	return nil
}
