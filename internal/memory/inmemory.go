package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryArchive is a simple in-process transcript archive for local/dev use.
type InMemoryArchive struct {
	mu      sync.RWMutex
	records map[string][]TurnRecord
}

func NewInMemoryArchive() *InMemoryArchive {
	return &InMemoryArchive{records: make(map[string][]TurnRecord)}
}

func (a *InMemoryArchive) SaveTurn(_ context.Context, record TurnRecord) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	a.records[record.ConversationID] = append(a.records[record.ConversationID], record)
	return nil
}

func (a *InMemoryArchive) RecentTranscript(_ context.Context, conversationID string, limit int) ([]TurnRecord, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	arr := a.records[conversationID]
	if len(arr) == 0 {
		return nil, nil
	}
	if limit <= 0 || limit > len(arr) {
		limit = len(arr)
	}
	out := make([]TurnRecord, 0, limit)
	for i := len(arr) - limit; i < len(arr); i++ {
		out = append(out, arr[i])
	}
	return out, nil
}

func (a *InMemoryArchive) Close() error { return nil }
