package users

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("user not found")

// User is the persisted account record. QueryCount is mutated only through
// IncrementQueryCount and ResetAllQueryCounts.
type User struct {
	ID         string `json:"user_id"`
	Email      string `json:"email"`
	Subscriber bool   `json:"is_subscriber"`
	QueryCount int    `json:"query_count"`
}

// Store is the key-value user collaborator. Increment must be atomic with
// respect to concurrent callers for the same user.
type Store interface {
	Get(ctx context.Context, userID string) (User, error)
	GetOrCreate(ctx context.Context, userID, email string) (User, error)
	IncrementQueryCount(ctx context.Context, userID string) error
	SetSubscriber(ctx context.Context, userID string, subscriber bool) error
	ResetAllQueryCounts(ctx context.Context) error
	Close() error
}
