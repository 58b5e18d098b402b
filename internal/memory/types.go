package memory

import (
	"context"
	"time"
)

// Turn is one completed question/answer exchange. Immutable once created.
type Turn struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// TurnRecord is the durable form of a turn written to the transcript archive.
type TurnRecord struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	ConversationID string    `json:"conversation_id"`
	Question       string    `json:"question"`
	Answer         string    `json:"answer"`
	CreatedAt      time.Time `json:"created_at"`
}

// Archiver persists full conversation transcripts. Archive writes are
// best-effort: the bounded window, not the archive, is the source of truth
// for prompt context.
type Archiver interface {
	SaveTurn(ctx context.Context, record TurnRecord) error
	RecentTranscript(ctx context.Context, conversationID string, limit int) ([]TurnRecord, error)
	Close() error
}
