package pipeline

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure for the transport layer.
type Kind string

const (
	// KindQuotaExceeded: the user spent their allowance; recoverable next
	// reset period.
	KindQuotaExceeded Kind = "quota_exceeded"
	// KindUserNotFound: the user record does not exist.
	KindUserNotFound Kind = "user_not_found"
	// KindStoreUnavailable: the user store is unreachable; the gate fails
	// closed.
	KindStoreUnavailable Kind = "store_unavailable"
	// KindRetrievalError: the document retriever failed.
	KindRetrievalError Kind = "retrieval_error"
	// KindGenerationError: the answer generator failed.
	KindGenerationError Kind = "generation_error"
	// KindConversationCorruption: a memory window invariant was broken.
	// Internal logic error, never user-caused.
	KindConversationCorruption Kind = "conversation_state_corruption"
)

// Error tags a failure with its kind so callers can map it without string
// matching.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind of a pipeline error, or "" for foreign errors.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}
