package pipeline

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorWrapsCause(t *testing.T) {
	cause := errors.New("boom")
	err := newError(KindRetrievalError, "retriever search failed", cause)

	if !errors.Is(err, cause) {
		t.Fatalf("errors.Is() = false, want wrapped cause to be visible")
	}
	if KindOf(err) != KindRetrievalError {
		t.Fatalf("KindOf() = %q, want %q", KindOf(err), KindRetrievalError)
	}
}

func TestKindOfSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("handling query: %w", newError(KindQuotaExceeded, "limit reached", nil))
	if KindOf(err) != KindQuotaExceeded {
		t.Fatalf("KindOf() = %q, want %q", KindOf(err), KindQuotaExceeded)
	}
}

func TestKindOfForeignError(t *testing.T) {
	if KindOf(errors.New("plain")) != "" {
		t.Fatalf("KindOf(plain error) should be empty")
	}
}
