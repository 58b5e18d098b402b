package quota

import (
	"context"
	"errors"
	"testing"

	"github.com/antoniostano/medquery/internal/users"
)

type failingStore struct {
	users.Store
}

func (failingStore) Get(context.Context, string) (users.User, error) {
	return users.User{}, errors.New("connection refused")
}

func TestAdmitFreeUserUnderLimit(t *testing.T) {
	store := users.NewInMemoryStore()
	store.Seed(users.User{ID: "u1", QueryCount: 2})
	g := NewGate(store, 3, 70)

	u, err := g.Admit(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Admit() error = %v", err)
	}
	if u.QueryCount != 2 {
		t.Fatalf("QueryCount = %d, want 2 (admission must not mutate)", u.QueryCount)
	}
}

func TestAdmitFreeUserAtLimit(t *testing.T) {
	store := users.NewInMemoryStore()
	store.Seed(users.User{ID: "u1", QueryCount: 3})
	g := NewGate(store, 3, 70)

	if _, err := g.Admit(context.Background(), "u1"); !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("Admit() error = %v, want ErrQuotaExceeded", err)
	}

	u, err := store.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if u.QueryCount != 3 {
		t.Fatalf("QueryCount = %d, want 3 (denied admission must not mutate)", u.QueryCount)
	}
}

func TestAdmitSubscriberUsesHigherLimit(t *testing.T) {
	store := users.NewInMemoryStore()
	store.Seed(users.User{ID: "u1", Subscriber: true, QueryCount: 69})
	g := NewGate(store, 3, 70)

	if _, err := g.Admit(context.Background(), "u1"); err != nil {
		t.Fatalf("Admit() error = %v, want admission at 69/70", err)
	}

	if err := g.Charge(context.Background(), "u1"); err != nil {
		t.Fatalf("Charge() error = %v", err)
	}
	if _, err := g.Admit(context.Background(), "u1"); !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("Admit() after charge error = %v, want ErrQuotaExceeded", err)
	}
}

func TestAdmitUnknownUser(t *testing.T) {
	g := NewGate(users.NewInMemoryStore(), 3, 70)
	if _, err := g.Admit(context.Background(), "ghost"); !errors.Is(err, users.ErrNotFound) {
		t.Fatalf("Admit() error = %v, want users.ErrNotFound", err)
	}
}

func TestAdmitFailsClosedOnStoreError(t *testing.T) {
	g := NewGate(failingStore{}, 3, 70)
	_, err := g.Admit(context.Background(), "u1")
	if err == nil {
		t.Fatalf("Admit() expected error for unreachable store")
	}
	if errors.Is(err, ErrQuotaExceeded) || errors.Is(err, users.ErrNotFound) {
		t.Fatalf("Admit() error = %v, want a distinct store error", err)
	}
}
