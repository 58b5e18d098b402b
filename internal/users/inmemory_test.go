package users

import (
	"context"
	"sync"
	"testing"
)

func TestGetUnknownUser(t *testing.T) {
	s := NewInMemoryStore()
	if _, err := s.Get(context.Background(), "nobody"); err != ErrNotFound {
		t.Fatalf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	u, err := s.GetOrCreate(ctx, "u1", "u1@example.com")
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	if u.QueryCount != 0 || u.Subscriber {
		t.Fatalf("new user state = %+v, want zero counter and no subscription", u)
	}

	if err := s.IncrementQueryCount(ctx, "u1"); err != nil {
		t.Fatalf("IncrementQueryCount() error = %v", err)
	}
	again, err := s.GetOrCreate(ctx, "u1", "u1@example.com")
	if err != nil {
		t.Fatalf("GetOrCreate() second call error = %v", err)
	}
	if again.QueryCount != 1 {
		t.Fatalf("QueryCount = %d, want 1 (existing record must be kept)", again.QueryCount)
	}
}

func TestIncrementQueryCountConcurrent(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	s.Seed(User{ID: "u1"})

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			if err := s.IncrementQueryCount(ctx, "u1"); err != nil {
				t.Errorf("IncrementQueryCount() error = %v", err)
			}
		}()
	}
	wg.Wait()

	u, err := s.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if u.QueryCount != n {
		t.Fatalf("QueryCount = %d, want %d", u.QueryCount, n)
	}
}

func TestResetAllQueryCounts(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	s.Seed(User{ID: "u1", QueryCount: 7})
	s.Seed(User{ID: "u2", QueryCount: 2, Subscriber: true})

	if err := s.ResetAllQueryCounts(ctx); err != nil {
		t.Fatalf("ResetAllQueryCounts() error = %v", err)
	}
	for _, id := range []string{"u1", "u2"} {
		u, err := s.Get(ctx, id)
		if err != nil {
			t.Fatalf("Get(%s) error = %v", id, err)
		}
		if u.QueryCount != 0 {
			t.Fatalf("QueryCount(%s) = %d, want 0", id, u.QueryCount)
		}
	}
}

func TestSetSubscriber(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	s.Seed(User{ID: "u1"})

	if err := s.SetSubscriber(ctx, "u1", true); err != nil {
		t.Fatalf("SetSubscriber() error = %v", err)
	}
	u, err := s.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !u.Subscriber {
		t.Fatalf("Subscriber = false, want true")
	}

	if err := s.SetSubscriber(ctx, "ghost", true); err != ErrNotFound {
		t.Fatalf("SetSubscriber(ghost) error = %v, want ErrNotFound", err)
	}
}
