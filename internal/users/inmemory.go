package users

import (
	"context"
	"sync"
)

// InMemoryStore keeps user records in process memory. Used for local
// development and tests when DATABASE_URL is not set.
type InMemoryStore struct {
	mu    sync.Mutex
	users map[string]*User
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{users: make(map[string]*User)}
}

func (s *InMemoryStore) Get(_ context.Context, userID string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return User{}, ErrNotFound
	}
	return *u, nil
}

func (s *InMemoryStore) GetOrCreate(_ context.Context, userID, email string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[userID]; ok {
		return *u, nil
	}
	u := &User{ID: userID, Email: email}
	s.users[userID] = u
	return *u, nil
}

func (s *InMemoryStore) IncrementQueryCount(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return ErrNotFound
	}
	u.QueryCount++
	return nil
}

func (s *InMemoryStore) SetSubscriber(_ context.Context, userID string, subscriber bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return ErrNotFound
	}
	u.Subscriber = subscriber
	return nil
}

func (s *InMemoryStore) ResetAllQueryCounts(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		u.QueryCount = 0
	}
	return nil
}

func (s *InMemoryStore) Close() error { return nil }

// Seed inserts or replaces a user record. Test helper.
func (s *InMemoryStore) Seed(u User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := u
	s.users[u.ID] = &copied
}
