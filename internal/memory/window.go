package memory

import (
	"fmt"
	"sync"
)

// WindowStore holds the last k turns of each conversation in arrival order.
// Unknown conversation identities load as empty; appending beyond k evicts
// from the front. Evicted turns are permanently forgotten.
type WindowStore struct {
	mu      sync.RWMutex
	size    int
	windows map[string][]Turn
}

func NewWindowStore(size int) *WindowStore {
	if size <= 0 {
		size = 3
	}
	return &WindowStore{
		size:    size,
		windows: make(map[string][]Turn),
	}
}

// Size returns the configured window bound k.
func (s *WindowStore) Size() int { return s.size }

// Load returns the retained turns for a conversation, oldest first.
func (s *WindowStore) Load(conversationID string) []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w := s.windows[conversationID]
	if len(w) == 0 {
		return nil
	}
	out := make([]Turn, len(w))
	copy(out, w)
	return out
}

// Append records a completed turn, evicting the oldest entries until the
// window holds at most k turns. Returns an error only when the bound
// invariant was already broken, which indicates internal state corruption.
func (s *WindowStore) Append(conversationID, question, answer string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.windows[conversationID]
	if len(w) > s.size {
		return fmt.Errorf("conversation %s window holds %d turns, bound is %d", conversationID, len(w), s.size)
	}

	w = append(w, Turn{Question: question, Answer: answer})
	for len(w) > s.size {
		w = w[1:]
	}
	s.windows[conversationID] = w
	return nil
}

// Len reports the current number of retained turns for a conversation.
func (s *WindowStore) Len(conversationID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.windows[conversationID])
}

// Reset drops all retained turns for a conversation.
func (s *WindowStore) Reset(conversationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.windows, conversationID)
}
