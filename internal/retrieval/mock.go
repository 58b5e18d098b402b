package retrieval

import "context"

// MockRetriever returns canned passages for local development without a
// vector index.
type MockRetriever struct{}

func NewMockRetriever() *MockRetriever { return &MockRetriever{} }

func (m *MockRetriever) Search(_ context.Context, query string) ([]Passage, error) {
	return []Passage{
		{
			Title:  "Placeholder passage",
			Source: "mock",
			Text:   "No corpus is configured. This placeholder passage echoes the query: " + query,
			Score:  1,
		},
	}, nil
}
