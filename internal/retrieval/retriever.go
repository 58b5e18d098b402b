package retrieval

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Passage is one unit of retrieved grounding text.
type Passage struct {
	Title  string  `json:"title,omitempty"`
	Source string  `json:"source,omitempty"`
	Text   string  `json:"text"`
	Score  float64 `json:"score,omitempty"`
}

// Retriever answers similarity searches against the medical corpus.
// Implementations must preserve relevance order in the returned slice.
type Retriever interface {
	Search(ctx context.Context, query string) ([]Passage, error)
}

// Config controls retriever construction.
type Config struct {
	Mode  string
	URL   string
	TopK  int
	Index string
}

func NewRetriever(cfg Config) (Retriever, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = "auto"
	}

	switch mode {
	case "auto":
		if strings.TrimSpace(cfg.URL) != "" {
			return NewHTTPRetriever(cfg.URL, cfg.Index, cfg.TopK), nil
		}
		return NewMockRetriever(), nil
	case "http":
		if strings.TrimSpace(cfg.URL) == "" {
			return nil, errors.New("retriever URL is required for http mode")
		}
		return NewHTTPRetriever(cfg.URL, cfg.Index, cfg.TopK), nil
	case "mock":
		return NewMockRetriever(), nil
	default:
		return nil, fmt.Errorf("unsupported retriever mode %q", cfg.Mode)
	}
}
