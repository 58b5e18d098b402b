package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Completion is the final answer after any streaming deltas.
type Completion struct {
	Text string `json:"text"`
}

// DeltaHandler receives streaming text fragments. A nil handler disables
// streaming; the full text is still returned in the Completion.
type DeltaHandler func(delta string) error

// Generator bridges the query pipeline with the language model.
type Generator interface {
	Complete(ctx context.Context, prompt string, onDelta DeltaHandler) (Completion, error)
}

// Config controls generator construction.
type Config struct {
	Mode    string
	URL     string
	Model   string
	Timeout time.Duration
}

func NewGenerator(cfg Config) (Generator, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = "auto"
	}

	switch mode {
	case "auto":
		if strings.TrimSpace(cfg.URL) != "" {
			return NewHTTPGenerator(cfg.URL, cfg.Model, cfg.Timeout), nil
		}
		return NewMockGenerator(), nil
	case "http":
		if strings.TrimSpace(cfg.URL) == "" {
			return nil, errors.New("generator URL is required for http mode")
		}
		return NewHTTPGenerator(cfg.URL, cfg.Model, cfg.Timeout), nil
	case "mock":
		return NewMockGenerator(), nil
	default:
		return nil, fmt.Errorf("unsupported generator mode %q", cfg.Mode)
	}
}
