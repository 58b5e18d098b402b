package generation

import (
	"context"
	"strings"
)

// MockGenerator provides deterministic local answers when no model endpoint
// is configured.
type MockGenerator struct{}

func NewMockGenerator() *MockGenerator { return &MockGenerator{} }

func (g *MockGenerator) Complete(ctx context.Context, prompt string, onDelta DeltaHandler) (Completion, error) {
	select {
	case <-ctx.Done():
		return Completion{}, ctx.Err()
	default:
	}

	text := buildMockAnswer(prompt)
	if err := emit(onDelta, text); err != nil {
		return Completion{}, err
	}
	return Completion{Text: text}, nil
}

func buildMockAnswer(prompt string) string {
	question := lastHumanLine(prompt)
	if question == "" {
		return "No model endpoint is configured, so this is a placeholder answer."
	}
	return "No model endpoint is configured. Placeholder answer for: " + question
}

func lastHumanLine(prompt string) string {
	lines := strings.Split(prompt, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.HasPrefix(lines[i], "Human: ") {
			return strings.TrimSpace(strings.TrimPrefix(lines[i], "Human: "))
		}
	}
	return ""
}
