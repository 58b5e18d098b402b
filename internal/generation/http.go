package generation

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPGenerator forwards prompts to a completion HTTP endpoint. The endpoint
// may answer with a single JSON object, an SSE stream or NDJSON lines.
type HTTPGenerator struct {
	url    string
	model  string
	client *http.Client
}

func NewHTTPGenerator(url, model string, timeout time.Duration) *HTTPGenerator {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTPGenerator{
		url:   strings.TrimSpace(url),
		model: model,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type completionRequest struct {
	Model  string `json:"model,omitempty"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

func (g *HTTPGenerator) Complete(ctx context.Context, prompt string, onDelta DeltaHandler) (Completion, error) {
	payload, err := json.Marshal(completionRequest{
		Model:  g.model,
		Prompt: prompt,
		Stream: onDelta != nil,
	})
	if err != nil {
		return Completion{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(payload))
	if err != nil {
		return Completion{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := g.client.Do(httpReq)
	if err != nil {
		return Completion{}, fmt.Errorf("send request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return Completion{}, fmt.Errorf("generator http status %d: %s", res.StatusCode, string(body))
	}

	ct := strings.ToLower(res.Header.Get("Content-Type"))
	if strings.Contains(ct, "text/event-stream") || strings.Contains(ct, "application/x-ndjson") {
		return consumeStream(res.Body, onDelta)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return Completion{}, fmt.Errorf("read response: %w", err)
	}

	var obj map[string]any
	if err := json.Unmarshal(body, &obj); err != nil {
		text := strings.TrimSpace(string(body))
		if text == "" {
			return Completion{}, nil
		}
		if err := emit(onDelta, text); err != nil {
			return Completion{}, err
		}
		return Completion{Text: text}, nil
	}

	text := extractText(obj)
	if err := emit(onDelta, text); err != nil {
		return Completion{}, err
	}
	return Completion{Text: text}, nil
}

func consumeStream(body io.Reader, onDelta DeltaHandler) (Completion, error) {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var out strings.Builder
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line == "[DONE]" {
			continue
		}
		if strings.HasPrefix(line, ":") {
			// SSE comment / keepalive.
			continue
		}
		if strings.HasPrefix(line, "data:") {
			line = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if line == "" || line == "[DONE]" {
				continue
			}
		}

		delta := line
		var obj map[string]any
		if err := json.Unmarshal([]byte(line), &obj); err == nil {
			delta = extractText(obj)
		}
		if delta == "" {
			continue
		}
		out.WriteString(delta)
		if err := emit(onDelta, delta); err != nil {
			return Completion{}, err
		}
	}
	if err := scanner.Err(); err != nil {
		return Completion{}, fmt.Errorf("stream read: %w", err)
	}

	return Completion{Text: out.String()}, nil
}

func emit(onDelta DeltaHandler, text string) error {
	if onDelta == nil || text == "" {
		return nil
	}
	return onDelta(text)
}

func extractText(obj map[string]any) string {
	for _, k := range []string{"text", "delta", "output", "completion", "response"} {
		if v, ok := obj[k]; ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
	}
	return ""
}
