package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/antoniostano/medquery/internal/reliability"
)

const (
	maxSearchAttempts = 3
	backoffBase       = 200 * time.Millisecond
	backoffCap        = 2 * time.Second
)

// HTTPRetriever forwards similarity searches to a vector-search HTTP service.
// Transient upstream failures are retried with capped exponential backoff.
type HTTPRetriever struct {
	url    string
	index  string
	topK   int
	client *http.Client
}

func NewHTTPRetriever(url, index string, topK int) *HTTPRetriever {
	if topK <= 0 {
		topK = 4
	}
	return &HTTPRetriever{
		url:   strings.TrimSpace(url),
		index: index,
		topK:  topK,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type searchRequest struct {
	Query string `json:"query"`
	Index string `json:"index,omitempty"`
	TopK  int    `json:"top_k"`
}

type searchResponse struct {
	Passages []Passage `json:"passages"`
}

func (r *HTTPRetriever) Search(ctx context.Context, query string) ([]Passage, error) {
	payload, err := json.Marshal(searchRequest{
		Query: query,
		Index: r.index,
		TopK:  r.topK,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < maxSearchAttempts; attempt++ {
		if attempt > 0 {
			if err := reliability.Sleep(ctx, reliability.ExponentialBackoff(attempt-1, backoffBase, backoffCap)); err != nil {
				return nil, err
			}
		}

		passages, retryable, err := r.searchOnce(ctx, payload)
		if err == nil {
			return passages, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
	}
	return nil, lastErr
}

func (r *HTTPRetriever) searchOnce(ctx context.Context, payload []byte) ([]Passage, bool, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(payload))
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := r.client.Do(httpReq)
	if err != nil {
		return nil, ctx.Err() == nil, fmt.Errorf("send request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return nil, reliability.IsRetryableHTTPStatus(res.StatusCode),
			fmt.Errorf("retriever http status %d: %s", res.StatusCode, string(body))
	}

	var out searchResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, false, fmt.Errorf("decode response: %w", err)
	}
	return out.Passages, false, nil
}
