package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/redraft-ai/redraft/domain"
)

const defaultBackendTimeout = 120 * time.Second

// BackendClient talks to the rewrite backend over HTTP. It implements
// both domain.RewriteBackend and domain.FeedbackBackend.
type BackendClient struct {
	baseURL string
	client  *http.Client
}

// NewBackendClient creates a client for the given base URL.
func NewBackendClient(baseURL string) *BackendClient {
	return &BackendClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultBackendTimeout},
	}
}

// Rewrite posts one block to the backend and returns the rewrite result.
func (c *BackendClient) Rewrite(ctx context.Context, req *domain.RewriteRequest) (*domain.RewriteResult, error) {
	var resp domain.RewriteResponse
	if err := c.postJSON(ctx, "/rewrite-block", req, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		message := resp.Error
		if message == "" {
			message = "rewrite failed"
		}
		return nil, domain.NewNetworkError(message, nil)
	}
	return &domain.RewriteResult{
		RewrittenText:  resp.RewrittenText,
		IssuesFixed:    resp.ErrorsFixed,
		Confidence:     resp.Confidence,
		ProcessingTime: resp.ProcessingTime,
	}, nil
}

// SubmitFeedback posts one feedback submission. The response body is
// advisory and discarded; only transport failures surface.
func (c *BackendClient) SubmitFeedback(ctx context.Context, submission *domain.FeedbackSubmission) error {
	return c.postJSON(ctx, "/api/feedback", submission, nil)
}

func (c *BackendClient) postJSON(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return domain.NewEncodingError("request payload marshal failed", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return domain.NewNetworkError("request build failed", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.NewNetworkError(fmt.Sprintf("POST %s failed", path), err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.NewNetworkError(fmt.Sprintf("POST %s returned %d", path, resp.StatusCode), nil)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domain.NewParseError("backend response", err)
	}
	return nil
}
