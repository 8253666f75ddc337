package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

func (r *Repository) collectionURL(suffix string) string {
	return fmt.Sprintf("%s/collections/%s%s", r.baseURL, r.collection, suffix)
}

// do sends a JSON request and discards the response body. It returns the HTTP
// status code alongside the error so callers can special-case replies such as
// 409 on collection creation.
func (r *Repository) do(ctx context.Context, method, url string, payload any, operation string) (int, error) {
	resp, err := r.send(ctx, method, url, payload, operation)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return resp.StatusCode, statusError(resp, operation)
	}
	return resp.StatusCode, nil
}

// doJSON sends a JSON request and decodes the response body into out.
func (r *Repository) doJSON(ctx context.Context, method, url string, payload, out any, operation string) error {
	resp, err := r.send(ctx, method, url, payload, operation)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return statusError(resp, operation)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", operation, err)
	}
	return nil
}

func (r *Repository) send(ctx context.Context, method, url string, payload any, operation string) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s body: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("qdrant %s request: %w", operation, err)
	}
	return resp, nil
}

func statusError(resp *http.Response, operation string) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	if msg := strings.TrimSpace(string(body)); msg != "" {
		return fmt.Errorf("qdrant %s status: %s: %s", operation, resp.Status, msg)
	}
	return fmt.Errorf("qdrant %s status: %s", operation, resp.Status)
}
