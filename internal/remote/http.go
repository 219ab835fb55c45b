package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// HTTPAcceptor posts mutations to {url}/sync/{entityType}.
type HTTPAcceptor struct {
	client *http.Client
	url    string
	token  string
}

// NewHTTPAcceptor constructs an HTTPAcceptor.
func NewHTTPAcceptor(endpoint, token string, timeout time.Duration) *HTTPAcceptor {
	return &HTTPAcceptor{
		client: &http.Client{Timeout: timeout},
		url:    strings.TrimRight(endpoint, "/"),
		token:  token,
	}
}

// Accept sends the mutation as JSON. A 409 means the remote already holds
// this mutation and counts as delivered.
func (h *HTTPAcceptor) Accept(ctx context.Context, m Mutation) error {
	body, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding mutation: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url+"/sync/"+string(m.EntityType), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", m.ID)
	h.authorize(req)

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusConflict {
		return nil
	}
	if resp.StatusCode >= 300 {
		return &RejectedError{Status: resp.StatusCode}
	}
	return nil
}

// Probe issues GET {url}/healthz.
func (h *HTTPAcceptor) Probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url+"/healthz", nil)
	if err != nil {
		return err
	}
	h.authorize(req)

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return &RejectedError{Status: resp.StatusCode}
	}
	return nil
}

func (h *HTTPAcceptor) authorize(req *http.Request) {
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}
}
