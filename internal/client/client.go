// Package client is the caller-side half of the /agent contract: one POST
// carrying {"prompt"} and a JSON-decoded response body back, nothing else.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// DefaultURL is the local agent endpoint.
const DefaultURL = "http://localhost:8001/agent"

type Client struct {
	url        string
	httpClient *http.Client
}

func New() *Client {
	return NewWithURL(DefaultURL)
}

func NewWithURL(url string) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{},
	}
}

// Ask sends prompt to the agent endpoint and returns the response body
// decoded as JSON. The prompt passes through unvalidated, the HTTP status
// code is never inspected, and there are no retries: transport and decode
// failures propagate to the caller as-is.
func (c *Client) Ask(ctx context.Context, prompt string) (any, error) {
	body, err := json.Marshal(map[string]string{"prompt": prompt})
	if err != nil {
		return nil, fmt.Errorf("agent: marshal prompt: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("agent: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("agent: request: %w", err)
	}
	defer resp.Body.Close()

	var out any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("agent: decode response: %w", err)
	}
	return out, nil
}

// Ask calls the default local endpoint.
func Ask(ctx context.Context, prompt string) (any, error) {
	return New().Ask(ctx, prompt)
}
