package greeter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client calls the external welcome-message generator. The service is a
// pure side channel: callers must tolerate any failure.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Skip    bool
}

// New creates a client with the given timeout. Skip short-circuits every
// call with a canned response, used when no generator is deployed.
func New(baseURL string, timeout time.Duration, skip bool) *Client {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Client{
		BaseURL: baseURL,
		Skip:    skip,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// Generate requests a short welcome line for an attendee.
func (c *Client) Generate(ctx context.Context, name, sessionName string) (string, error) {
	if c.Skip {
		return "", fmt.Errorf("greeter disabled")
	}
	if name == "" {
		return "", fmt.Errorf("name required")
	}

	body, _ := json.Marshal(map[string]string{
		"name":    name,
		"session": sessionName,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/greeting", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("greeter request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("greeter error %s: %s", resp.Status, string(bodyBytes))
	}

	var out struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode greeter response: %w", err)
	}
	if out.Message == "" {
		return "", fmt.Errorf("empty greeting")
	}
	return out.Message, nil
}
