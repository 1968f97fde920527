// Package remote is the HTTP client for the LifeLab sync service — a
// per-user namespaced document store reachable only when authenticated.
// The client never retries; callers decide how a failed call degrades.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client talks to one sync service endpoint on behalf of one user.
type Client struct {
	base  string
	token string
	http  *http.Client
}

// New creates a client for the given endpoint. The timeout bounds every
// request — a remote call must never hang a local operation indefinitely.
func New(endpoint, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		base:  endpoint,
		token: token,
		http:  &http.Client{Timeout: timeout},
	}
}

func (c *Client) collectionURL(userID, key string) string {
	return fmt.Sprintf("%s/v1/users/%s/collections/%s",
		c.base, url.PathEscape(userID), url.PathEscape(key))
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return c.http.Do(req)
}

// Put replaces a collection's value in the user's namespace.
func (c *Client) Put(ctx context.Context, userID, key string, value []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut,
		c.collectionURL(userID, key), bytes.NewReader(value))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return fmt.Errorf("remote save %s: %w", key, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("remote save %s: status %d", key, resp.StatusCode)
	}
	return nil
}

// Get fetches a collection's value. A missing collection is nil, not an error.
func (c *Client) Get(ctx context.Context, userID, key string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.collectionURL(userID, key), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("remote fetch %s: %w", key, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return io.ReadAll(resp.Body)
	case http.StatusNotFound:
		return nil, nil
	default:
		return nil, fmt.Errorf("remote fetch %s: status %d", key, resp.StatusCode)
	}
}

// List returns the collection keys present in the user's namespace.
func (c *Client) List(ctx context.Context, userID string) ([]string, error) {
	u := fmt.Sprintf("%s/v1/users/%s/collections", c.base, url.PathEscape(userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("remote list: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("remote list: status %d", resp.StatusCode)
	}

	var out struct {
		Collections []string `json:"collections"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("remote list: decode: %w", err)
	}
	return out.Collections, nil
}
