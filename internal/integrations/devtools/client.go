// Package devtools reads the focused browser tab through the Chrome DevTools
// HTTP endpoint (chrome --remote-debugging-port).
package devtools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the usual remote debugging address.
const DefaultBaseURL = "http://localhost:9222"

// target is one entry of the /json/list response.
type target struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	URL  string `json:"url"`
}

// Client queries the DevTools target list.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ActiveTabURL returns the URL of the most recently focused page target.
// DevTools orders /json/list by activation, so that is the first "page".
// An empty string with a nil error means no page is open.
func (c *Client) ActiveTabURL(ctx context.Context) (string, error) {
	url := c.baseURL + "/json/list"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("devtools: create request: %w", err)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("devtools: list targets: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return "", fmt.Errorf("devtools: unexpected status %d from %s: %s", res.StatusCode, url, string(buf))
	}

	var targets []target
	if err := json.NewDecoder(io.LimitReader(res.Body, 1<<20)).Decode(&targets); err != nil {
		return "", fmt.Errorf("devtools: decode targets: %w", err)
	}
	for _, t := range targets {
		if t.Type == "page" {
			return t.URL, nil
		}
	}
	return "", nil
}
