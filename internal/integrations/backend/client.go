package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"video-chat-agent/internal/domain"
)

// DefaultBaseURL is where the question-answering backend listens locally.
const DefaultBaseURL = "http://localhost:8000"

// maxBodyBytes caps every response read; longer error bodies are truncated.
const maxBodyBytes = 1 << 20

// HTTPStatusError is returned when the backend answers with a non-2xx status.
// Body holds the raw response text.
type HTTPStatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("backend: unexpected status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

func (e *HTTPStatusError) HTTPStatusCode() int {
	return e.StatusCode
}

func (e *HTTPStatusError) ResponseBody() string {
	return e.Body
}

// Client posts questions to the backend's /ask endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSpace(baseURL)
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a Client. The default transport imposes no timeout; the
// caller's context is the only deadline.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL reports the backend root the client talks to.
func (c *Client) BaseURL() string {
	base := strings.TrimRight(c.baseURL, "/")
	if base == "" {
		return DefaultBaseURL
	}
	return base
}

func (c *Client) resolvedHTTPClient() *http.Client {
	if c.httpClient != nil {
		return c.httpClient
	}
	return http.DefaultClient
}

func askURL(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + "/ask"
}

// Ask sends one question about videoID and returns the answer text. A non-2xx
// reply yields *HTTPStatusError; any other error means no usable response
// arrived.
func (c *Client) Ask(ctx context.Context, videoID domain.VideoID, question string) (string, error) {
	if videoID == "" {
		return "", errors.New("backend: video id must not be empty")
	}

	body, err := json.Marshal(domain.QueryRequest{VideoID: videoID, Question: question})
	if err != nil {
		return "", fmt.Errorf("backend: marshal request: %w", err)
	}

	url := askURL(c.BaseURL())

	req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if reqErr != nil {
		return "", fmt.Errorf("backend: create request: %w", reqErr)
	}
	req.Header.Set("Content-Type", "application/json")

	raw, err := c.doJSONRequest(req, url)
	if err != nil {
		return "", fmt.Errorf("backend: request failed: %w", err)
	}

	var payload struct {
		Answer *string `json:"answer"`
	}
	if decErr := json.Unmarshal(raw, &payload); decErr != nil {
		return "", fmt.Errorf("backend: decode response: %w", decErr)
	}
	if payload.Answer == nil {
		return "", errors.New("backend: response has no answer field")
	}
	return *payload.Answer, nil
}

func (c *Client) doJSONRequest(req *http.Request, url string) ([]byte, error) {
	res, doErr := c.resolvedHTTPClient().Do(req)
	if doErr != nil {
		return nil, doErr
	}
	defer func() { _ = res.Body.Close() }()

	buf, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		// The status is authoritative even if the body was cut short.
		return nil, &HTTPStatusError{
			StatusCode: res.StatusCode,
			URL:        url,
			Body:       string(buf),
		}
	}
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return buf, nil
}
