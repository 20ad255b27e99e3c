package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/brainctl/brainctl/internal/config"
)

const defaultTimeout = 30 * time.Second

// Client talks to one BRAIN API server on behalf of one user.
type Client struct {
	accessKey  string
	username   string
	baseURL    string
	gatewayURL string
	userAgent  string
	http       *http.Client
}

// New builds a client from resolved settings. The settings must already
// carry an access key and username; commands gate on Settings.Missing
// before constructing a client.
func New(s *config.Settings, version string, timeout time.Duration) (*Client, error) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	transport := http.DefaultTransport
	if s.Proxy != "" {
		proxyURL, err := url.Parse(s.Proxy)
		if err != nil {
			return nil, fmt.Errorf("parsing proxy URL: %w", err)
		}
		t := http.DefaultTransport.(*http.Transport).Clone()
		t.Proxy = http.ProxyURL(proxyURL)
		transport = t
	}

	return &Client{
		accessKey:  s.AccessKey,
		username:   s.Username,
		baseURL:    s.URL,
		gatewayURL: s.GatewayURL,
		userAgent:  "brainctl/" + version,
		http: &http.Client{
			Timeout:   timeout,
			Transport: transport,
			// A redirect means the configured URL or proxy is not a
			// BRAIN endpoint; following it would leak the access key.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return fmt.Errorf("request to %s was redirected; check the server URL and proxy settings", via[0].URL)
			},
		},
	}, nil
}

// LogStreamURL returns the websocket endpoint for live simulator logs.
func (c *Client) LogStreamURL(brain string, version int, sim string) string {
	return fmt.Sprintf("%s/v1/%s/%s/%d/sims/%s/logs/ws",
		c.gatewayURL, url.PathEscape(c.username), url.PathEscape(brain), version, url.PathEscape(sim))
}

// do issues one request with auth headers, retrying rate-limited calls.
// body may be nil; accept and contentType may be empty.
func (c *Client) do(ctx context.Context, method, path string, body []byte, contentType, accept string) ([]byte, http.Header, error) {
	var respBody []byte
	var respHeader http.Header

	err := retryWithBackoff(ctx, 3, func() error {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Authorization", c.accessKey)
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("ClientRequestId", uuid.NewString())
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		if accept != "" {
			req.Header.Set("Accept", accept)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("sending request: %w", err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading response: %w", err)
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			return &rateLimitError{}
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return &AuthError{Message: serverMessage(data)}
		case resp.StatusCode >= 300:
			return &ServerError{
				Status:    resp.StatusCode,
				Message:   serverMessage(data),
				RequestID: resp.Header.Get("ClientRequestId"),
			}
		}

		respBody = data
		respHeader = resp.Header
		return nil
	})

	return respBody, respHeader, err
}

func retryWithBackoff(ctx context.Context, maxRetries int, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		// Only rate limits are worth retrying.
		if _, ok := lastErr.(*rateLimitError); !ok {
			return lastErr
		}

		if attempt < maxRetries {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
	}
	return lastErr
}
