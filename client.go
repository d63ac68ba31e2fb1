package inspector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultBaseURL is the sandbox provider's public API endpoint.
const DefaultBaseURL = "https://api.e2b.dev"

// DefaultTimeout is applied to exec and code operations when the caller does
// not supply one.
const DefaultTimeout = 60 * time.Second

// ClientOption is a function that configures a Client.
type ClientOption func(*Client)

// Client is the HTTP transport to the sandbox provider API.
// After creation, the client is immutable and safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client

	// Custom headers included in all requests.
	headers map[string]string

	defaultTimeout time.Duration
}

// NewClient creates a new Client with the given options. The API key is
// required; there is no anonymous access to the provider.
func NewClient(apiKey string, opts ...ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, &AuthError{Message: "API key required: pass one explicitly or set E2B_API_KEY"}
	}

	client := &Client{
		baseURL:        DefaultBaseURL,
		apiKey:         apiKey,
		headers:        make(map[string]string),
		defaultTimeout: DefaultTimeout,
		httpClient:     &http.Client{},
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// WithBaseURL sets a custom base URL for the client.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithDefaultTimeout sets the timeout applied to exec and code operations
// when the caller does not supply one.
func WithDefaultTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.defaultTimeout = timeout
	}
}

// WithHeader adds a custom header that will be included in all requests.
func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// NewRequest creates an HTTP request with auth and custom headers set.
func (c *Client) NewRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	url := fmt.Sprintf("%s%s", c.baseURL, path)

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	return req, nil
}

// Do executes an HTTP request. The client performs no retries; transient
// failure handling belongs to the provider and to callers.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req)
}
