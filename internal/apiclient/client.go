// Package apiclient provides the base HTTP client for upstream market-data
// providers: request building, response decoding, and standardized error
// parsing. Requests are never retried automatically; a failed upstream call
// surfaces to the caller as a typed error.
package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"stockd/internal/core"
	"stockd/internal/httpclient"
)

// HeaderSetter is a function that sets headers on an HTTP request
type HeaderSetter func(req *http.Request)

// Client is the shared HTTP client for upstream integrations.
type Client struct {
	httpClient   *http.Client
	providerName string
	baseURL      string
	headerSetter HeaderSetter
}

// New creates a client for the named provider. providerName appears in
// error messages so callers can tell which upstream failed.
func New(providerName, baseURL string, headerSetter HeaderSetter) *Client {
	return &Client{
		httpClient:   httpclient.NewDefaultHTTPClient(),
		providerName: providerName,
		baseURL:      baseURL,
		headerSetter: headerSetter,
	}
}

// NewWithHTTPClient creates a client with a custom HTTP client, used by
// tests to point at an httptest server.
func NewWithHTTPClient(httpClient *http.Client, providerName, baseURL string, headerSetter HeaderSetter) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient:   httpClient,
		providerName: providerName,
		baseURL:      baseURL,
		headerSetter: headerSetter,
	}
}

// SetBaseURL updates the base URL
func (c *Client) SetBaseURL(url string) {
	c.baseURL = url
}

// Get performs a GET against baseURL+endpoint and unmarshals the JSON
// response into result. A non-200 status is parsed into a MarketError.
func (c *Client) Get(ctx context.Context, endpoint string, result interface{}) error {
	body, err := c.GetRaw(ctx, endpoint)
	if err != nil {
		return err
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return core.NewUpstreamError(c.providerName, http.StatusBadGateway, "failed to unmarshal response: "+err.Error(), err)
		}
	}
	return nil
}

// GetRaw performs a GET and returns the raw response body.
func (c *Client) GetRaw(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, core.NewInvalidRequestError("failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")
	if id := core.GetRequestID(ctx); id != "" {
		req.Header.Set("X-Request-Id", id)
	}
	if c.headerSetter != nil {
		c.headerSetter(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, core.NewUpstreamError(c.providerName, http.StatusBadGateway, "failed to send request: "+err.Error(), err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, core.NewUpstreamError(c.providerName, http.StatusBadGateway, "failed to read response: "+err.Error(), err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, core.ParseUpstreamError(c.providerName, resp.StatusCode, body, nil)
	}
	return body, nil
}
