// Package zia implements the slice of the Zscaler Internet Access API that
// category analysis needs: OAuth-authenticated access to the URL category
// endpoints and the bulk URL lookup endpoint. Every call is a single HTTP
// attempt; failures come back as *APIError carrying the retry
// classification, and pacing and retrying are the caller's concern.
package zia

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the ZIA OneAPI gateway.
	DefaultBaseURL = "https://api.zsapi.net"

	// apiPrefix is the ZIA API path prefix on the gateway.
	apiPrefix = "/zia/api/v1"

	// requestTimeout bounds a single API call.
	requestTimeout = 30 * time.Second

	// errBodyLimit caps how much of an error response body is kept for
	// the error message.
	errBodyLimit = 512
)

// Client calls the ZIA API through a token-bearing HTTP client.
type Client struct {
	httpClient *http.Client
	baseURL    string

	// superByID maps category IDs to their super-category, built from the
	// full category listing. Populated by CustomCategories before any
	// lookup runs; reads and writes stay on the single pipeline path.
	superByID map[string]string
}

// NewClient creates a Client on top of httpClient, which must already
// inject a valid bearer token (see NewHTTPClient). An empty baseURL
// selects the production gateway.
func NewClient(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		superByID:  make(map[string]string),
	}
}

// get issues an authenticated GET and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, op, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+apiPrefix+path, nil)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	return c.do(req, op, out)
}

// post issues an authenticated POST with a JSON body and decodes the JSON
// response into out.
func (c *Client) post(ctx context.Context, op, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+apiPrefix+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, op, out)
}

// do performs one attempt and maps the result onto the error taxonomy:
// transport failures are network errors, non-2xx statuses are classified
// by status class, and an unparseable success body is malformed.
func (c *Client) do(req *http.Request, op string, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Op: op, Kind: KindNetwork, Err: err}
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errBodyLimit))
		return statusError(op, resp, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{Op: op, Kind: KindMalformed, Err: err}
	}
	return nil
}
