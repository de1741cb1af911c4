// Package api is the HTTP client for the storefront REST backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"storefront/internal/logging"
	"storefront/internal/types"
)

// RequestIDHeader carries the client-generated id of an order submission.
const RequestIDHeader = "X-Request-ID"

// maxErrorBody bounds how much of a failed response is kept for logging.
const maxErrorBody = 512

// Client talks to the backend. It is safe for concurrent use.
type Client struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithTimeout sets the per-request timeout. The client is copied first, so
// an *http.Client passed to WithHTTPClient is never modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.client
			hc.Timeout = d
			c.client = &hc
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// NewClient creates a client for the backend rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: "storefront/1.0",
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend root.
func (c *Client) BaseURL() string { return c.baseURL }

// FetchProducts returns one page of the catalog.
func (c *Client) FetchProducts(ctx context.Context, page, pageSize int) (types.ProductPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))

	var out types.ProductPage
	if err := c.getJSON(ctx, "/products?"+q.Encode(), &out); err != nil {
		return types.ProductPage{}, err
	}
	if out.Items == nil {
		out.Items = []types.Product{}
	}
	logging.APIDebug("Fetched products page=%d items=%d total=%d", out.Page, len(out.Items), out.Total)
	return out, nil
}

// FetchReviews returns all reviews.
func (c *Client) FetchReviews(ctx context.Context) ([]types.Review, error) {
	var out []types.Review
	if err := c.getJSON(ctx, "/reviews", &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []types.Review{}
	}
	logging.APIDebug("Fetched %d reviews", len(out))
	return out, nil
}

// SubmitOrder posts an order. The response body is decoded whatever the
// status code: the backend reports rejections in the body.
func (c *Client) SubmitOrder(ctx context.Context, requestID string, req types.OrderRequest) (types.OrderResponse, error) {
	const op = "POST /order"

	body, err := json.Marshal(req)
	if err != nil {
		return types.OrderResponse{}, fmt.Errorf("failed to marshal order: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/order", bytes.NewReader(body))
	if err != nil {
		return types.OrderResponse{}, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if requestID != "" {
		httpReq.Header.Set(RequestIDHeader, requestID)
	}

	resp, err := c.do(httpReq, op)
	if err != nil {
		return types.OrderResponse{}, err
	}
	defer resp.Body.Close()

	var out types.OrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		logging.APIError("%s: status %d, undecodable body: %v", op, resp.StatusCode, err)
		return types.OrderResponse{}, &TransportError{Kind: KindDecode, Op: op, StatusCode: resp.StatusCode, Err: err}
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	op := "GET " + strings.SplitN(path, "?", 2)[0]

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.do(httpReq, op)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		logging.APIError("%s returned status %d: %s", op, resp.StatusCode, strings.TrimSpace(string(snippet)))
		return &TransportError{Kind: KindHTTP, Op: op, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		logging.APIError("%s: failed to decode response: %v", op, err)
		return &TransportError{Kind: KindDecode, Op: op, StatusCode: resp.StatusCode, Err: err}
	}
	return nil
}

func (c *Client) do(req *http.Request, op string) (*http.Response, error) {
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	timer := logging.StartTimer(logging.CategoryAPI, op)
	resp, err := c.client.Do(req)
	timer.StopWithThreshold(2 * time.Second)
	if err != nil {
		logging.APIError("%s failed: %v", op, err)
		return nil, &TransportError{Kind: KindNetwork, Op: op, Err: err}
	}
	return resp, nil
}
