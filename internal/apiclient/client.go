package apiclient

// Package apiclient is the single configured HTTP client used to talk to the
// datasheet backend. Request interceptors run before dispatch; response
// interceptors see every outcome, successful or not.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/interview-ai/datasheet-ui/internal/ports"
)

const (
	// LoginPath is the client-side route unauthenticated sessions are sent to.
	LoginPath = "/auth"

	maxResponseBytes = 32 << 20
	defaultTimeout   = 30 * time.Second
)

// RequestInterceptor mutates an outgoing request. A returned error aborts the send.
type RequestInterceptor func(req *http.Request) error

// ResponseInterceptor observes the outcome of a request. On success err is nil
// and resp is set; on failure resp may be nil. The returned pair replaces the
// outcome for the next interceptor and, finally, the caller.
type ResponseInterceptor func(ctx context.Context, resp *Response, err error) (*Response, error)

// Request describes a call relative to the client's base URL.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header

	// Body is sent verbatim. When nil and JSON is set, JSON is encoded instead.
	Body io.Reader
	JSON any
}

// Response is a fully read backend response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the response body into v.
func (r *Response) Decode(v any) error {
	if r == nil || len(r.Body) == 0 || v == nil {
		return nil
	}
	if err := decodeJSON(r.Body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Options configures a Client.
type Options struct {
	// BaseURL is the absolute backend base URL, e.g. "http://localhost:8000/api".
	BaseURL string

	// HTTPClient performs requests. Defaults to a client with a 30s timeout.
	HTTPClient *http.Client

	// Header holds default headers. Defaults to Content-Type: application/json.
	Header http.Header

	Logger *slog.Logger

	// Store and Navigator enable the session interceptors: bearer token
	// attachment and the 401 clear-and-redirect.
	Store     ports.TokenStore
	Navigator ports.Navigator
}

// Client sends requests through the interceptor chains.
type Client struct {
	baseURL    string
	httpClient *http.Client
	header     http.Header
	logger     *slog.Logger
	store      ports.TokenStore

	mu       sync.RWMutex
	reqChain []RequestInterceptor
	resChain []ResponseInterceptor
}

// New creates a client with the default interceptors installed: request id,
// bearer token (when a store is configured) and error handling.
func New(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("base url %q must be absolute", opts.BaseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	header := opts.Header.Clone()
	if header == nil {
		header = http.Header{}
	}
	if header.Get("Content-Type") == "" {
		header.Set("Content-Type", "application/json")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		baseURL:    base,
		httpClient: httpClient,
		header:     header,
		logger:     logger,
		store:      opts.Store,
	}

	c.UseRequest(RequestIDInterceptor())
	if opts.Store != nil {
		c.UseRequest(AuthInterceptor(opts.Store))
	}
	c.UseResponse(ErrorInterceptor(ErrorInterceptorOptions{
		Logger:    logger,
		Store:     opts.Store,
		Navigator: opts.Navigator,
	}))

	return c, nil
}

// BaseURL returns the absolute base URL requests are sent to.
func (c *Client) BaseURL() string { return c.baseURL }

// Store returns the token store the client reads from, or nil.
func (c *Client) Store() ports.TokenStore { return c.store }

// UseRequest appends request interceptors; they run in registration order.
func (c *Client) UseRequest(interceptors ...RequestInterceptor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reqChain = append(c.reqChain, interceptors...)
}

// UseResponse appends response interceptors; they run in registration order.
func (c *Client) UseResponse(interceptors ...ResponseInterceptor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resChain = append(c.resChain, interceptors...)
}

// Do sends req and returns the read response. Non-2xx answers are returned as
// *HTTPError and no-response failures as *TransportError, after every response
// interceptor has run.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	resp, err := c.send(ctx, req)

	c.mu.RLock()
	chain := make([]ResponseInterceptor, len(c.resChain))
	copy(chain, c.resChain)
	c.mu.RUnlock()

	for _, intercept := range chain {
		resp, err = intercept(ctx, resp, err)
	}
	return resp, err
}

// DoJSON sends req and decodes a successful response body into out.
func (c *Client) DoJSON(ctx context.Context, req Request, out any) error {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	return resp.Decode(out)
}

func (c *Client) send(ctx context.Context, req Request) (*Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := c.build(ctx, method, req)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	chain := make([]RequestInterceptor, len(c.reqChain))
	copy(chain, c.reqChain)
	c.mu.RUnlock()

	for _, intercept := range chain {
		if err := intercept(httpReq); err != nil {
			return nil, fmt.Errorf("%s %s: request interceptor: %w", method, req.Path, err)
		}
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Method: method, Path: req.Path, Err: err}
	}
	defer func() {
		if cerr := httpResp.Body.Close(); cerr != nil {
			c.logger.DebugContext(ctx, "close response body failed", "error", cerr)
		}
	}()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return nil, &TransportError{Method: method, Path: req.Path, Err: fmt.Errorf("read body: %w", err)}
	}

	resp := &Response{StatusCode: httpResp.StatusCode, Header: httpResp.Header, Body: body}
	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return resp, &HTTPError{Method: method, Path: req.Path, StatusCode: httpResp.StatusCode, Body: body}
	}
	return resp, nil
}

func (c *Client) build(ctx context.Context, method string, req Request) (*http.Request, error) {
	target := c.baseURL + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	body := req.Body
	if body == nil && req.JSON != nil {
		b, err := json.Marshal(req.JSON)
		if err != nil {
			return nil, fmt.Errorf("%s %s: encode body: %w", method, req.Path, err)
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: build request: %w", method, req.Path, err)
	}
	for k, vs := range c.header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	for k, vs := range req.Header {
		httpReq.Header.Del(k)
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	httpReq.Header.Set("Accept", "application/json")
	return httpReq, nil
}

func decodeJSON(b []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after JSON value")
	}
	return nil
}
