// Package httpclient is the thin JSON-over-HTTP client used by every API
// module. It attaches the bearer token, maps failures onto typed errors and
// logs them, and records request metrics.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/homepoint/internal/client/metrics"
	"github.com/dmitrijs2005/homepoint/internal/common"
	"github.com/dmitrijs2005/homepoint/internal/logging"
	"github.com/google/uuid"
)

// TokenSource supplies the bearer token for each request. An empty token
// means the request is sent unauthenticated.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func(ctx context.Context) (string, error)

func (f TokenFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

type Config struct {
	BaseURL string
	// Timeout bounds each request. Zero means no client-side deadline.
	Timeout    time.Duration
	HTTPClient *http.Client
	Tokens     TokenSource
	Logger     logging.Logger
}

type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	tokens     TokenSource
	log        logging.Logger
}

func New(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	log := cfg.Logger
	if log == nil {
		log = logging.Nop()
	}
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		timeout:    cfg.Timeout,
		httpClient: hc,
		tokens:     cfg.Tokens,
		log:        log,
	}
}

// BaseURL returns the configured API root without the trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) Get(ctx context.Context, path string) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodGet, path, nil, nil)
}

func (c *Client) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPost, path, body, nil)
}

func (c *Client) Put(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPut, path, body, nil)
}

func (c *Client) Delete(ctx context.Context, path string) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// Do sends one request to baseURL+path and returns the decoded-but-raw JSON
// body of a 2xx response. An empty 2xx body yields (nil, nil).
//
// body may be nil, a *Multipart, or any value that marshals to JSON.
// Failures are reported as *HTTPStatusError, *ParseError, *TransportError or
// *TimeoutError.
func (c *Client) Do(ctx context.Context, method, path string, body any, headers http.Header) (json.RawMessage, error) {
	url := c.baseURL + path
	reqID := uuid.NewString()
	ctx = logging.WithFields(ctx, "request_id", reqID)
	log := c.log.With("method", method, "path", path)

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := c.newRequest(ctx, method, url, body)
	if err != nil {
		log.Error(ctx, "build request", "error", err)
		return nil, err
	}
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set(common.RequestIDHeaderName, reqID)
	req.Header.Set("Accept", "application/json")

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			log.Error(ctx, "read auth token", "error", err)
			return nil, err
		}
		if token != "" {
			req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordHTTPRequest(method, 0, time.Since(start))
		err = c.wrapTransport(ctx, method, url, err)
		log.Error(ctx, "request failed", "error", err)
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	metrics.RecordHTTPRequest(method, resp.StatusCode, time.Since(start))
	if err != nil {
		err = c.wrapTransport(ctx, method, url, err)
		log.Error(ctx, "read response body", "status", resp.StatusCode, "error", err)
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := &HTTPStatusError{
			StatusCode: resp.StatusCode,
			Message:    extractMessage(data),
			Body:       data,
		}
		log.Error(ctx, "api returned error status", "status", resp.StatusCode, "message", err.Message)
		return nil, err
	}

	if len(bytes.TrimSpace(data)) == 0 {
		log.Debug(ctx, "request done", "status", resp.StatusCode)
		return nil, nil
	}

	if !json.Valid(data) {
		var probe any
		err := &ParseError{Body: data, Err: json.Unmarshal(data, &probe)}
		log.Error(ctx, "decode response", "status", resp.StatusCode, "error", err)
		return nil, err
	}

	log.Debug(ctx, "request done", "status", resp.StatusCode, "bytes", len(data))
	return json.RawMessage(data), nil
}

func (c *Client) newRequest(ctx context.Context, method, url string, body any) (*http.Request, error) {
	var (
		reader      io.Reader
		contentType string
	)

	switch b := body.(type) {
	case nil:
	case *Multipart:
		buf, ct, err := b.encode()
		if err != nil {
			return nil, err
		}
		reader, contentType = buf, ct
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, err
		}
		reader, contentType = bytes.NewReader(data), "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

func (c *Client) wrapTransport(ctx context.Context, method, url string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		return &TimeoutError{Method: method, URL: url, Timeout: c.timeout}
	}
	return &TransportError{Method: method, URL: url, Err: err}
}
