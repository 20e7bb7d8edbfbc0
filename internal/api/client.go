package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/julianstephens/wellday/internal/constants"
)

var jsonContentType = regexp.MustCompile(`json`)

// Requester performs a single backend call and returns the raw JSON body,
// or nil when the response carried no JSON.
type Requester interface {
	Request(ctx context.Context, path string, opts RequestOptions) ([]byte, error)
}

// RequestOptions configures a single call.
type RequestOptions struct {
	Method  string
	Body    any
	Headers map[string]string
}

// TokenSource supplies the bearer token for authenticated calls.
// An empty token means the request is sent unauthenticated.
type TokenSource interface {
	Token() (string, error)
}

// StaticToken is a TokenSource backed by a fixed string.
type StaticToken string

func (s StaticToken) Token() (string, error) { return string(s), nil }

// Client talks to the habit-tracking REST backend.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	limiter *rate.Limiter
	log     *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTokenSource sets where bearer credentials come from.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithRateLimit throttles outbound calls. rps <= 0 disables throttling.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.log = l }
}

// NewClient creates a client rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: constants.DefaultRequestTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend root the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request issues a call against path, relative to the base URL.
//
// Non-2xx responses are returned as *Error. Transport failures wrap ErrTransport.
// A successful response without a JSON content type yields a nil body.
func (c *Client) Request(ctx context.Context, path string, opts RequestOptions) ([]byte, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if opts.Body != nil {
		data, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Content-Type", "application/json")

	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			return nil, fmt.Errorf("resolving token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	requestID := uuid.NewString()
	req.Header.Set(constants.RequestIDHeader, requestID)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTransport, err)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.debug("request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrTransport, err)
	}

	c.debug("request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start),
	)

	var result []byte
	if jsonContentType.MatchString(resp.Header.Get("Content-Type")) && len(bytes.TrimSpace(raw)) > 0 {
		if !json.Valid(raw) {
			// Parse failures on success are treated as "no data", not as errors.
			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return nil, nil
			}
		} else {
			result = raw
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newError(resp.StatusCode, result, raw)
	}

	return result, nil
}

func (c *Client) debug(msg string, keyvals ...interface{}) {
	if c.log != nil {
		c.log.Debug(msg, keyvals...)
	}
}

// Decode unmarshals a Request result into T. A nil body yields T's zero value.
func Decode[T any](body []byte) (T, error) {
	var v T
	if len(body) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(body, &v); err != nil {
		return v, fmt.Errorf("decoding response: %w", err)
	}
	return v, nil
}
