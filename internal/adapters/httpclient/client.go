// Package httpclient implements the plannerapi ports over the service's JSON REST API.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Overland-East-Bay/trip-planner-client/internal/adapters/oas"
	"github.com/Overland-East-Bay/trip-planner-client/internal/ports/out/plannerapi"
)

// TokenSource supplies the bearer token for each request. An empty token sends none.
type TokenSource interface {
	Token() string
}

type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

type Options struct {
	// HTTPClient defaults to a client with Timeout.
	HTTPClient *http.Client
	// Timeout bounds each call when HTTPClient is nil. Zero means no timeout.
	Timeout time.Duration
	// OnUnauthorized runs after any 401 received while a token was sent.
	OnUnauthorized func()
	Logger         *log.Logger
}

const (
	requestIDHeader      = "X-Request-ID"
	idempotencyKeyHeader = "Idempotency-Key"
)

type idempotencyKey struct{}

// WithIdempotencyKey makes POST calls made with the returned context carry key, so the
// service replays its first response when the same request is sent again.
func WithIdempotencyKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, idempotencyKey{}, key)
}

// Client is safe for concurrent use.
type Client struct {
	base   *url.URL
	hc     *http.Client
	tokens TokenSource
	unauth func()
	log    *log.Logger
}

var (
	_ plannerapi.AuthAPI     = (*Client)(nil)
	_ plannerapi.TripsAPI    = (*Client)(nil)
	_ plannerapi.ExpensesAPI = (*Client)(nil)
)

// New returns a client for the API rooted at baseURL, e.g. http://localhost:8000/api.
func New(baseURL string, opts Options) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Client{base: u, hc: hc, unauth: opts.OnUnauthorized, log: logger}, nil
}

// SetTokenSource wires the session's token. It must be called before concurrent use.
func (c *Client) SetTokenSource(ts TokenSource) { c.tokens = ts }

type call struct {
	method string
	path   string
	query  url.Values
	body   any
	out    any
	// generation maps rejections other than auth failures to ErrGeneration.
	generation bool
	// public calls never carry the bearer token.
	public bool
}

func (c *Client) do(ctx context.Context, in call) error {
	u := *c.base
	u.Path = c.base.Path + in.path
	if len(in.query) > 0 {
		u.RawQuery = in.query.Encode()
	}

	var body io.Reader
	if in.body != nil {
		b, err := json.Marshal(in.body)
		if err != nil {
			return plannerapi.Validation("invalid request body", map[string]any{"body": err.Error()})
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, in.method, u.String(), body)
	if err != nil {
		return &plannerapi.Error{Kind: plannerapi.ErrTransport, Message: "build request", Cause: err}
	}
	req.Header.Set("Accept", "application/json")
	if in.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rid := uuid.NewString()
	req.Header.Set(requestIDHeader, rid)
	if key, _ := ctx.Value(idempotencyKey{}).(string); key != "" && in.method == http.MethodPost {
		req.Header.Set(idempotencyKeyHeader, key)
	}
	token := ""
	if c.tokens != nil && !in.public {
		token = c.tokens.Token()
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		c.log.Printf("httpclient: %s %s [%s]: %v", in.method, in.path, rid, err)
		return &plannerapi.Error{Kind: plannerapi.ErrTransport, Cause: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &plannerapi.Error{Kind: plannerapi.ErrTransport, Status: resp.StatusCode, Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := classify(resp.StatusCode, raw, in.generation)
		c.log.Printf("httpclient: %s %s [%s]: %v", in.method, in.path, rid, apiErr)
		if resp.StatusCode == http.StatusUnauthorized && token != "" && c.unauth != nil {
			c.unauth()
		}
		return apiErr
	}

	if in.out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, in.out); err != nil {
		return &plannerapi.Error{Kind: plannerapi.ErrTransport, Status: resp.StatusCode, Message: "decode response", Cause: err}
	}
	return nil
}

func classify(status int, body []byte, generation bool) *plannerapi.Error {
	e := &plannerapi.Error{Status: status}

	var er oas.ErrorResponse
	if err := json.Unmarshal(body, &er); err == nil {
		e.Message, e.Details = er.Summary()
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		e.Kind = plannerapi.ErrAuthentication
	case generation:
		e.Kind = plannerapi.ErrGeneration
	case status == http.StatusNotFound:
		e.Kind = plannerapi.ErrNotFound
	case status == http.StatusBadRequest || status == http.StatusConflict || status == http.StatusUnprocessableEntity:
		e.Kind = plannerapi.ErrValidation
	default:
		e.Kind = plannerapi.ErrTransport
	}
	return e
}

// IsTransport reports whether err is a connectivity failure rather than a status.
func IsTransport(err error) bool {
	var ae *plannerapi.Error
	return errors.As(err, &ae) && errors.Is(ae.Kind, plannerapi.ErrTransport) && ae.Status == 0
}
