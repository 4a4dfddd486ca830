// Package apiclient talks to the remote Catalyst REST API on behalf of a
// signed-in panel user.
package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	// CSRFCookie is the cookie the API uses to hand out its CSRF token.
	CSRFCookie = "csrftoken"
	// CSRFHeader carries the captured CSRF token back to the API.
	CSRFHeader = "X-CSRFToken"
)

// Credentials supplies and renews the tokens attached to each call.
type Credentials interface {
	AccessToken() string
	CSRFToken() string
	SetCSRFToken(token string)
	// Refresh renews the access token. It is called at most once per logical call.
	Refresh(ctx context.Context) error
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	Logger     *slog.Logger
	Metrics    *Metrics
	HTTPClient *http.Client
}

// Client holds the shared transport. Use Bind to obtain a per-user Session.
type Client struct {
	rest    *resty.Client
	logger  *slog.Logger
	metrics *Metrics
	now     func() time.Time
}

// New constructs a Client for the API rooted at opts.BaseURL.
func New(opts Options) *Client {
	var rc *resty.Client
	if opts.HTTPClient != nil {
		rc = resty.NewWithClient(opts.HTTPClient)
	} else {
		rc = resty.New()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	rc.SetBaseURL(opts.BaseURL).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetCookieJar(nil).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{rest: rc, logger: logger, metrics: opts.Metrics, now: time.Now}
}

// Bind returns a Session that authenticates with creds.
func (c *Client) Bind(creds Credentials) *Session {
	return &Session{client: c, creds: creds}
}

// PostAnonymous posts body without credentials and without the refresh path.
// Login and token renewal go through here.
func (c *Client) PostAnonymous(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.finish(c.send(ctx, http.MethodPost, path, body, nil))
}

type result struct {
	status  int
	body    []byte
	cookies []*http.Cookie
}

func (c *Client) send(ctx context.Context, method, path string, body any, creds Credentials) (result, error) {
	req := c.rest.R().SetContext(ctx)
	if creds != nil {
		if token := creds.AccessToken(); token != "" {
			req.SetAuthToken(token)
		}
		if csrf := creds.CSRFToken(); csrf != "" {
			req.SetHeader(CSRFHeader, csrf)
		}
	}
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		c.metrics.observeRequest(method, 0)
		c.logger.Warn("api request failed", slog.String("method", method), slog.String("path", path), slog.Any("error", err))
		return result{}, fmt.Errorf("%w: %s %s: %v", ErrTransport, method, path, err)
	}
	c.metrics.observeRequest(method, resp.StatusCode())
	c.logger.Debug("api request", slog.String("method", method), slog.String("path", path), slog.Int("status", resp.StatusCode()))
	return result{status: resp.StatusCode(), body: resp.Body(), cookies: resp.Cookies()}, nil
}

func (c *Client) finish(res result, err error) (json.RawMessage, error) {
	if err != nil {
		return nil, err
	}
	if res.status >= http.StatusBadRequest {
		return nil, newHTTPError(res.status, res.body)
	}
	if len(res.body) == 0 {
		return append(json.RawMessage(nil), emptyObject...), nil
	}
	if !json.Valid(res.body) {
		return nil, fmt.Errorf("%w: status %d", ErrInvalidResponse, res.status)
	}
	return json.RawMessage(res.body), nil
}

// Session is a Client bound to one user's credentials.
type Session struct {
	client *Client
	creds  Credentials
}

// Request performs one logical call. A 401, or an access token already known to
// be expired, triggers a single refresh and a single retry.
func (s *Session) Request(ctx context.Context, path, method string, body any) (json.RawMessage, error) {
	return s.RequestWithPolicy(ctx, path, method, body, NotAttempted)
}

// RequestWithPolicy is Request with an explicit starting policy.
func (s *Session) RequestWithPolicy(ctx context.Context, path, method string, body any, policy RetryPolicy) (json.RawMessage, error) {
	if policy.CanRefresh() && s.creds != nil && KnownExpired(s.creds.AccessToken(), s.client.now()) {
		if err := s.refresh(ctx); err != nil {
			return nil, err
		}
		policy = policy.Next()
	}

	res, err := s.client.send(ctx, method, path, body, s.creds)
	if err != nil {
		return nil, err
	}
	s.captureCSRF(res.cookies)

	if res.status == http.StatusUnauthorized && policy.CanRefresh() && s.creds != nil {
		if err := s.refresh(ctx); err != nil {
			return nil, err
		}
		return s.RequestWithPolicy(ctx, path, method, body, policy.Next())
	}
	return s.client.finish(res, nil)
}

// Get issues a GET.
func (s *Session) Get(ctx context.Context, path string) (json.RawMessage, error) {
	return s.Request(ctx, path, http.MethodGet, nil)
}

// Post issues a POST with a JSON body.
func (s *Session) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return s.Request(ctx, path, http.MethodPost, body)
}

// Put issues a PUT with a JSON body.
func (s *Session) Put(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return s.Request(ctx, path, http.MethodPut, body)
}

// Patch issues a PATCH with a JSON body.
func (s *Session) Patch(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return s.Request(ctx, path, http.MethodPatch, body)
}

// Delete issues a DELETE.
func (s *Session) Delete(ctx context.Context, path string) (json.RawMessage, error) {
	return s.Request(ctx, path, http.MethodDelete, nil)
}

func (s *Session) refresh(ctx context.Context) error {
	err := s.creds.Refresh(ctx)
	s.client.metrics.observeRefresh(err)
	if err != nil {
		return fmt.Errorf("apiclient: refresh: %w", err)
	}
	return nil
}

func (s *Session) captureCSRF(cookies []*http.Cookie) {
	if s.creds == nil {
		return
	}
	for _, c := range cookies {
		if c.Name == CSRFCookie && c.Value != "" && c.Value != s.creds.CSRFToken() {
			s.creds.SetCSRFToken(c.Value)
		}
	}
}
