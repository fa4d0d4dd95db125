package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/fieldnet/fieldnet/pkg/config"
	"github.com/fieldnet/fieldnet/pkg/logger"
	"github.com/fieldnet/fieldnet/pkg/version"
)

const HeaderRequestID = "X-Request-ID"

// Auth is an opaque header map attached verbatim to a request.
type Auth map[string]string

// Request describes one call against the backend. Path is relative to the
// base URL; Query is an already encoded query string.
type Request struct {
	Method string
	Path   string
	Query  string
	Body   any
	Auth   Auth
}

// Target returns path plus query string.
func (r *Request) Target() string {
	if r.Query == "" {
		return r.Path
	}
	return r.Path + "?" + r.Query
}

// Response is a completed HTTP exchange with a non-error status.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Empty reports whether the response carried no body.
func (r *Response) Empty() bool {
	return len(strings.TrimSpace(string(r.Body))) == 0
}

// Doer sends requests. Implementations return *NetworkError when no response
// arrived and *StatusError or *ValidationError for statuses >= 400.
type Doer interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// Config holds HTTP client settings.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	RetryCount int
	RateLimit  float64
	RateBurst  int
	Debug      bool
}

// FromAppConfig creates a transport Config from the application configuration.
func FromAppConfig(appConfig *config.Config) Config {
	return Config{
		BaseURL:    appConfig.API.BaseURL,
		Timeout:    appConfig.API.Timeout,
		RetryCount: appConfig.API.RetryCount,
		RateLimit:  appConfig.API.RateLimit,
		RateBurst:  appConfig.API.RateBurst,
		Debug:      appConfig.Runtime.LogLevel == "debug",
	}
}

// Client is the resty-backed Doer.
type Client struct {
	client  *resty.Client
	limiter *rate.Limiter
	baseURL string
}

var _ Doer = (*Client)(nil)

// New creates a Client for cfg.
func New(cfg Config) (*Client, error) {
	baseURL, err := validateBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		client:  buildHTTPClient(cfg, baseURL),
		limiter: buildRateLimiter(cfg),
		baseURL: baseURL,
	}, nil
}

func validateBaseURL(raw string) (string, error) {
	parsedURL, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	if !parsedURL.IsAbs() || parsedURL.Host == "" {
		return "", fmt.Errorf("base URL must be absolute, got: %s", raw)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return "", fmt.Errorf("base URL scheme must be http or https, got: %s", parsedURL.Scheme)
	}
	return strings.TrimRight(raw, "/"), nil
}

func buildHTTPClient(cfg Config, baseURL string) *resty.Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", version.UserAgent()).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(100 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second)
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	if cfg.RetryCount > 0 {
		client.AddRetryCondition(retryCondition)
	}
	if cfg.Debug {
		client.SetDebug(true)
	}
	return client
}

// retryCondition retries network errors and transient server statuses of
// reads. Writes are sent once.
func retryCondition(r *resty.Response, err error) bool {
	if r == nil || r.Request == nil || !retryableMethod(r.Request.Method) {
		return false
	}
	if err != nil {
		return true
	}
	code := r.StatusCode()
	return code >= 500 || code == http.StatusTooManyRequests || code == http.StatusRequestTimeout
}

func retryableMethod(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}

func buildRateLimiter(cfg Config) *rate.Limiter {
	if cfg.RateLimit <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(cfg.RateLimit), max(1, cfg.RateBurst))
}

// BaseURL returns the normalized base URL requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do implements Doer.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	log := logger.FromContext(ctx)
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &NetworkError{Method: req.Method, Path: req.Target(), Err: fmt.Errorf("rate limit: %w", err)}
		}
	}
	requestID := uuid.NewString()
	r := c.client.R().
		SetContext(ctx).
		SetHeader(HeaderRequestID, requestID)
	if req.Query != "" {
		r.SetQueryString(req.Query)
	}
	if len(req.Auth) > 0 {
		r.SetHeaders(req.Auth)
	}
	if req.Body != nil {
		r.SetBody(req.Body)
	}
	start := time.Now()
	resp, err := r.Execute(req.Method, req.Path)
	if err != nil {
		recordRequest(ctx, req.Method, 0, time.Since(start))
		log.Debug("API request failed", "method", req.Method, "path", req.Target(), "request_id", requestID, "error", err)
		return nil, &NetworkError{Method: req.Method, Path: req.Target(), Err: err}
	}
	recordRequest(ctx, req.Method, resp.StatusCode(), time.Since(start))
	log.Debug("API request completed",
		"method", req.Method,
		"path", req.Target(),
		"status", resp.StatusCode(),
		"request_id", requestID,
		"duration", time.Since(start),
	)
	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, errorFromResponse(req.Method, req.Target(), resp.StatusCode(), resp.Body())
	}
	return &Response{
		Status: resp.StatusCode(),
		Header: resp.Header(),
		Body:   resp.Body(),
	}, nil
}

// Decode unmarshals a response body into v.
func Decode(resp *Response, v any) error {
	if err := json.Unmarshal(resp.Body, v); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return nil
}

// TokenAuth returns the header set for an API token, or nil when token is
// empty.
func TokenAuth(token string) Auth {
	if token == "" {
		return nil
	}
	return Auth{"Authorization": "Token " + token}
}

type authorized struct {
	next Doer
	auth Auth
}

// Authorized returns a Doer that attaches auth to every request. Headers set
// on an individual request take precedence.
func Authorized(next Doer, auth Auth) Doer {
	if len(auth) == 0 {
		return next
	}
	return &authorized{next: next, auth: maps.Clone(auth)}
}

func (a *authorized) Do(ctx context.Context, req *Request) (*Response, error) {
	merged := maps.Clone(a.auth)
	maps.Copy(merged, req.Auth)
	clone := *req
	clone.Auth = merged
	return a.next.Do(ctx, &clone)
}
