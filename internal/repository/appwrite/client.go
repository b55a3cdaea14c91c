package appwrite

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/jwalitptl/marketplace-admin/internal/repository"
	"github.com/jwalitptl/marketplace-admin/pkg/errors"
	"github.com/jwalitptl/marketplace-admin/pkg/metrics"
)

type Config struct {
	Endpoint   string
	ProjectID  string
	APIKey     string
	DatabaseID string
	Timeout    time.Duration
	Breaker    BreakerConfig
}

type BreakerConfig struct {
	MaxFailures uint32
	Interval    time.Duration
	Timeout     time.Duration
}

// Client talks to the Appwrite REST API. It implements the document,
// account and file gateways.
type Client struct {
	http     *http.Client
	endpoint string
	project  string
	apiKey   string
	database string
	breaker  *gobreaker.CircuitBreaker
	metrics  *metrics.Metrics
	logger   *zerolog.Logger
}

var (
	_ repository.DocumentStore  = (*Client)(nil)
	_ repository.AccountGateway = (*Client)(nil)
	_ repository.FileStore      = (*Client)(nil)
)

// remoteError is the error body returned by Appwrite.
type remoteError struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
	Type    string `json:"type"`
}

func NewClient(cfg Config, m *metrics.Metrics, logger *zerolog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.Breaker.MaxFailures == 0 {
		cfg.Breaker.MaxFailures = 5
	}

	c := &Client{
		http:     &http.Client{Timeout: cfg.Timeout},
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		project:  cfg.ProjectID,
		apiKey:   cfg.APIKey,
		database: cfg.DatabaseID,
		metrics:  m,
		logger:   logger,
	}

	maxFailures := cfg.Breaker.MaxFailures
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "appwrite",
		MaxRequests: 1,
		Interval:    cfg.Breaker.Interval,
		Timeout:     cfg.Breaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
			c.metrics.SetBreakerState(name, int(to))
		},
		IsSuccessful: countsAsSuccess,
	})
	return c
}

// WithHTTPClient replaces the transport, mainly for tests.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.http = h
	return c
}

// countsAsSuccess keeps client errors (4xx) and the caller's own
// cancellations from tripping the breaker.
func countsAsSuccess(err error) bool {
	if err == nil {
		return true
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	appErr, ok := errors.As(err)
	if !ok {
		return false
	}
	return appErr.Code != errors.ErrUpstream && appErr.Code != errors.ErrUnavailable
}

type request struct {
	op     string
	method string
	path   string
	query  url.Values
	body   interface{}
	out    interface{}
	// noSession skips the session header, used for login.
	noSession bool
}

// do executes one call through the breaker and decodes the JSON answer into
// req.out. Response headers are returned for callers that need cookies.
func (c *Client) do(ctx context.Context, req request) (http.Header, error) {
	start := time.Now()
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.roundTrip(ctx, req)
	})
	c.metrics.ObserveGateway(req.op, time.Since(start).Seconds(), err)

	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return nil, errors.Unavailable("remote backend unavailable", err)
	}
	if err != nil {
		return nil, err
	}
	header, _ := result.(http.Header)
	return header, nil
}

func (c *Client) roundTrip(ctx context.Context, req request) (http.Header, error) {
	u := c.endpoint + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return nil, errors.Internal(fmt.Errorf("failed to encode %s request: %w", req.op, err))
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, body)
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("failed to build %s request: %w", req.op, err))
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Appwrite-Project", c.project)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if secret := repository.SessionSecret(ctx); secret != "" && !req.noSession {
		httpReq.Header.Set("X-Appwrite-Session", secret)
	} else if c.apiKey != "" && !req.noSession {
		httpReq.Header.Set("X-Appwrite-Key", c.apiKey)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%s aborted: %w", req.op, ctxErr)
		}
		return nil, errors.Unavailable("remote backend unreachable", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%s aborted: %w", req.op, ctxErr)
		}
		return nil, errors.Unavailable("failed to read remote response", err)
	}

	if resp.StatusCode >= 400 {
		return nil, decodeError(resp.StatusCode, raw)
	}

	if req.out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, req.out); err != nil {
			return nil, errors.Upstream("invalid remote response", err)
		}
	}
	return resp.Header, nil
}

func decodeError(status int, raw []byte) error {
	var re remoteError
	_ = json.Unmarshal(raw, &re)
	msg := re.Message
	if msg == "" {
		msg = http.StatusText(status)
	}
	cause := fmt.Errorf("appwrite %d %s", status, re.Type)

	switch {
	case status == http.StatusBadRequest:
		return errors.BadRequest(msg, cause)
	case status == http.StatusUnauthorized:
		return errors.Unauthorized(msg, cause)
	case status == http.StatusForbidden:
		return errors.Forbidden(msg, cause)
	case status == http.StatusNotFound:
		return &errors.AppError{Code: errors.ErrNotFound, Message: msg, Err: cause}
	case status == http.StatusConflict:
		return errors.Conflict(msg, cause)
	case status == http.StatusTooManyRequests:
		return errors.Unavailable(msg, cause)
	case status >= 500:
		return errors.Upstream(msg, cause)
	default:
		return errors.BadRequest(msg, cause)
	}
}

func (c *Client) databasePath(collection string) string {
	return fmt.Sprintf("/databases/%s/collections/%s/documents", url.PathEscape(c.database), url.PathEscape(collection))
}

// Ready fails while the circuit breaker is open.
func (c *Client) Ready(context.Context) error {
	if c.breaker.State() == gobreaker.StateOpen {
		return errors.Unavailable("appwrite circuit breaker is open", nil)
	}
	return nil
}
