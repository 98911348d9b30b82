package weconnect

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Yong0-sa/weconnect-sub000/internal/domain/entities"
	"github.com/Yong0-sa/weconnect-sub000/internal/domain/repositories"
	"github.com/Yong0-sa/weconnect-sub000/internal/infrastructure/observability"
	"github.com/Yong0-sa/weconnect-sub000/pkg/errors"
	"github.com/Yong0-sa/weconnect-sub000/pkg/retry"
)

const defaultFallback = "요청을 처리하지 못했습니다."

var (
	_ repositories.AuthRepository      = (*HTTPClient)(nil)
	_ repositories.ProfileRepository   = (*HTTPClient)(nil)
	_ repositories.CoinRepository      = (*HTTPClient)(nil)
	_ repositories.FarmRepository      = (*HTTPClient)(nil)
	_ repositories.ContractRepository  = (*HTTPClient)(nil)
	_ repositories.ChatRepository      = (*HTTPClient)(nil)
	_ repositories.DiaryRepository     = (*HTTPClient)(nil)
	_ repositories.ShopRepository      = (*HTTPClient)(nil)
	_ repositories.CommunityRepository = (*HTTPClient)(nil)
	_ repositories.AIRepository        = (*HTTPClient)(nil)
)

// TokenSource supplies the bearer token of OAuth-derived sessions. An empty token sends no header.
type TokenSource interface {
	Token(ctx context.Context) string
}

// HTTPClient talks to the WeConnect REST API. Every resource method goes through do and
// therefore shares one response convention.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	retry      retry.Config
	metrics    *observability.Metrics
}

// Option configures an HTTPClient
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying http.Client. A client without a cookie jar gets one.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		c.httpClient = hc
	}
}

// WithTokenSource attaches the bearer token supplier
func WithTokenSource(ts TokenSource) Option {
	return func(c *HTTPClient) {
		c.tokens = ts
	}
}

// WithRetryAttempts retries idempotent GETs on transport failures
func WithRetryAttempts(n int) Option {
	return func(c *HTTPClient) {
		c.retry = retry.Attempts(n)
	}
}

// WithMetrics records every call in m
func WithMetrics(m *observability.Metrics) Option {
	return func(c *HTTPClient) {
		c.metrics = m
	}
}

// NewClient creates a client for the API rooted at baseURL (for example http://localhost:8080/api)
func NewClient(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		retry: retry.Attempts(1),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient.Jar == nil {
		// cookiejar.New only fails on a bad PublicSuffixList, and none is passed
		jar, _ := cookiejar.New(nil)
		c.httpClient.Jar = jar
	}
	return c
}

// BaseURL returns the API root the client was built with
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// request describes one API call
type request struct {
	method      string
	path        string
	query       url.Values
	body        []byte
	contentType string
	fallback    string
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, query url.Values, out interface{}, fallback string) error {
	return c.do(ctx, request{method: http.MethodGet, path: path, query: query, fallback: fallback}, out)
}

func (c *HTTPClient) sendJSON(ctx context.Context, method, path string, in, out interface{}, fallback string) error {
	req := request{method: method, path: path, fallback: fallback}
	if in != nil {
		body, err := json.Marshal(in)
		if err != nil {
			return errors.NewInternalError("encode request body", err)
		}
		req.body = body
		req.contentType = "application/json"
	}
	return c.do(ctx, req, out)
}

// transportError marks failures that happened before any HTTP status was received
type transportError struct {
	err error
}

func (e *transportError) Error() string { return e.err.Error() }
func (e *transportError) Unwrap() error { return e.err }

func (c *HTTPClient) do(ctx context.Context, req request, out interface{}) error {
	endpoint := c.baseURL + req.path
	if len(req.query) > 0 {
		endpoint += "?" + req.query.Encode()
	}

	ctx, span := observability.StartSpan(ctx, "weconnect "+req.method+" "+req.path,
		attribute.String("http.method", req.method),
		attribute.String("http.route", req.path),
	)
	defer span.End()

	start := time.Now()
	status := 0

	attempt := func() error {
		httpReq, err := c.newHTTPRequest(ctx, req, endpoint)
		if err != nil {
			return err
		}
		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			return &transportError{err: err}
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return &transportError{err: fmt.Errorf("read response body: %w", err)}
		}
		status = resp.StatusCode
		return interpretResponse(resp.StatusCode, raw, req.fallback, out)
	}

	var err error
	if req.method == http.MethodGet && c.retry.MaxAttempts > 1 {
		cfg := c.retry
		cfg.ShouldRetry = func(err error) bool {
			var te *transportError
			return stderrors.As(err, &te)
		}
		cfg.OnRetry = func(n int, err error, next time.Duration) {
			observability.LoggerFromContext(ctx).Warn().
				Err(err).
				Str("path", req.path).
				Int("attempt", n).
				Dur("next_delay", next).
				Msg("API call failed, retrying")
		}
		err = retry.Do(ctx, cfg, attempt)
	} else {
		err = attempt()
	}

	duration := time.Since(start)
	span.SetAttributes(attribute.Int("http.status_code", status))
	observability.RecordError(span, err)
	observability.RecordAPIMetric(ctx, c.metrics, req.method, req.path, status, duration, err)

	observability.LoggerFromContext(ctx).Debug().
		Str("method", req.method).
		Str("path", req.path).
		Int("status", status).
		Dur("duration", duration).
		AnErr("error", err).
		Msg("API call")

	var te *transportError
	if stderrors.As(err, &te) {
		return fmt.Errorf("%s %s: %w", req.method, req.path, te.err)
	}
	return err
}

func (c *HTTPClient) newHTTPRequest(ctx context.Context, req request, endpoint string) (*http.Request, error) {
	var body io.Reader
	if req.body != nil {
		body = bytes.NewReader(req.body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, endpoint, body)
	if err != nil {
		return nil, errors.NewInternalError("build request", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	if c.tokens != nil {
		if token := c.tokens.Token(ctx); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return httpReq, nil
}

// interpretResponse applies the API response convention to a fully read body.
func interpretResponse(status int, raw []byte, fallback string, out interface{}) error {
	body := bytes.TrimSpace(raw)
	isJSON := len(body) > 0 && json.Valid(body)

	if status == http.StatusUnauthorized {
		return errors.NewAuthRequiredError()
	}

	if status < 200 || status >= 300 {
		if fallback == "" {
			fallback = defaultFallback
		}
		message := fallback
		switch {
		case isJSON:
			if m := messageField(body); m != "" {
				message = m
			}
		case len(body) > 0:
			message = string(body)
		}
		return errors.NewRequestFailedError(status, message)
	}

	if status == http.StatusNoContent || len(body) == 0 || out == nil {
		return nil
	}

	if isJSON {
		if err := json.Unmarshal(body, out); err != nil {
			return errors.NewInternalError("malformed response", err)
		}
		return nil
	}

	switch o := out.(type) {
	case *string:
		*o = string(body)
	case *entities.MessageResponse:
		o.Message = string(body)
	default:
		return errors.NewInternalError(fmt.Sprintf("unexpected non-JSON response: %.80s", body), nil)
	}
	return nil
}

func messageField(body []byte) string {
	var envelope struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Message) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(envelope.Message, &s); err != nil {
		return ""
	}
	return s
}

func idPath(format string, id int64) string {
	return fmt.Sprintf(format, id)
}
