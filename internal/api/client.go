// Package api is the typed client for the storefront backend REST API.
//
// Every call goes through a single request path that attaches the bearer
// token, unwraps the backend's JSON envelope and maps error responses to
// application errors. A 401 from any endpoint clears the session: the token
// is stale and keeping it would leave the client half logged in.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jewelcca/storefront/internal/session"
	"github.com/jewelcca/storefront/pkg/httpclient"
	"github.com/jewelcca/storefront/pkg/logger"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_api_requests_total",
			Help: "Total outbound API requests by method, endpoint and status.",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_api_request_duration_seconds",
			Help:    "Outbound API request duration in seconds.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)
)

// requestDoer is satisfied by both the plain retry client and its circuit
// breaker wrapper.
type requestDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Client talks to the storefront backend. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    requestDoer
	session *session.Store
	log     *slog.Logger
}

// New creates an API client rooted at baseURL (e.g. "http://localhost:9090/api").
// All requests run behind a shared circuit breaker so a dead backend fails
// fast instead of tying up every caller in retries.
func New(baseURL string, httpCfg httpclient.Config, sess *session.Store, log *slog.Logger) *Client {
	base := httpclient.New(httpCfg)
	breaker := httpclient.NewCircuitBreakerClient(
		base, httpclient.DefaultCircuitBreakerConfig("storefront-api"), log)

	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    breaker,
		session: sess,
		log:     log,
	}
}

// envelope is the backend's standard success wrapper: {"data": ...}.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

// do executes one API call. body, when non-nil, is marshalled as JSON. out,
// when non-nil, receives the unwrapped "data" payload.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	start := time.Now()
	reqID := uuid.NewString()
	ctx = logger.WithRequestID(ctx, reqID)
	log := logger.WithContext(ctx, c.log)

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s %s request: %w", method, path, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create %s %s request: %w", method, path, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(ctx, req)

	endpoint := metricEndpoint(path)
	requestDuration.WithLabelValues(method, endpoint).Observe(time.Since(start).Seconds())

	if err != nil {
		requestsTotal.WithLabelValues(method, endpoint, "error").Inc()
		log.Error("api request failed", "method", method, "path", path, "error", err)
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	requestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode == http.StatusUnauthorized {
		// The token is no longer accepted anywhere. Force logout so the
		// client does not keep retrying with dead credentials.
		log.Warn("session rejected by backend, clearing credentials",
			"method", method, "path", path)
		c.session.Clear()
		return httpclient.ParseResponseError(resp, method+" "+path)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return httpclient.ParseResponseError(resp, method+" "+path)
	}

	if out == nil {
		return nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	if len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s %s payload: %w", method, path, err)
	}

	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// metricEndpoint collapses a request path to a low-cardinality metric label
// by keeping only the leading resource segment.
func metricEndpoint(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(trimmed, '/'); i > 0 {
		trimmed = trimmed[:i]
	}
	if i := strings.IndexByte(trimmed, '?'); i > 0 {
		trimmed = trimmed[:i]
	}
	if trimmed == "" {
		return "root"
	}
	return trimmed
}

// queryString builds a query string from the given values, or "" when empty.
func queryString(v url.Values) string {
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}
