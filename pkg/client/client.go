// Package client implements the layered request pipeline: a signing HTTP
// executor wrapped by a polling coordinator, backed by an on-disk response
// cache keyed by request fingerprints.
package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"akcli/pkg/cache"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Client executes API operations through the cache/request/poll pipeline.
// It is synchronous: one operation is in flight per call, and both the
// HTTP dispatch and the poll wait block until done or cancelled.
type Client struct {
	httpClient      *http.Client
	signer          Signer
	baseURL         string
	cache           *cache.Store
	useCache        bool
	userAgent       string
	maxPollAttempts int
	logger          zerolog.Logger

	// sleep is the poll-wait suspension point, replaceable in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// Config holds the client configuration.
type Config struct {
	// BaseURL is the scheme+host all endpoint paths are resolved against.
	BaseURL string

	// Signer authenticates outgoing requests.
	Signer Signer

	// Cache is the response cache. Terminal responses are always written
	// to it; UseCache gates reads only.
	Cache *cache.Store

	// UseCache enables serving fresh cached responses without a network
	// call.
	UseCache bool

	// Timeout bounds each individual HTTP call. It does not bound the
	// polling loop; only MaxPollAttempts does.
	Timeout time.Duration

	// Proxy is an optional proxy URL for all requests.
	Proxy string

	// ValidateCerts disables TLS verification when false.
	ValidateCerts bool

	// UserAgent is sent on every request.
	UserAgent string

	// MaxPollAttempts bounds the polling loop.
	MaxPollAttempts int
}

// DefaultMaxPollAttempts bounds the polling loop when the config leaves it
// unset. The remote operation might never report completion; the client
// must not spin forever on a stuck server-side job.
const DefaultMaxPollAttempts = 15

// DefaultTimeout is the per-call HTTP timeout when the config leaves it
// unset.
const DefaultTimeout = 15 * time.Second

// New creates a client from cfg.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if cfg.Signer == nil {
		return nil, fmt.Errorf("signer is required")
	}
	if cfg.Cache == nil {
		return nil, fmt.Errorf("cache store is required")
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxPollAttempts <= 0 {
		cfg.MaxPollAttempts = DefaultMaxPollAttempts
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "akcli"
	}

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: !cfg.ValidateCerts},
	}
	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil {
			return nil, fmt.Errorf("parse proxy URL: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	logger := log.With().Str("component", "client").Logger()

	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		signer:          cfg.Signer,
		baseURL:         strings.TrimSuffix(cfg.BaseURL, "/"),
		cache:           cfg.Cache,
		useCache:        cfg.UseCache,
		userAgent:       cfg.UserAgent,
		maxPollAttempts: cfg.MaxPollAttempts,
		logger:          logger,
		sleep:           ctxSleep,
	}, nil
}

// Execute runs one logical operation through the full pipeline.
//
// The cache is consulted first: a fresh entry with caching enabled is
// returned immediately with no network call and no polling, even if the
// cached payload encodes a since-completed polling result. On a miss the
// request is signed, dispatched, and polled to completion; the terminal
// body is then committed to the cache under the original request's
// fingerprint with the store's default TTL. Intermediate poll requests
// never read or write the cache.
func (c *Client) Execute(ctx context.Context, method, endpoint string, payload any, headers http.Header) (json.RawMessage, error) {
	key, err := cache.Fingerprint(method, endpoint, payload)
	if err != nil {
		return nil, &APIError{Kind: KindRequestError, Message: "derive request fingerprint", Err: err}
	}

	entry, err := c.cache.Get(key)
	if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		return nil, err
	}
	if err == nil && c.useCache {
		c.logger.Debug().
			Str("endpoint", endpoint).
			Str("method", method).
			Bool("cache_hit", true).
			Msg("Serving response from cache")
		return entry.Data, nil
	}

	data, err := c.poll(ctx, method, endpoint, payload, headers)
	if err != nil {
		return nil, err
	}

	// Commit the final, fully-resolved response, keyed by the original
	// request's fingerprint. Writes are not gated by UseCache.
	if err := c.cache.Set(cache.NewEntry(key, data, c.cache.DefaultTTL())); err != nil {
		return nil, err
	}

	return data, nil
}

// Get performs a GET operation through the pipeline.
func (c *Client) Get(ctx context.Context, endpoint string, headers http.Header) (json.RawMessage, error) {
	return c.Execute(ctx, http.MethodGet, endpoint, nil, headers)
}

// Post performs a POST operation through the pipeline.
func (c *Client) Post(ctx context.Context, endpoint string, payload any, headers http.Header) (json.RawMessage, error) {
	return c.Execute(ctx, http.MethodPost, endpoint, payload, headers)
}

// Patch performs a PATCH operation through the pipeline.
func (c *Client) Patch(ctx context.Context, endpoint string, payload any, headers http.Header) (json.RawMessage, error) {
	return c.Execute(ctx, http.MethodPatch, endpoint, payload, headers)
}

// Delete performs a DELETE operation through the pipeline.
func (c *Client) Delete(ctx context.Context, endpoint string, headers http.Header) (json.RawMessage, error) {
	return c.Execute(ctx, http.MethodDelete, endpoint, nil, headers)
}

// dispatch builds, signs and sends a single HTTP call, returning the raw
// JSON body of a successful response or a classified error.
func (c *Client) dispatch(ctx context.Context, method, endpoint string, payload any, headers http.Header) (json.RawMessage, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, &APIError{Kind: KindRequestError, Message: "marshal request payload", Err: err}
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, &APIError{Kind: KindRequestError, Message: "build request", Err: err}
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	for name, values := range headers {
		req.Header.Del(name)
		for _, value := range values {
			req.Header.Add(name, value)
		}
	}

	if err := c.signer.Sign(req); err != nil {
		return nil, &APIError{Kind: KindRequestError, Message: "sign request", Err: err}
	}

	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("method", method).
		Msg("Executing API request")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	requestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	if err != nil {
		apiErr := c.classifyTransportError(err)
		errorsTotal.WithLabelValues(string(apiErr.Kind)).Inc()
		c.logger.Error().Err(err).
			Str("endpoint", endpoint).
			Str("kind", string(apiErr.Kind)).
			Msg("HTTP request failed")
		return nil, apiErr
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		errorsTotal.WithLabelValues(string(KindRequestError)).Inc()
		return nil, &APIError{Kind: KindRequestError, Message: "read response body", Err: err}
	}

	requestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode >= 400 {
		apiErr := classifyStatus(resp.StatusCode, method, endpoint, raw)
		errorsTotal.WithLabelValues(string(apiErr.Kind)).Inc()
		c.logger.Warn().
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Str("kind", string(apiErr.Kind)).
			Msg("API request error")
		return nil, apiErr
	}

	if !json.Valid(raw) {
		errorsTotal.WithLabelValues(string(KindInvalidResponse)).Inc()
		return nil, &APIError{
			Kind:       KindInvalidResponse,
			StatusCode: resp.StatusCode,
			Message:    "response body is not valid JSON",
		}
	}

	return raw, nil
}

// classifyTransportError maps network-level failures into the taxonomy.
func (c *Client) classifyTransportError(err error) *APIError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &APIError{
			Kind:    KindTimeout,
			Message: fmt.Sprintf("the request timed out after %s", c.httpClient.Timeout),
			Err:     err,
		}
	}

	// net/http surfaces proxy CONNECT failures with a "proxyconnect"
	// prefixed error string; there is no typed error to match on.
	if strings.Contains(err.Error(), "proxyconnect") {
		return &APIError{
			Kind:    KindProxyError,
			Message: "unable to connect to the configured proxy",
			Err:     err,
		}
	}

	return &APIError{
		Kind:    KindRequestError,
		Message: "an error occurred while making the request",
		Err:     err,
	}
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}
