// Package testutil provides testing utilities for the diagnostics client.
package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// MockResponse defines the behavior for one mock API response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// RecordedRequest captures one request received by the mock server.
type RecordedRequest struct {
	Method string
	Path   string
	Body   string
	Header http.Header
}

// MockDiagnostics is a configurable mock diagnostics API for testing.
// Paths can be scripted with fixed handlers or with ordered response
// queues, which makes IN_PROGRESS polling chains easy to express.
type MockDiagnostics struct {
	server *httptest.Server

	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	queues   map[string][]MockResponse
	requests []RecordedRequest
}

// NewMockDiagnostics creates a started mock server.
func NewMockDiagnostics() *MockDiagnostics {
	mock := &MockDiagnostics{
		handlers: make(map[string]http.HandlerFunc),
		queues:   make(map[string][]MockResponse),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		mock.mu.Lock()
		mock.requests = append(mock.requests, RecordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Body:   string(body),
			Header: r.Header.Clone(),
		})

		if queue := mock.queues[r.URL.Path]; len(queue) > 0 {
			next := queue[0]
			mock.queues[r.URL.Path] = queue[1:]
			mock.mu.Unlock()
			writeResponse(w, next)
			return
		}

		handler := mock.handlers[r.URL.Path]
		mock.mu.Unlock()

		if handler != nil {
			handler(w, r)
			return
		}

		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail": "not found"}`))
	}))

	return mock
}

func writeResponse(w http.ResponseWriter, resp MockResponse) {
	if resp.Delay > 0 {
		time.Sleep(resp.Delay)
	}
	for name, value := range resp.Headers {
		w.Header().Set(name, value)
	}
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}
	status := resp.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write([]byte(resp.Body))
}

// URL returns the base URL of the mock server.
func (m *MockDiagnostics) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockDiagnostics) Close() {
	m.server.Close()
}

// Handle installs a fixed handler for a path.
func (m *MockDiagnostics) Handle(path string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// Enqueue appends scripted responses for a path; each request consumes
// one response in order before any fixed handler is considered.
func (m *MockDiagnostics) Enqueue(path string, responses ...MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queues[path] = append(m.queues[path], responses...)
}

// RequestCount returns the number of requests received so far.
func (m *MockDiagnostics) RequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Requests returns a copy of all recorded requests.
func (m *MockDiagnostics) Requests() []RecordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RecordedRequest, len(m.requests))
	copy(out, m.requests)
	return out
}
