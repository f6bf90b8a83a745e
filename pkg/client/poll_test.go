package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"akcli/internal/testutil"
	"akcli/pkg/cache"
)

func inProgress(link string, retryAfter float64) string {
	return fmt.Sprintf(`{"executionStatus": "IN_PROGRESS", "link": %q, "retryAfter": %g}`, link, retryAfter)
}

func TestPoll_TerminatesOnCompletion(t *testing.T) {
	mock := testutil.NewMockDiagnostics()
	defer mock.Close()

	mock.Enqueue("/edge-diagnostics/v1/dig", testutil.MockResponse{Body: inProgress("/poll/req-1", 0)})
	mock.Enqueue("/poll/req-1", testutil.MockResponse{Body: inProgress("/poll/req-1", 0)})
	mock.Enqueue("/poll/req-1", testutil.MockResponse{Body: `{"executionStatus": "SUCCESS", "result": {}}`})

	c, _ := newTestClient(t, mock)
	payload := map[string]any{"hostname": "www.example.com"}

	data, err := c.Post(context.Background(), "/edge-diagnostics/v1/dig", payload, nil)
	if err != nil {
		t.Fatalf("Post failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Response not JSON: %v", err)
	}
	if decoded["executionStatus"] != "SUCCESS" {
		t.Errorf("Expected terminal body, got %s", data)
	}

	reqs := mock.Requests()
	if len(reqs) != 3 {
		t.Fatalf("Expected exactly 3 underlying calls, got %d", len(reqs))
	}

	// First call carries the original POST and payload.
	if reqs[0].Method != http.MethodPost || reqs[0].Path != "/edge-diagnostics/v1/dig" {
		t.Errorf("Unexpected initial call: %s %s", reqs[0].Method, reqs[0].Path)
	}

	// Subsequent calls are GETs against the follow-up link with the
	// payload discarded.
	for _, req := range reqs[1:] {
		if req.Method != http.MethodGet {
			t.Errorf("Poll call method mismatch: got %s, want GET", req.Method)
		}
		if req.Path != "/poll/req-1" {
			t.Errorf("Poll call path mismatch: got %s", req.Path)
		}
		if req.Body != "" {
			t.Errorf("Poll call carried a payload: %q", req.Body)
		}
	}
}

func TestPoll_ExhaustsAttemptBudget(t *testing.T) {
	mock := testutil.NewMockDiagnostics()
	defer mock.Close()

	// Always in progress.
	mock.Handle("/stuck", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(inProgress("/stuck", 0)))
	})
	mock.Handle("/edge-diagnostics/v1/dig", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(inProgress("/stuck", 0)))
	})

	const budget = 5
	c, _ := newTestClient(t, mock, withMaxPollAttempts(budget))

	_, err := c.Post(context.Background(), "/edge-diagnostics/v1/dig", map[string]any{"hostname": "x"}, nil)
	if KindOf(err) != KindMaxAttempts {
		t.Fatalf("Expected max attempts error, got %v", err)
	}
	if mock.RequestCount() != budget {
		t.Errorf("Expected exactly %d calls before giving up, got %d", budget, mock.RequestCount())
	}
}

func TestPoll_DefaultAttemptBudget(t *testing.T) {
	if DefaultMaxPollAttempts != 15 {
		t.Errorf("Default polling budget changed: got %d, want 15", DefaultMaxPollAttempts)
	}

	mock := testutil.NewMockDiagnostics()
	defer mock.Close()

	mock.Handle("/stuck", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(inProgress("/stuck", 0)))
	})

	c, _ := newTestClient(t, mock)
	_, err := c.Get(context.Background(), "/stuck", nil)
	if KindOf(err) != KindMaxAttempts {
		t.Fatalf("Expected max attempts error, got %v", err)
	}
	if mock.RequestCount() != DefaultMaxPollAttempts {
		t.Errorf("Expected %d calls, got %d", DefaultMaxPollAttempts, mock.RequestCount())
	}
}

func TestPoll_IntermediatePollsBypassCache(t *testing.T) {
	mock := testutil.NewMockDiagnostics()
	defer mock.Close()

	mock.Enqueue("/edge-diagnostics/v1/dig", testutil.MockResponse{Body: inProgress("/poll/req-9", 0)})
	mock.Enqueue("/poll/req-9", testutil.MockResponse{Body: `{"executionStatus": "SUCCESS"}`})

	c, store := newTestClient(t, mock)
	payload := map[string]any{"hostname": "www.example.com"}

	if _, err := c.Post(context.Background(), "/edge-diagnostics/v1/dig", payload, nil); err != nil {
		t.Fatalf("Post failed: %v", err)
	}

	// Only the original fingerprint receives a cache write.
	raw, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("Read cache file: %v", err)
	}
	var db map[string]json.RawMessage
	if err := json.Unmarshal(raw, &db); err != nil {
		t.Fatalf("Parse cache file: %v", err)
	}
	if len(db) != 1 {
		t.Fatalf("Expected exactly 1 cache entry, got %d", len(db))
	}

	originalKey, err := cache.Fingerprint(http.MethodPost, "/edge-diagnostics/v1/dig", payload)
	if err != nil {
		t.Fatalf("Fingerprint failed: %v", err)
	}
	if _, ok := db[originalKey]; !ok {
		t.Error("Terminal result not stored under the original fingerprint")
	}

	pollKey, err := cache.Fingerprint(http.MethodGet, "/poll/req-9", nil)
	if err != nil {
		t.Fatalf("Fingerprint failed: %v", err)
	}
	if _, ok := db[pollKey]; ok {
		t.Error("Intermediate poll GET must not produce a cache entry")
	}
}

func TestPoll_InProgressCacheHitShortCircuits(t *testing.T) {
	// A cached terminal result is returned as-is without re-entering the
	// polling loop, even though a live call would have polled.
	mock := testutil.NewMockDiagnostics()
	defer mock.Close()

	mock.Enqueue("/edge-diagnostics/v1/dig", testutil.MockResponse{Body: inProgress("/poll/req-2", 0)})
	mock.Enqueue("/poll/req-2", testutil.MockResponse{Body: `{"executionStatus": "SUCCESS"}`})

	c, _ := newTestClient(t, mock)
	payload := map[string]any{"hostname": "www.example.com"}

	if _, err := c.Post(context.Background(), "/edge-diagnostics/v1/dig", payload, nil); err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	calls := mock.RequestCount()

	if _, err := c.Post(context.Background(), "/edge-diagnostics/v1/dig", payload, nil); err != nil {
		t.Fatalf("Second call failed: %v", err)
	}
	if mock.RequestCount() != calls {
		t.Errorf("Cached result should skip network and polling, got %d extra calls", mock.RequestCount()-calls)
	}
}

func TestPoll_SleepsForServerSuppliedWait(t *testing.T) {
	mock := testutil.NewMockDiagnostics()
	defer mock.Close()

	mock.Enqueue("/endpoint", testutil.MockResponse{Body: inProgress("/poll/req-3", 2.5)})
	mock.Enqueue("/poll/req-3", testutil.MockResponse{Body: `{"executionStatus": "SUCCESS"}`})

	c, _ := newTestClient(t, mock)

	var waits []time.Duration
	c.sleep = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}

	if _, err := c.Get(context.Background(), "/endpoint", nil); err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if len(waits) != 1 {
		t.Fatalf("Expected 1 poll wait, got %d", len(waits))
	}
	if waits[0] != 2500*time.Millisecond {
		t.Errorf("Wait duration mismatch: got %s, want 2.5s", waits[0])
	}
}

func TestPoll_CancelledDuringWait(t *testing.T) {
	mock := testutil.NewMockDiagnostics()
	defer mock.Close()

	mock.Enqueue("/endpoint", testutil.MockResponse{Body: inProgress("/poll/req-4", 30)})

	c, store := newTestClient(t, mock)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := c.Get(ctx, "/endpoint", nil)
	if err == nil {
		t.Fatal("Expected cancellation error")
	}
	if ExitCode(err) != ExitInterrupt {
		t.Errorf("Cancellation should map to exit %d, got %d", ExitInterrupt, ExitCode(err))
	}

	// A cancelled operation never reaches the cache-write step.
	key, err := cache.Fingerprint(http.MethodGet, "/endpoint", nil)
	if err != nil {
		t.Fatalf("Fingerprint failed: %v", err)
	}
	if _, err := store.Get(key); err == nil {
		t.Error("Cancelled operation must not be cached")
	}
}

func TestPoll_ErrorDuringPollPropagates(t *testing.T) {
	mock := testutil.NewMockDiagnostics()
	defer mock.Close()

	mock.Enqueue("/endpoint", testutil.MockResponse{Body: inProgress("/poll/req-5", 0)})
	mock.Enqueue("/poll/req-5", testutil.MockResponse{StatusCode: 404, Body: `{}`})

	c, _ := newTestClient(t, mock)
	_, err := c.Get(context.Background(), "/endpoint", nil)
	if KindOf(err) != KindNotFound {
		t.Errorf("Expected not found from poll iteration, got %v", err)
	}
}
