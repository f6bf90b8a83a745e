package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// statusInProgress is the execution status marking a non-terminal response.
// Any other status value is treated as completed and returned as-is.
const statusInProgress = "IN_PROGRESS"

// pollProbe extracts the polling control fields from a response body.
type pollProbe struct {
	ExecutionStatus string  `json:"executionStatus"`
	RetryAfter      float64 `json:"retryAfter"`
	Link            string  `json:"link"`
}

// poll dispatches the request and, while the server reports the operation
// as in progress, sleeps for the server-supplied wait and reissues the
// call as a GET against the server-supplied follow-up link, discarding the
// original payload. Each iteration is a fresh dispatch; the cache is never
// consulted or written inside the loop.
func (c *Client) poll(ctx context.Context, method, endpoint string, payload any, headers http.Header) (json.RawMessage, error) {
	for attempt := 1; ; attempt++ {
		data, err := c.dispatch(ctx, method, endpoint, payload, headers)
		if err != nil {
			return nil, err
		}

		var probe pollProbe
		if err := json.Unmarshal(data, &probe); err != nil {
			return nil, &APIError{
				Kind:    KindInvalidResponse,
				Message: "cannot parse response body",
				Err:     err,
			}
		}

		if probe.ExecutionStatus != statusInProgress {
			return data, nil
		}

		if attempt >= c.maxPollAttempts {
			pollExhaustedTotal.Inc()
			errorsTotal.WithLabelValues(string(KindMaxAttempts)).Inc()
			return nil, &APIError{
				Kind:    KindMaxAttempts,
				Message: fmt.Sprintf("operation still in progress after %d polling attempts", c.maxPollAttempts),
			}
		}

		wait := time.Duration(probe.RetryAfter * float64(time.Second))
		c.logger.Debug().
			Str("endpoint", endpoint).
			Str("link", probe.Link).
			Int("attempt", attempt).
			Dur("wait", wait).
			Msg("Operation in progress, polling")
		pollAttemptsTotal.Inc()

		if err := c.sleep(ctx, wait); err != nil {
			return nil, err
		}

		// Resubmit as a polling GET against the follow-up link.
		method = http.MethodGet
		endpoint = probe.Link
		payload = nil
	}
}

// ctxSleep blocks for d or until ctx is cancelled.
func ctxSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return fmt.Errorf("poll wait interrupted: %w", ctx.Err())
	case <-time.After(d):
		return nil
	}
}
