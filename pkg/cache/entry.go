// Package cache provides a file-backed response cache with per-entry TTL
// and fingerprint-based keys.
package cache

import (
	"encoding/json"
	"time"
)

// Entry represents a cached API response snapshot.
type Entry struct {
	// Key is the request fingerprint this entry is stored under. It is
	// redundantly kept inside the serialized entry as well.
	Key string `json:"key"`

	// Data is the raw JSON body of the final, fully-resolved response.
	Data json.RawMessage `json:"data"`

	// TTL is the lifetime of the entry in seconds.
	TTL float64 `json:"ttl"`

	// ExpiresAt is the absolute expiry time in unix seconds. Fixed at
	// creation and persisted verbatim, never recomputed on load.
	ExpiresAt float64 `json:"expires_at"`
}

// NewEntry creates an entry expiring ttl from now.
func NewEntry(key string, data json.RawMessage, ttl time.Duration) *Entry {
	return &Entry{
		Key:       key,
		Data:      data,
		TTL:       ttl.Seconds(),
		ExpiresAt: unixNow() + ttl.Seconds(),
	}
}

// IsExpired returns true if the entry's lifetime has elapsed.
func (e *Entry) IsExpired() bool {
	return unixNow() > e.ExpiresAt
}

func unixNow() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}
