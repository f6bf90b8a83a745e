package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Fingerprint derives the deterministic cache key for a request.
//
// Format: sha256(method + "-" + endpoint + "-" + canonicalJSON(payload)),
// or sha256(method + "-" + endpoint) when payload is nil. A nil payload and
// an empty object therefore hash differently.
func Fingerprint(method, endpoint string, payload any) (string, error) {
	s := method + "-" + endpoint

	if payload != nil {
		canonical, err := canonicalJSON(payload)
		if err != nil {
			return "", fmt.Errorf("canonicalize payload: %w", err)
		}
		s += "-" + string(canonical)
	}

	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:]), nil
}

// canonicalJSON serializes payload with object keys sorted so that
// semantically identical payloads with different key order hash identically.
// The round trip through an untyped value leans on encoding/json sorting
// map keys on output.
func canonicalJSON(payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, err
	}

	return json.Marshal(decoded)
}
