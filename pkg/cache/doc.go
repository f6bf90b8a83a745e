// Package cache implements the on-disk response cache used by the request
// pipeline.
//
// The cache is a single JSON document mapping request fingerprints to
// response snapshots:
//
//	{
//	  "<fingerprint>": {"key": "...", "data": {...}, "ttl": 300, "expires_at": 1735689600.0}
//	}
//
// Every operation loads the whole document, mutates it, and writes it back.
// Get additionally performs a lazy expiry sweep: all expired entries are
// dropped and the swept document is persisted, even when nothing expired.
// The file is safe to delete externally; the store recreates it empty on
// next use.
//
// # Fingerprints
//
// Keys are derived with Fingerprint from method, endpoint and payload:
//
//	key, err := cache.Fingerprint("POST", "/edge-diagnostics/v1/dig", payload)
//
// Payload objects are canonicalized (keys sorted) before hashing so that
// key order does not change the fingerprint.
//
// # Basic usage
//
//	store, err := cache.NewStore(dir, 5*time.Minute)
//	entry, err := store.Get(key)
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// fetch from the API, then:
//		_ = store.Set(cache.NewEntry(key, data, store.DefaultTTL()))
//	}
//
// # Metrics
//
// The store exports Prometheus counters:
//
//   - akcli_cache_hits_total
//   - akcli_cache_misses_total
//   - akcli_cache_evictions_total
//   - akcli_cache_errors_total{operation}
package cache
