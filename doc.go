// Package sessid mints and authenticates compact session identifiers.
//
// An identifier is 12 bytes (24 lowercase hex characters) packing a
// second-resolution timestamp, a 24-bit machine fingerprint, a 16-bit
// process number and a 24-bit counter. A signed identifier appends the hex
// HMAC-SHA256 of those 12 bytes, 88 characters in total.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// sessid is the public surface. It exposes [Engine], [Builder], [Config] and
// value types (MetricsSnapshot, AuditEvent). The wire format lives in the
// identifier package and signing in the signed package; both are usable
// without an Engine. Audit dispatch lives under internal/ and is never
// exported.
//
// # What this package must NOT do
//
//   - Log, audit or return the secret or a presented signature.
//   - Tell an Authenticate caller which check rejected its identifier.
//   - Persist identifiers or track revocation; that belongs to the caller's
//     session store.
//
// # Performance contract
//
// Generate takes one mutex for the counter and performs no I/O. Authenticate
// costs one HMAC-SHA256 over 12 bytes plus a constant-time comparison.
package sessid
