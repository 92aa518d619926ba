// Package signed authenticates session identifiers with HMAC-SHA256.
//
// A signed identifier is the 24-character identifier followed by the 64-character
// hex digest of HMAC-SHA256(key, raw 12 identifier bytes), 88 characters in
// total. The MAC input is the binary identifier, not its hex text.
//
// [Signer.Parse] rejects any input that fails validation: there is no
// partially trusted [SignedIdentifier]. Validation checks, in order, that a
// signature is present, that the identifier has not outlived the configured
// expiry, and that the signature matches under a constant-time comparison.
//
// # What this package must NOT do
//
//   - Log, format or otherwise expose the secret.
//   - Compare signatures with ordinary equality.
package signed
