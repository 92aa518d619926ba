// Package audit implements async event dispatching for identifier issuance and
// rejection.
//
// # Components
//
//   - [Sink]: interface for event consumers (channel, JSON writer, no-op).
//   - [Dispatcher]: buffered async relay with drop-if-full / block-if-full semantics.
//   - [Event]: structured audit record with timestamp, type, identifier, reason, metadata.
//
// # Architecture boundaries
//
// This package owns event buffering and sink delivery. It does NOT decide which events
// to emit; the Engine does.
//
// # What this package must NOT do
//
//   - Carry signatures or secrets in events.
//   - Import sessid or any sibling package.
//   - Perform network I/O beyond what a caller-supplied Sink does.
package audit
