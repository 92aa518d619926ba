package sessid

import (
	"io"

	"github.com/MrEthical07/sessid/internal/audit"
)

// Audit event types emitted by the Engine.
const (
	AuditIdentifierIssued   = "identifier_issued"
	AuditIdentifierAccepted = "identifier_accepted"
	AuditIdentifierRejected = "identifier_rejected"
)

// AuditEvent is a structured record of an issuance or authentication
// decision. It never carries the signature or the secret.
type AuditEvent = audit.Event

// AuditSink receives audit events from the Engine's background dispatcher.
type AuditSink = audit.Sink

// NoOpSink drops audit events.
type NoOpSink = audit.NoOpSink

// ChannelSink writes audit events into a buffered channel.
type ChannelSink = audit.ChannelSink

// JSONWriterSink writes one JSON object per line.
type JSONWriterSink = audit.JSONWriterSink

// NewChannelSink returns a ChannelSink with the given buffer (minimum 1).
func NewChannelSink(buffer int) *ChannelSink {
	return audit.NewChannelSink(buffer)
}

// NewJSONWriterSink returns a sink writing JSON lines to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return audit.NewJSONWriterSink(w)
}
