package internaldefs

import (
	"github.com/MrEthical07/sessid"
)

// CounterDef names one engine counter for export.
type CounterDef struct {
	ID   sessid.MetricID
	Name string
	Help string
}

// HistogramDef names one engine histogram for export.
type HistogramDef struct {
	ID   sessid.MetricID
	Name string
	Help string
}

// BucketCount matches the engine's fixed histogram layout.
const BucketCount = 8

// AuditDroppedName is the counter both exporters use for
// [sessid.Engine.AuditDropped].
const (
	AuditDroppedName = "sessid_audit_dropped_total"
	AuditDroppedHelp = "Audit events dropped because the dispatcher buffer was full."
)

// CounterDefs lists every exported counter in a stable order.
var CounterDefs = []CounterDef{
	{ID: sessid.MetricIdentifierGenerated, Name: "sessid_identifier_generated_total", Help: "Plain identifiers generated."},
	{ID: sessid.MetricSignedGenerated, Name: "sessid_signed_generated_total", Help: "Signed identifiers issued."},
	{ID: sessid.MetricParseSuccess, Name: "sessid_parse_success_total", Help: "Identifiers accepted by a parse."},
	{ID: sessid.MetricFormatRejected, Name: "sessid_format_rejected_total", Help: "Inputs rejected as malformed."},
	{ID: sessid.MetricSignatureMissing, Name: "sessid_signature_missing_total", Help: "Signed identifiers rejected for a missing signature."},
	{ID: sessid.MetricSignatureExpired, Name: "sessid_signature_expired_total", Help: "Signed identifiers rejected as expired."},
	{ID: sessid.MetricSignatureMismatch, Name: "sessid_signature_mismatch_total", Help: "Signed identifiers rejected for a signature mismatch."},
	{ID: sessid.MetricAuthenticateSuccess, Name: "sessid_authenticate_success_total", Help: "Successful Authenticate calls."},
	{ID: sessid.MetricAuthenticateFailure, Name: "sessid_authenticate_failure_total", Help: "Rejected Authenticate calls."},
}

// HistogramDefs lists every exported histogram.
var HistogramDefs = []HistogramDef{
	{ID: sessid.MetricAuthenticateLatency, Name: "sessid_authenticate_latency_seconds", Help: "Authenticate latency histogram."},
}

// HistogramBounds are the upper bounds, in seconds, of the engine buckets
// (1µs through 100µs).
var HistogramBounds = [BucketCount]string{
	"0.000001",
	"0.0000025",
	"0.000005",
	"0.00001",
	"0.000025",
	"0.00005",
	"0.0001",
	"+Inf",
}

// HistogramBoundSuffix renders HistogramBounds as instrument-name suffixes.
var HistogramBoundSuffix = [BucketCount]string{
	"1us",
	"2_5us",
	"5us",
	"10us",
	"25us",
	"50us",
	"100us",
	"inf",
}

// NormalizeBuckets pads or truncates raw to BucketCount entries. A missing
// histogram becomes all zeros.
func NormalizeBuckets(raw []uint64) [BucketCount]uint64 {
	var out [BucketCount]uint64
	copy(out[:], raw)
	return out
}

// CumulativeBuckets converts per-bucket counts into the running totals both
// exposition formats expect.
func CumulativeBuckets(raw [BucketCount]uint64) [BucketCount]uint64 {
	var out [BucketCount]uint64
	var running uint64
	for i, v := range raw {
		running += v
		out[i] = running
	}
	return out
}
