package sessid

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MrEthical07/sessid/identifier"
	"github.com/MrEthical07/sessid/internal/audit"
	"github.com/MrEthical07/sessid/signed"
)

// Engine mints, parses and authenticates session identifiers for one process.
//
// Engine methods are safe for concurrent use after Build.
type Engine struct {
	config  Config
	codec   *identifier.Codec
	signer  *signed.Signer
	audit   *audit.Dispatcher
	metrics *Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// Close flushes pending audit events and stops the dispatcher.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// Config returns the engine configuration with the secret removed.
func (e *Engine) Config() Config {
	if e == nil {
		return Config{}
	}
	out := e.config
	out.Signer.Secret = nil
	return out
}

// Codec exposes the identifier codec, e.g. to inspect the machine field.
func (e *Engine) Codec() *identifier.Codec {
	if e == nil {
		return nil
	}
	return e.codec
}

// AuditDropped returns how many audit events were dropped on a full buffer.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns the current metric values.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

// Generate mints an unsigned identifier.
func (e *Engine) Generate() (identifier.Identifier, error) {
	if e == nil || e.codec == nil {
		return identifier.Identifier{}, ErrEngineNotReady
	}
	id := e.codec.Generate()
	e.metricInc(MetricIdentifierGenerated)
	return id, nil
}

// Parse decodes a plain 24-character identifier.
func (e *Engine) Parse(text string) (identifier.Identifier, error) {
	id, err := identifier.Parse(text)
	if err != nil {
		e.metricInc(MetricFormatRejected)
		return identifier.Identifier{}, err
	}
	e.metricInc(MetricParseSuccess)
	return id, nil
}

// Issue mints and signs a fresh identifier.
func (e *Engine) Issue(ctx context.Context) (*signed.SignedIdentifier, error) {
	if e == nil || e.codec == nil {
		return nil, ErrEngineNotReady
	}
	if e.signer == nil {
		return nil, ErrSignerNotConfigured
	}

	sid := e.signer.Generate()
	e.metricInc(MetricSignedGenerated)

	id := sid.Identifier()
	e.emitAudit(ctx, AuditIdentifierIssued, id.String(), true, "")
	return sid, nil
}

// ParseSigned parses and validates an 88-character signed identifier. The
// error keeps its kind: *identifier.FormatError or *signed.SignatureError.
// Use Authenticate at trust boundaries instead.
func (e *Engine) ParseSigned(text string) (*signed.SignedIdentifier, error) {
	if e == nil || e.codec == nil {
		return nil, ErrEngineNotReady
	}
	if e.signer == nil {
		return nil, ErrSignerNotConfigured
	}

	sid, err := e.signer.Parse(text)
	if err != nil {
		e.countRejection(err)
		return nil, err
	}
	e.metricInc(MetricParseSuccess)
	return sid, nil
}

// Authenticate validates a presented signed identifier and returns the
// identifier it carries. Every rejection returns ErrUnauthenticated; the
// specific reason only reaches the logger, metrics and audit sink.
func (e *Engine) Authenticate(ctx context.Context, text string) (identifier.Identifier, error) {
	start := time.Now()
	defer func() {
		if e != nil && e.metrics != nil {
			e.metrics.Observe(MetricAuthenticateLatency, time.Since(start))
		}
	}()

	sid, err := e.ParseSigned(text)
	if err != nil {
		if errors.Is(err, ErrEngineNotReady) || errors.Is(err, ErrSignerNotConfigured) {
			return identifier.Identifier{}, err
		}

		e.metricInc(MetricAuthenticateFailure)
		reason := rejectionReason(err)
		e.logger.LogAttrs(ctx, slog.LevelInfo, "sessid: identifier rejected",
			slog.String("reason", reason),
			slog.Int("length", len(text)),
			slog.String("client_ip", clientIPFromContext(ctx)),
		)
		e.emitAudit(ctx, AuditIdentifierRejected, identifierPrefix(text), false, reason)
		return identifier.Identifier{}, ErrUnauthenticated
	}

	id := sid.Identifier()
	e.metricInc(MetricAuthenticateSuccess)
	e.emitAudit(ctx, AuditIdentifierAccepted, id.String(), true, "")
	return id, nil
}

func (e *Engine) countRejection(err error) {
	reason, ok := signed.ReasonOf(err)
	if !ok {
		e.metricInc(MetricFormatRejected)
		return
	}
	switch reason {
	case signed.ReasonMissingSignature:
		e.metricInc(MetricSignatureMissing)
	case signed.ReasonExpired:
		e.metricInc(MetricSignatureExpired)
	case signed.ReasonMismatch:
		e.metricInc(MetricSignatureMismatch)
	}
}

func (e *Engine) emitAudit(ctx context.Context, eventType, id string, success bool, reason string) {
	if e == nil || e.audit == nil {
		return
	}
	e.audit.Emit(ctx, AuditEvent{
		Timestamp:  e.now(),
		EventType:  eventType,
		Identifier: id,
		Machine:    e.codec.Machine(),
		Process:    e.codec.Process(),
		Success:    success,
		Reason:     reason,
		Metadata:   auditMetadata(ctx),
	})
}

func rejectionReason(err error) string {
	if reason, ok := signed.ReasonOf(err); ok {
		return string(reason)
	}
	if errors.Is(err, ErrFormat) {
		return "malformed"
	}
	return "unknown"
}

// identifierPrefix returns the identifier portion of presented text when it
// is well formed, so rejected signatures never reach the audit trail.
func identifierPrefix(text string) string {
	if len(text) < identifier.TextSize {
		return ""
	}
	id, err := identifier.Parse(text[:identifier.TextSize])
	if err != nil {
		return ""
	}
	return id.String()
}

func machineHex(m uint32) string {
	return fmt.Sprintf("%06x", m&identifier.MaxMachine)
}
