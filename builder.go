package sessid

import (
	"errors"
	"log/slog"
	"time"

	"github.com/MrEthical07/sessid/identifier"
	"github.com/MrEthical07/sessid/internal/audit"
	"github.com/MrEthical07/sessid/signed"
)

// Builder defines a public type used by sessid APIs.
//
// A Builder is single-use: Build may succeed once.
type Builder struct {
	config Config

	counter  *identifier.Counter
	clock    func() time.Time
	hostname string
	pid      *int

	auditSink AuditSink
	logger    *slog.Logger

	built bool
}

// New returns a Builder preloaded with the default configuration.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the whole configuration. The secret is copied.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithSecret sets the HMAC secret. The slice is copied.
func (b *Builder) WithSecret(secret []byte) *Builder {
	b.config.Signer.Secret = cloneBytes(secret)
	return b
}

// WithExpiry sets the signed identifier expiry window.
func (b *Builder) WithExpiry(d time.Duration) *Builder {
	b.config.Signer.Expires = d
	return b
}

// WithCounter shares a process counter, e.g. when several engines run in one
// process. By default each Engine seeds its own.
func (b *Builder) WithCounter(c *identifier.Counter) *Builder {
	b.counter = c
	return b
}

// WithClock replaces the wall clock for generation and expiry checks.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.clock = now
	return b
}

// WithHostname overrides the host name the machine fingerprint is derived from.
func (b *Builder) WithHostname(name string) *Builder {
	b.hostname = name
	return b
}

// WithPID overrides the process identifier.
func (b *Builder) WithPID(pid int) *Builder {
	b.pid = &pid
	return b
}

// WithAuditSink sets the sink audit events are delivered to.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithLogger sets the logger for diagnostics. Defaults to discarding.
func (b *Builder) WithLogger(l *slog.Logger) *Builder {
	b.logger = l
	return b
}

// WithMetricsEnabled toggles metrics collection.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the authenticate latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and assembles the Engine.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if err := b.config.Validate(); err != nil {
		return nil, err
	}

	logger := b.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	now := b.clock
	if now == nil {
		now = time.Now
	}

	codecOpts := []identifier.Option{identifier.WithClock(now)}
	if b.counter != nil {
		codecOpts = append(codecOpts, identifier.WithCounter(b.counter))
	}
	if b.hostname != "" {
		codecOpts = append(codecOpts, identifier.WithHostname(b.hostname))
	}
	if b.pid != nil {
		codecOpts = append(codecOpts, identifier.WithPID(*b.pid))
	}
	codec, err := identifier.NewCodec(codecOpts...)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		config:  cloneConfig(b.config),
		codec:   codec,
		metrics: NewMetrics(b.config.Metrics),
		logger:  logger,
		now:     now,
	}

	if len(b.config.Signer.Secret) > 0 {
		signer, err := signed.NewSigner(
			b.config.Signer.Secret,
			signed.WithCodec(codec),
			signed.WithClock(now),
			signed.WithExpiry(b.config.Signer.Expires),
			signed.WithKeyContext(b.config.Signer.KeyContext),
		)
		if err != nil {
			return nil, err
		}
		e.signer = signer
	}

	e.audit = audit.NewDispatcher(audit.Config{
		Enabled:    b.config.Audit.Enabled,
		BufferSize: b.config.Audit.BufferSize,
		DropIfFull: b.config.Audit.DropIfFull,
	}, b.auditSink)

	logger.Debug("sessid: engine built",
		slog.String("machine", machineHex(codec.Machine())),
		slog.Int("process", int(codec.Process())),
		slog.Bool("signing", e.signer != nil),
		slog.Duration("expires", b.config.Signer.Expires),
	)

	b.built = true
	return e, nil
}
