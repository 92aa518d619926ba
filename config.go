package sessid

import (
	"errors"
	"strings"
	"time"
)

// Config defines a public type used by sessid APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Signer   SignerConfig
	Metrics  MetricsConfig
	Audit    AuditConfig
	Security SecurityConfig
}

/*
====================================
SIGNER CONFIG
====================================
*/

// SignerConfig controls identifier signing. An empty Secret disables the
// signed API of the Engine; plain identifiers still work.
type SignerConfig struct {
	Secret     []byte
	Expires    time.Duration // zero: signed identifiers never expire
	KeyContext string        // non-empty: derive the HMAC key with HKDF
}

// AuditConfig defines a public type used by sessid APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig defines a public type used by sessid APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
SECURITY CONFIG
====================================
*/

// SecurityConfig tightens validation for deployed services.
type SecurityConfig struct {
	// ProductionMode requires a secret of at least MinSecretBytes and a
	// finite expiry window.
	ProductionMode bool
	MinSecretBytes int
}

/*
====================================
DEFAULT CONFIG
====================================
*/

func defaultConfig() Config {
	return Config{
		Signer: SignerConfig{
			Expires: 0,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Security: SecurityConfig{
			ProductionMode: false,
			MinSecretBytes: 32,
		},
	}
}

// DefaultConfig returns the built-in defaults. The result carries no secret.
func DefaultConfig() Config {
	return defaultConfig()
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Signer.Secret = cloneBytes(cfg.Signer.Secret)
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate reports the first configuration problem found, or nil.
func (c *Config) Validate() error {
	// Signer
	if c.Signer.Expires < 0 {
		return errors.New("Signer Expires must be >= 0")
	}
	if c.Signer.KeyContext != "" && strings.TrimSpace(c.Signer.KeyContext) == "" {
		return errors.New("Signer KeyContext must not be blank")
	}
	if c.Signer.KeyContext != "" && len(c.Signer.Secret) == 0 {
		return errors.New("Signer KeyContext requires Secret")
	}

	// Audit
	if c.Audit.Enabled {
		if c.Audit.BufferSize <= 0 {
			return errors.New("Audit BufferSize must be > 0 when audit is enabled")
		}
	}

	// Metrics
	if c.Metrics.EnableLatencyHistograms && !c.Metrics.Enabled {
		return errors.New("Metrics EnableLatencyHistograms requires Metrics Enabled")
	}

	// Security
	if c.Security.MinSecretBytes < 0 {
		return errors.New("Security MinSecretBytes must be >= 0")
	}
	if c.Security.ProductionMode {
		if len(c.Signer.Secret) == 0 {
			return errors.New("ProductionMode requires Signer Secret")
		}
		if len(c.Signer.Secret) < c.Security.MinSecretBytes {
			return errors.New("Signer Secret is shorter than Security MinSecretBytes")
		}
		if c.Signer.Expires <= 0 {
			return errors.New("ProductionMode requires Signer Expires > 0")
		}
	}

	return nil
}
