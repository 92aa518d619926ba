package sessid

import (
	"bytes"
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantValid bool
	}{
		{
			name:      "defaults valid",
			mutate:    func(c *Config) {},
			wantValid: true,
		},
		{
			name: "expiry valid",
			mutate: func(c *Config) {
				c.Signer.Expires = 60 * time.Second
			},
			wantValid: true,
		},
		{
			name: "expiry negative invalid",
			mutate: func(c *Config) {
				c.Signer.Expires = -time.Second
			},
			wantValid: false,
		},
		{
			name: "key context with secret valid",
			mutate: func(c *Config) {
				c.Signer.Secret = []byte("topsecret")
				c.Signer.KeyContext = "sessions/v1"
			},
			wantValid: true,
		},
		{
			name: "key context blank invalid",
			mutate: func(c *Config) {
				c.Signer.Secret = []byte("topsecret")
				c.Signer.KeyContext = "   "
			},
			wantValid: false,
		},
		{
			name: "key context without secret invalid",
			mutate: func(c *Config) {
				c.Signer.KeyContext = "sessions/v1"
			},
			wantValid: false,
		},
		{
			name: "audit buffer zero invalid when enabled",
			mutate: func(c *Config) {
				c.Audit.Enabled = true
				c.Audit.BufferSize = 0
			},
			wantValid: false,
		},
		{
			name: "audit buffer zero ignored when disabled",
			mutate: func(c *Config) {
				c.Audit.BufferSize = 0
			},
			wantValid: true,
		},
		{
			name: "latency histograms need metrics",
			mutate: func(c *Config) {
				c.Metrics.EnableLatencyHistograms = true
			},
			wantValid: false,
		},
		{
			name: "min secret bytes negative invalid",
			mutate: func(c *Config) {
				c.Security.MinSecretBytes = -1
			},
			wantValid: false,
		},
		{
			name: "production mode requires secret",
			mutate: func(c *Config) {
				c.Security.ProductionMode = true
				c.Signer.Expires = time.Hour
			},
			wantValid: false,
		},
		{
			name: "production mode rejects short secret",
			mutate: func(c *Config) {
				c.Security.ProductionMode = true
				c.Signer.Secret = []byte("topsecret")
				c.Signer.Expires = time.Hour
			},
			wantValid: false,
		},
		{
			name: "production mode requires expiry",
			mutate: func(c *Config) {
				c.Security.ProductionMode = true
				c.Signer.Secret = bytes.Repeat([]byte("k"), 32)
			},
			wantValid: false,
		},
		{
			name: "production mode valid",
			mutate: func(c *Config) {
				c.Security.ProductionMode = true
				c.Signer.Secret = bytes.Repeat([]byte("k"), 32)
				c.Signer.Expires = time.Hour
			},
			wantValid: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantValid && err != nil {
				t.Fatalf("expected valid config, got %v", err)
			}
			if !tc.wantValid && err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestDefaultConfigHasNoSecret(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Signer.Secret != nil {
		t.Fatal("default config must not carry a secret")
	}
	if cfg.Audit.BufferSize != 1024 || !cfg.Audit.DropIfFull {
		t.Fatalf("unexpected audit defaults %+v", cfg.Audit)
	}
}

func TestCloneConfigCopiesSecret(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Signer.Secret = []byte("topsecret")

	clone := cloneConfig(cfg)
	cfg.Signer.Secret[0] = 'X'

	if string(clone.Signer.Secret) != "topsecret" {
		t.Fatalf("clone shares the secret backing array: %q", clone.Signer.Secret)
	}
}
