package sessid

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk shape of Config. Durations are Go duration
// strings ("90s", "24h") in both JSON and YAML.
type fileConfig struct {
	Signer struct {
		Secret     string `json:"secret" yaml:"secret"`
		SecretEnv  string `json:"secretEnv" yaml:"secretEnv"`
		Expires    string `json:"expires" yaml:"expires"`
		KeyContext string `json:"keyContext" yaml:"keyContext"`
	} `json:"signer" yaml:"signer"`
	Metrics struct {
		Enabled                 *bool `json:"enabled" yaml:"enabled"`
		EnableLatencyHistograms *bool `json:"enableLatencyHistograms" yaml:"enableLatencyHistograms"`
	} `json:"metrics" yaml:"metrics"`
	Audit struct {
		Enabled    *bool `json:"enabled" yaml:"enabled"`
		BufferSize *int  `json:"bufferSize" yaml:"bufferSize"`
		DropIfFull *bool `json:"dropIfFull" yaml:"dropIfFull"`
	} `json:"audit" yaml:"audit"`
	Security struct {
		ProductionMode *bool `json:"productionMode" yaml:"productionMode"`
		MinSecretBytes *int  `json:"minSecretBytes" yaml:"minSecretBytes"`
	} `json:"security" yaml:"security"`
}

// LoadConfig reads a YAML (.yaml, .yml) or JSON file over the defaults. An
// empty path returns the defaults. The secret may be given inline or, better,
// by naming an environment variable in signer.secretEnv.
func LoadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var fc fileConfig
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &fc)
	default:
		err = json.Unmarshal(b, &fc)
	}
	if err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := fc.apply(&cfg); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (fc *fileConfig) apply(cfg *Config) error {
	if fc.Signer.Secret != "" {
		cfg.Signer.Secret = []byte(fc.Signer.Secret)
	}
	if fc.Signer.SecretEnv != "" {
		v := os.Getenv(fc.Signer.SecretEnv)
		if v == "" {
			return fmt.Errorf("secret environment variable %s is empty", fc.Signer.SecretEnv)
		}
		cfg.Signer.Secret = []byte(v)
	}
	if fc.Signer.Expires != "" {
		d, err := time.ParseDuration(fc.Signer.Expires)
		if err != nil {
			return fmt.Errorf("signer.expires: %w", err)
		}
		cfg.Signer.Expires = d
	}
	if fc.Signer.KeyContext != "" {
		cfg.Signer.KeyContext = fc.Signer.KeyContext
	}

	if fc.Metrics.Enabled != nil {
		cfg.Metrics.Enabled = *fc.Metrics.Enabled
	}
	if fc.Metrics.EnableLatencyHistograms != nil {
		cfg.Metrics.EnableLatencyHistograms = *fc.Metrics.EnableLatencyHistograms
	}
	if fc.Audit.Enabled != nil {
		cfg.Audit.Enabled = *fc.Audit.Enabled
	}
	if fc.Audit.BufferSize != nil {
		cfg.Audit.BufferSize = *fc.Audit.BufferSize
	}
	if fc.Audit.DropIfFull != nil {
		cfg.Audit.DropIfFull = *fc.Audit.DropIfFull
	}
	if fc.Security.ProductionMode != nil {
		cfg.Security.ProductionMode = *fc.Security.ProductionMode
	}
	if fc.Security.MinSecretBytes != nil {
		cfg.Security.MinSecretBytes = *fc.Security.MinSecretBytes
	}
	return nil
}

// ConfigFromEnv overlays SESSID_* environment variables onto cfg. Empty
// variables are skipped; a malformed value is an error and leaves the rest
// of cfg untouched.
func ConfigFromEnv(cfg *Config) error {
	next := *cfg
	if v := os.Getenv("SESSID_SECRET"); v != "" {
		next.Signer.Secret = []byte(v)
	}
	if v := os.Getenv("SESSID_EXPIRES"); v != "" {
		d, err := parseEnvDuration(v)
		if err != nil {
			return fmt.Errorf("SESSID_EXPIRES: %w", err)
		}
		next.Signer.Expires = d
	}
	if v := os.Getenv("SESSID_KEY_CONTEXT"); v != "" {
		next.Signer.KeyContext = v
	}
	bools := []struct {
		name string
		dst  *bool
	}{
		{"SESSID_METRICS", &next.Metrics.Enabled},
		{"SESSID_AUDIT", &next.Audit.Enabled},
		{"SESSID_PRODUCTION", &next.Security.ProductionMode},
	}
	for _, b := range bools {
		v := os.Getenv(b.name)
		if v == "" {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", b.name, err)
		}
		*b.dst = parsed
	}
	*cfg = next
	return nil
}

// parseEnvDuration accepts a Go duration ("90s", "5m") or a bare integer
// number of seconds.
func parseEnvDuration(v string) (time.Duration, error) {
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		if n < 0 || n > int64(math.MaxInt64/int64(time.Second)) {
			return 0, fmt.Errorf("%d seconds out of range", n)
		}
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(v)
}
