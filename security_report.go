package sessid

import "time"

// SecurityReport summarizes the security-relevant settings an Engine runs
// with. It never includes key material.
type SecurityReport struct {
	ProductionMode   bool
	SigningEnabled   bool
	SigningAlgorithm string
	KeyDerivation    string
	SecretBytes      int
	MinSecretBytes   int
	Expires          time.Duration
	ExpiryEnforced   bool
	AuditEnabled     bool
	MetricsEnabled   bool
}

func (e *Engine) SecurityReport() SecurityReport {
	if e == nil {
		return SecurityReport{}
	}

	r := SecurityReport{
		ProductionMode: e.config.Security.ProductionMode,
		SigningEnabled: e.signer != nil,
		SecretBytes:    len(e.config.Signer.Secret),
		MinSecretBytes: e.config.Security.MinSecretBytes,
		Expires:        e.config.Signer.Expires,
		ExpiryEnforced: e.config.Signer.Expires > 0,
		AuditEnabled:   e.audit != nil,
		MetricsEnabled: e.metrics.Enabled(),
	}
	if r.SigningEnabled {
		r.SigningAlgorithm = "HMAC-SHA256"
		r.KeyDerivation = "none"
		if e.config.Signer.KeyContext != "" {
			r.KeyDerivation = "HKDF-SHA256"
		}
	}
	return r
}
