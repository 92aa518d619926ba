package sessid

import (
	"errors"

	"github.com/MrEthical07/sessid/identifier"
	"github.com/MrEthical07/sessid/signed"
)

var (
	// ErrEngineNotReady is an exported constant or variable used by the identifier engine.
	ErrEngineNotReady = errors.New("engine not ready")
	// ErrSignerNotConfigured is returned by signed operations on an Engine built without a secret.
	ErrSignerNotConfigured = errors.New("signer not configured")
	// ErrUnauthenticated is the only error Authenticate returns for a rejected
	// identifier. It does not say which check failed.
	ErrUnauthenticated = errors.New("authentication rejected")

	// ErrFormat matches malformed identifier or signed identifier text.
	ErrFormat = identifier.ErrFormat
	// ErrSignature matches every signed identifier validation failure.
	ErrSignature = signed.ErrSignature
	// ErrMissingSignature is an exported constant or variable used by the identifier engine.
	ErrMissingSignature = signed.ErrMissingSignature
	// ErrExpired is an exported constant or variable used by the identifier engine.
	ErrExpired = signed.ErrExpired
	// ErrSignatureMismatch is an exported constant or variable used by the identifier engine.
	ErrSignatureMismatch = signed.ErrSignatureMismatch
)
