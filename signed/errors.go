package signed

import (
	"errors"

	"github.com/MrEthical07/sessid/identifier"
)

// Reason identifies which validation check rejected a signed identifier.
type Reason string

const (
	ReasonMissingSignature Reason = "missing signature"
	ReasonExpired          Reason = "expired"
	ReasonMismatch         Reason = "signature mismatch"
)

var (
	// ErrSignature matches every *SignatureError via errors.Is.
	ErrSignature = errors.New("invalid signed identifier")

	ErrMissingSignature  = errors.New(string(ReasonMissingSignature))
	ErrExpired           = errors.New(string(ReasonExpired))
	ErrSignatureMismatch = errors.New(string(ReasonMismatch))

	// ErrFormat is identifier.ErrFormat, re-exported for callers of this package.
	ErrFormat = identifier.ErrFormat

	ErrEmptySecret = errors.New("signing secret must not be empty")
)

// SignatureError reports a signed identifier that failed validation.
type SignatureError struct {
	Reason Reason
}

func (e *SignatureError) Error() string {
	return "signed identifier: " + string(e.Reason)
}

// Is matches ErrSignature and the sentinel for e.Reason.
func (e *SignatureError) Is(target error) bool {
	if target == ErrSignature {
		return true
	}
	switch e.Reason {
	case ReasonMissingSignature:
		return target == ErrMissingSignature
	case ReasonExpired:
		return target == ErrExpired
	case ReasonMismatch:
		return target == ErrSignatureMismatch
	}
	return false
}

// ReasonOf returns the validation reason carried by err, if any.
func ReasonOf(err error) (Reason, bool) {
	var se *SignatureError
	if errors.As(err, &se) {
		return se.Reason, true
	}
	return "", false
}
