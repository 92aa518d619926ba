package signed

import (
	"errors"
	"sync"
	"time"

	"github.com/MrEthical07/sessid/identifier"
)

// TextSize is the length of a signed identifier: identifier plus signature.
const TextSize = identifier.TextSize + SignatureSize

// Option configures a Signer.
type Option func(*Signer)

// WithExpiry rejects identifiers older than d at validation time. Zero
// disables expiry.
func WithExpiry(d time.Duration) Option {
	return func(s *Signer) { s.expires = d }
}

// WithClock replaces the wall clock used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Signer) { s.now = now }
}

// WithCodec sets the codec used by Generate. Without it NewSigner builds one
// from the host environment.
func WithCodec(c *identifier.Codec) Option {
	return func(s *Signer) { s.codec = c }
}

// WithKeyContext derives the signing key from the secret with HKDF-SHA256,
// using label as the info parameter. Signers sharing a secret but not a
// label cannot verify each other's identifiers.
func WithKeyContext(label string) Option {
	return func(s *Signer) { s.keyContext = label }
}

// Signer issues and verifies signed identifiers under one secret.
//
// Signer is safe for concurrent use.
type Signer struct {
	key        macKey
	keyContext string
	expires    time.Duration
	now        func() time.Time
	codec      *identifier.Codec
}

// NewSigner copies secret and returns a Signer. An empty secret is rejected.
func NewSigner(secret []byte, opts ...Option) (*Signer, error) {
	s := &Signer{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.expires < 0 {
		return nil, errors.New("signed identifier expiry must be >= 0")
	}
	if s.now == nil {
		s.now = time.Now
	}

	key, err := newMACKey(secret, s.keyContext)
	if err != nil {
		return nil, err
	}
	s.key = key

	if s.codec == nil {
		codec, err := identifier.NewCodec(identifier.WithClock(s.now))
		if err != nil {
			return nil, err
		}
		s.codec = codec
	}
	return s, nil
}

// Expires returns the configured expiry window; zero means none.
func (s *Signer) Expires() time.Duration { return s.expires }

// Codec returns the codec used by Generate.
func (s *Signer) Codec() *identifier.Codec { return s.codec }

// String never includes key material.
func (s *Signer) String() string { return "signed.Signer{key: [REDACTED]}" }

// Sign returns the hex signature of id.
func (s *Signer) Sign(id identifier.Identifier) string {
	return s.key.sign(id)
}

// Generate creates a fresh identifier and signs it immediately.
func (s *Signer) Generate() *SignedIdentifier {
	id := s.codec.Generate()
	sid := s.Wrap(id)
	sid.signature = s.key.sign(id)
	return sid
}

// Wrap associates id with this signer without signing it. Verify on the
// result reports a missing signature until Signature is called.
func (s *Signer) Wrap(id identifier.Identifier) *SignedIdentifier {
	return &SignedIdentifier{
		id:      id,
		expires: s.expires,
		signer:  s,
	}
}

// Parse splits text into identifier and signature and validates it. Wrong
// length or a malformed identifier portion yields *identifier.FormatError;
// failed validation yields *SignatureError.
func (s *Signer) Parse(text string) (*SignedIdentifier, error) {
	if len(text) != TextSize {
		return nil, &identifier.FormatError{Length: len(text), Reason: "signed identifier must be 88 characters"}
	}

	id, err := identifier.Parse(text[:identifier.TextSize])
	if err != nil {
		return nil, err
	}

	sid := s.Wrap(id)
	sid.signature = text[identifier.TextSize:]
	if err := sid.Verify(); err != nil {
		return nil, err
	}
	return sid, nil
}

// SignedIdentifier is an identifier bound to a signature. All state except
// the lazily computed signature and the cached comparison is fixed at
// construction.
type SignedIdentifier struct {
	id      identifier.Identifier
	expires time.Duration
	signer  *Signer

	mu        sync.Mutex
	signature string
	matched   bool
}

// Identifier returns the wrapped identifier.
func (s *SignedIdentifier) Identifier() identifier.Identifier { return s.id }

// Expires returns the expiry window applied by Verify.
func (s *SignedIdentifier) Expires() time.Duration { return s.expires }

// Signature returns the stored signature, computing and caching it first if
// none is present.
func (s *SignedIdentifier) Signature() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.signature == "" {
		s.signature = s.signer.key.sign(s.id)
	}
	return s.signature
}

// SignedText returns the 88-character form to persist or transmit.
func (s *SignedIdentifier) SignedText() string {
	return s.id.String() + s.Signature()
}

func (s *SignedIdentifier) String() string { return s.SignedText() }

// Verify runs the presence, expiry and signature checks in that order and
// returns a *SignatureError for the first that fails.
//
// A successful signature comparison is remembered; expiry is evaluated
// against the clock on every call.
func (s *SignedIdentifier) Verify() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.signature == "" {
		return &SignatureError{Reason: ReasonMissingSignature}
	}

	if s.expires > 0 && s.signer.now().Sub(s.id.Timestamp()) > s.expires {
		return &SignatureError{Reason: ReasonExpired}
	}

	if s.matched {
		return nil
	}
	if !equalSignatures(s.signer.key.sign(s.id), s.signature) {
		return &SignatureError{Reason: ReasonMismatch}
	}
	s.matched = true
	return nil
}

// Valid reports whether Verify succeeds.
func (s *SignedIdentifier) Valid() bool {
	return s.Verify() == nil
}
