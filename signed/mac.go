package signed

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"

	"github.com/MrEthical07/sessid/identifier"
)

// SignatureSize is the length of the hex-encoded HMAC-SHA256 digest.
const SignatureSize = 64

// derivedKeySize matches the SHA-256 block output; HKDF output longer than
// that adds nothing for HMAC-SHA256.
const derivedKeySize = 32

// macMethod computes HMAC-SHA256 over an arbitrary byte string. The JWT
// signing method is used purely as a keyed-hash primitive; no token is built.
var macMethod = jwt.SigningMethodHS256

// macKey is the signing key. It formats as a redacted placeholder so it can
// never leak through %v of an enclosing struct.
type macKey []byte

func (macKey) String() string   { return "[REDACTED]" }
func (macKey) GoString() string { return "[REDACTED]" }

func newMACKey(secret []byte, context string) (macKey, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	if context == "" {
		key := make([]byte, len(secret))
		copy(key, secret)
		return key, nil
	}

	key := make([]byte, derivedKeySize)
	r := hkdf.New(sha256.New, secret, nil, []byte(context))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("derive signing key: %w", err)
	}
	return key, nil
}

// sign returns hex(HMAC-SHA256(key, id.Bytes())).
func (k macKey) sign(id identifier.Identifier) string {
	raw := id.Bytes()
	sum, err := macMethod.Sign(string(raw[:]), []byte(k))
	if err != nil {
		// Sign only fails for a non-[]byte key or an unlinked hash.
		panic(fmt.Sprintf("signed: hmac-sha256 unavailable: %v", err))
	}
	return hex.EncodeToString(sum)
}

// equalSignatures compares two hex signatures in time independent of where
// they first differ.
func equalSignatures(expected, presented string) bool {
	return subtle.ConstantTimeCompare([]byte(expected), []byte(presented)) == 1
}
