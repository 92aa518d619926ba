package signed

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MrEthical07/sessid/identifier"
)

var testSecret = []byte("topsecret")

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

func newTestSigner(t *testing.T, opts ...Option) *Signer {
	t.Helper()
	codec, err := identifier.NewCodec(
		identifier.WithCounter(identifier.NewCounterAt(100)),
		identifier.WithHostname("signer-test"),
		identifier.WithPID(4242),
	)
	require.NoError(t, err)

	s, err := NewSigner(testSecret, append([]Option{WithCodec(codec)}, opts...)...)
	require.NoError(t, err)
	return s
}

func referenceSignature(secret []byte, id identifier.Identifier) string {
	raw := id.Bytes()
	mac := hmac.New(sha256.New, secret)
	mac.Write(raw[:])
	return hex.EncodeToString(mac.Sum(nil))
}

func TestGenerateParseRoundTrip(t *testing.T) {
	s := newTestSigner(t)

	generated := s.Generate()
	text := generated.SignedText()
	require.Len(t, text, TextSize)
	require.Equal(t, strings.ToLower(text), text)

	parsed, err := s.Parse(text)
	require.NoError(t, err)
	require.True(t, parsed.Valid())
	require.Equal(t, generated.Identifier(), parsed.Identifier())
	require.Equal(t, generated.Signature(), parsed.Signature())
	require.Equal(t, text, parsed.String())
}

func TestSignatureIsHMACOfBinaryIdentifier(t *testing.T) {
	s := newTestSigner(t)
	id := identifier.New(0x5f5e1000, 0xabcdef, 0x1234, 0xbeef)

	want := referenceSignature(testSecret, id)
	require.Equal(t, want, s.Sign(id))
	require.Len(t, want, SignatureSize)

	// The hex text is not the MAC input.
	textMAC := hmac.New(sha256.New, testSecret)
	textMAC.Write([]byte(id.String()))
	require.NotEqual(t, hex.EncodeToString(textMAC.Sum(nil)), s.Sign(id))
}

func TestSignatureDeterministic(t *testing.T) {
	a := newTestSigner(t)
	b := newTestSigner(t)
	id := identifier.New(1, 2, 3, 4)

	require.Equal(t, a.Sign(id), a.Sign(id))
	require.Equal(t, a.Sign(id), b.Sign(id))

	sid := a.Wrap(id)
	first := sid.Signature()
	require.Equal(t, first, sid.Signature())
}

func TestParseRejectsWrongLength(t *testing.T) {
	s := newTestSigner(t)
	text := s.Generate().SignedText()

	for _, in := range []string{"", text[:87], text + "0", text[:24]} {
		_, err := s.Parse(in)
		require.Error(t, err)
		require.ErrorIs(t, err, ErrFormat)

		var fe *identifier.FormatError
		require.True(t, errors.As(err, &fe))
		require.Equal(t, len(in), fe.Length)
	}
}

func TestParsePropagatesIdentifierFormatError(t *testing.T) {
	s := newTestSigner(t)
	text := s.Generate().SignedText()

	_, err := s.Parse("g" + text[1:])
	require.ErrorIs(t, err, ErrFormat)
	require.False(t, errors.Is(err, ErrSignature))
}

func TestParseRejectsTamperedBits(t *testing.T) {
	s := newTestSigner(t)
	text := s.Generate().SignedText()

	raw, err := hex.DecodeString(text)
	require.NoError(t, err)

	for i := 0; i < len(raw)*8; i++ {
		flipped := make([]byte, len(raw))
		copy(flipped, raw)
		flipped[i/8] ^= 1 << (i % 8)

		_, err := s.Parse(hex.EncodeToString(flipped))
		require.Error(t, err, "bit %d", i)
		reason, ok := ReasonOf(err)
		require.True(t, ok, "bit %d: %v", i, err)
		require.Equal(t, ReasonMismatch, reason, "bit %d", i)
		require.ErrorIs(t, err, ErrSignatureMismatch)
	}
}

func TestParseRejectsOtherSecret(t *testing.T) {
	s := newTestSigner(t)
	other, err := NewSigner([]byte("othersecret"))
	require.NoError(t, err)

	_, err = other.Parse(s.Generate().SignedText())
	require.ErrorIs(t, err, ErrSignatureMismatch)
	require.ErrorIs(t, err, ErrSignature)
}

func TestParseRejectsUppercaseSignature(t *testing.T) {
	s := newTestSigner(t)
	text := s.Generate().SignedText()

	_, err := s.Parse(text[:identifier.TextSize] + strings.ToUpper(text[identifier.TextSize:]))
	require.ErrorIs(t, err, ErrSignatureMismatch)
}

func TestExpiryWindow(t *testing.T) {
	now := time.Unix(1700000000, 0)
	clock := &testClock{now: now}
	s := newTestSigner(t, WithExpiry(60*time.Second), WithClock(clock.Now))

	tests := []struct {
		name    string
		age     int64
		wantErr error
	}{
		{"fresh", 0, nil},
		{"59s old", 59, nil},
		{"60s old", 60, nil},
		{"61s old", 61, ErrExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := identifier.New(uint32(now.Unix()-tt.age), 1, 2, 3)
			text := id.String() + s.Sign(id)

			parsed, err := s.Parse(text)
			if tt.wantErr == nil {
				require.NoError(t, err)
				require.True(t, parsed.Valid())
				return
			}
			require.Nil(t, parsed)
			require.ErrorIs(t, err, tt.wantErr)
			reason, _ := ReasonOf(err)
			require.Equal(t, ReasonExpired, reason)
		})
	}
}

func TestExpiryCheckedBeforeSignature(t *testing.T) {
	now := time.Unix(1700000000, 0)
	s := newTestSigner(t, WithExpiry(time.Minute), WithClock(func() time.Time { return now }))

	old := identifier.New(uint32(now.Unix()-3600), 1, 2, 3)
	_, err := s.Parse(old.String() + strings.Repeat("0", SignatureSize))
	require.ErrorIs(t, err, ErrExpired)
}

func TestExpiryReevaluatedAfterParse(t *testing.T) {
	clock := &testClock{now: time.Unix(1700000000, 0)}
	s := newTestSigner(t, WithExpiry(time.Minute), WithClock(clock.Now))

	id := identifier.New(1700000000, 1, 2, 3)
	parsed, err := s.Parse(id.String() + s.Sign(id))
	require.NoError(t, err)
	require.True(t, parsed.Valid())

	clock.Set(time.Unix(1700000000+120, 0))
	require.ErrorIs(t, parsed.Verify(), ErrExpired)
}

func TestNoExpiryAcceptsOldIdentifiers(t *testing.T) {
	s := newTestSigner(t)
	id := identifier.New(0, 1, 2, 3)

	parsed, err := s.Parse(id.String() + s.Sign(id))
	require.NoError(t, err)
	require.Zero(t, parsed.Expires())
}

func TestWrapMissingSignatureUntilComputed(t *testing.T) {
	s := newTestSigner(t)
	sid := s.Wrap(identifier.New(1, 2, 3, 4))

	err := sid.Verify()
	require.ErrorIs(t, err, ErrMissingSignature)
	reason, ok := ReasonOf(err)
	require.True(t, ok)
	require.Equal(t, ReasonMissingSignature, reason)

	require.Len(t, sid.Signature(), SignatureSize)
	require.NoError(t, sid.Verify())
}

func TestNewSignerRejectsEmptySecret(t *testing.T) {
	_, err := NewSigner(nil)
	require.ErrorIs(t, err, ErrEmptySecret)
	_, err = NewSigner([]byte{})
	require.ErrorIs(t, err, ErrEmptySecret)
}

func TestNewSignerRejectsNegativeExpiry(t *testing.T) {
	_, err := NewSigner(testSecret, WithExpiry(-time.Second))
	require.Error(t, err)
}

func TestSecretCopiedAndRedacted(t *testing.T) {
	secret := []byte("mutable-secret")
	s, err := NewSigner(secret)
	require.NoError(t, err)

	id := identifier.New(1, 2, 3, 4)
	before := s.Sign(id)
	secret[0] = 'X'
	require.Equal(t, before, s.Sign(id))

	for _, out := range []string{fmt.Sprint(s), fmt.Sprintf("%+v", s), fmt.Sprintf("%#v", s.key)} {
		require.NotContains(t, out, "mutable-secret")
	}
}

func TestKeyContextSeparatesSigners(t *testing.T) {
	plain := newTestSigner(t)
	derivedA := newTestSigner(t, WithKeyContext("session"))
	derivedA2 := newTestSigner(t, WithKeyContext("session"))
	derivedB := newTestSigner(t, WithKeyContext("csrf"))

	id := identifier.New(1, 2, 3, 4)
	require.Equal(t, derivedA.Sign(id), derivedA2.Sign(id))
	require.NotEqual(t, plain.Sign(id), derivedA.Sign(id))
	require.NotEqual(t, derivedA.Sign(id), derivedB.Sign(id))

	_, err := derivedB.Parse(derivedA.Generate().SignedText())
	require.ErrorIs(t, err, ErrSignatureMismatch)
}

func TestTopSecretScenario(t *testing.T) {
	s, err := NewSigner([]byte("topsecret"))
	require.NoError(t, err)

	original := s.Generate()
	text := original.SignedText()

	parsed, err := s.Parse(text)
	require.NoError(t, err)
	require.True(t, parsed.Valid())

	want, got := original.Identifier(), parsed.Identifier()
	require.Equal(t, want.Time, got.Time)
	require.Equal(t, want.Machine, got.Machine)
	require.Equal(t, want.Process, got.Process)
	require.Equal(t, want.Counter, got.Counter)
}

func TestConcurrentGenerateAndVerify(t *testing.T) {
	s := newTestSigner(t)

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if _, err := s.Parse(s.Generate().SignedText()); err != nil {
					errs <- err
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("unexpected parse failure: %v", err)
	}
}

func FuzzParseSigned(f *testing.F) {
	s, err := NewSigner(testSecret)
	if err != nil {
		f.Fatal(err)
	}
	f.Add(s.Generate().SignedText())
	f.Add("")
	f.Add(strings.Repeat("0", TextSize))

	f.Fuzz(func(t *testing.T, text string) {
		sid, err := s.Parse(text)
		if err != nil {
			if !errors.Is(err, ErrFormat) && !errors.Is(err, ErrSignature) {
				t.Fatalf("unexpected error kind: %v", err)
			}
			return
		}
		if !strings.EqualFold(sid.SignedText(), text) {
			t.Fatalf("accepted %q but re-encoded as %q", text, sid.SignedText())
		}
	})
}
