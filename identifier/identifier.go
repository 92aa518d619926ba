package identifier

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

const (
	// TextSize is the length of the canonical hexadecimal form.
	TextSize = 24
	// BinarySize is the length of the raw big-endian form.
	BinarySize = 12

	// MaxMachine is the largest machine fingerprint (24 bits).
	MaxMachine = 1<<24 - 1
	// MaxCounter is the largest value the counter field can hold (24 bits).
	MaxCounter = 1<<24 - 1
)

// ErrFormat matches every *FormatError via errors.Is.
var ErrFormat = errors.New("invalid identifier format")

// FormatError reports text that is not a well-formed identifier.
type FormatError struct {
	Length int
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("identifier: %s (length %d)", e.Reason, e.Length)
}

// Is reports whether target is ErrFormat.
func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

// Identifier is an immutable session identifier value.
//
// Machine and Counter only use their low 24 bits; use New to build values
// from arbitrary integers.
type Identifier struct {
	Time    uint32
	Machine uint32
	Process uint16
	Counter uint32
}

// New builds an Identifier, masking machine and counter to 24 bits.
func New(t uint32, machine uint32, process uint16, counter uint32) Identifier {
	return Identifier{
		Time:    t,
		Machine: machine & MaxMachine,
		Process: process,
		Counter: counter & MaxCounter,
	}
}

// Parse decodes the 24-character hexadecimal form.
func Parse(text string) (Identifier, error) {
	if len(text) != TextSize {
		return Identifier{}, &FormatError{Length: len(text), Reason: "identifier must be 24 hex characters"}
	}

	var raw [BinarySize]byte
	if _, err := hex.Decode(raw[:], []byte(text)); err != nil {
		return Identifier{}, &FormatError{Length: len(text), Reason: "identifier contains non-hex characters"}
	}
	return FromBytes(raw), nil
}

// Format returns the canonical 24-character lowercase hexadecimal form.
func Format(id Identifier) string {
	raw := id.Bytes()
	return hex.EncodeToString(raw[:])
}

// FromBytes decodes the 12-byte big-endian form.
func FromBytes(raw [BinarySize]byte) Identifier {
	return Identifier{
		Time:    binary.BigEndian.Uint32(raw[0:4]),
		Machine: uint32(raw[4])<<16 | uint32(raw[5])<<8 | uint32(raw[6]),
		Process: binary.BigEndian.Uint16(raw[7:9]),
		Counter: uint32(raw[9])<<16 | uint32(raw[10])<<8 | uint32(raw[11]),
	}
}

// Bytes returns the 12-byte big-endian form. This is the input to signing.
func (id Identifier) Bytes() [BinarySize]byte {
	var raw [BinarySize]byte
	binary.BigEndian.PutUint32(raw[0:4], id.Time)
	m := id.Machine & MaxMachine
	raw[4], raw[5], raw[6] = byte(m>>16), byte(m>>8), byte(m)
	binary.BigEndian.PutUint16(raw[7:9], id.Process)
	c := id.Counter & MaxCounter
	raw[9], raw[10], raw[11] = byte(c>>16), byte(c>>8), byte(c)
	return raw
}

func (id Identifier) String() string { return Format(id) }

func (id Identifier) GoString() string {
	return fmt.Sprintf("identifier.Identifier{Time:0x%08x, Machine:0x%06x, Process:0x%04x, Counter:0x%06x}",
		id.Time, id.Machine, id.Process, id.Counter)
}

// Timestamp returns the embedded second-resolution creation time.
func (id Identifier) Timestamp() time.Time {
	return time.Unix(int64(id.Time), 0)
}

// Compare orders identifiers by time, machine, process, then counter. The
// result matches a byte-wise comparison of the canonical text.
func (id Identifier) Compare(other Identifier) int {
	a, b := id.Bytes(), other.Bytes()
	return bytes.Compare(a[:], b[:])
}

func (id Identifier) MarshalText() ([]byte, error) {
	return []byte(Format(id)), nil
}

func (id *Identifier) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
