package identifier

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
)

// counterModulus wraps the counter. Values cycle through 0..0xFFFFFE; 0xFFFFFF
// is never produced.
const counterModulus = 0xFFFFFF

// Counter is the per-process wrapping sequence used by Codec.Generate.
//
// Counter is safe for concurrent use. Every call to Next observes a distinct
// value until the sequence wraps.
type Counter struct {
	mu    sync.Mutex
	value uint32
}

// NewCounter returns a Counter starting at a uniformly random 24-bit value,
// so processes restarted at the same instant do not share a sequence.
func NewCounter() (*Counter, error) {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return nil, err
	}
	return NewCounterAt(binary.BigEndian.Uint32(b[:])), nil
}

// NewCounterAt returns a Counter whose first Next call yields
// (start&MaxCounter + 1) % 0xFFFFFF.
func NewCounterAt(start uint32) *Counter {
	return &Counter{value: start & MaxCounter}
}

// Next advances the counter and returns the new value.
func (c *Counter) Next() uint32 {
	c.mu.Lock()
	c.value = (c.value + 1) % counterModulus
	v := c.value
	c.mu.Unlock()
	return v
}
