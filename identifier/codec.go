package identifier

import (
	"os"
	"time"
)

// Option configures a Codec.
type Option func(*Codec)

// WithCounter shares an existing process counter. Without it NewCodec creates
// a fresh randomly seeded one.
func WithCounter(c *Counter) Option {
	return func(codec *Codec) { codec.counter = c }
}

// WithClock replaces the wall clock used for the time field.
func WithClock(now func() time.Time) Option {
	return func(codec *Codec) { codec.now = now }
}

// WithHostname fixes the host name the machine fingerprint is derived from.
func WithHostname(name string) Option {
	return func(codec *Codec) {
		m := Fingerprint(name)
		codec.machine = &m
	}
}

// WithPID fixes the process identifier.
func WithPID(pid int) Option {
	return func(codec *Codec) { codec.pid = &pid }
}

// Codec generates identifiers for one process. The machine fingerprint and
// process id are resolved once, at construction.
//
// Codec is safe for concurrent use.
type Codec struct {
	counter *Counter
	now     func() time.Time
	machine *uint32
	pid     *int

	machineID uint32
	processID uint16
}

// NewCodec builds a Codec from the host environment, overridden by opts.
func NewCodec(opts ...Option) (*Codec, error) {
	c := &Codec{now: time.Now}
	for _, opt := range opts {
		opt(c)
	}

	if c.counter == nil {
		counter, err := NewCounter()
		if err != nil {
			return nil, err
		}
		c.counter = counter
	}
	if c.now == nil {
		c.now = time.Now
	}

	if c.machine != nil {
		c.machineID = *c.machine & MaxMachine
	} else {
		c.machineID = DefaultFingerprint()
	}

	pid := os.Getpid()
	if c.pid != nil {
		pid = *c.pid
	}
	c.processID = uint16(uint(pid) % (1 << 16))

	return c, nil
}

// Generate returns a fresh identifier: current time truncated to 32 bits, the
// machine fingerprint, the process id and the next counter value.
func (c *Codec) Generate() Identifier {
	return Identifier{
		Time:    uint32(c.now().Unix()),
		Machine: c.machineID,
		Process: c.processID,
		Counter: c.counter.Next(),
	}
}

// Machine returns the cached machine fingerprint.
func (c *Codec) Machine() uint32 { return c.machineID }

// Process returns the process field stamped on generated identifiers.
func (c *Codec) Process() uint16 { return c.processID }

// Now returns the codec clock reading.
func (c *Codec) Now() time.Time { return c.now() }
