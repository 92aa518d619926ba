package identifier

import (
	"crypto/md5"
	"os"
	"sync"

	"github.com/google/uuid"
)

// Fingerprint derives the 24-bit machine field from a host name: the first
// three bytes of its MD5 digest. Distinct hosts may collide; the field only
// lowers the odds of cross-host duplicates.
func Fingerprint(hostname string) uint32 {
	sum := md5.Sum([]byte(hostname))
	return uint32(sum[0])<<16 | uint32(sum[1])<<8 | uint32(sum[2])
}

var defaultFingerprint = sync.OnceValue(func() uint32 {
	return Fingerprint(hostname())
})

// DefaultFingerprint returns the fingerprint of this host, computed once per
// process.
func DefaultFingerprint() uint32 {
	return defaultFingerprint()
}

// hostname falls back to a random per-process name when the OS refuses to
// report one, so the machine field stays stable for the process lifetime.
func hostname() string {
	name, err := os.Hostname()
	if err != nil || name == "" {
		return uuid.New().String()
	}
	return name
}
