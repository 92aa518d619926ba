// Package identifier encodes and decodes the structured session identifier:
// a 32-bit Unix time, a 24-bit machine fingerprint, a 16-bit process id and a
// 24-bit per-process counter.
//
// # Wire format
//
// The canonical form is 24 lowercase hexadecimal characters with no
// separators, fields concatenated in the order above. The binary form used
// for signing is the same 12 bytes, big-endian. [Parse] is the exact inverse
// of [Format] for canonical input.
//
// # Architecture boundaries
//
// This package owns the [Identifier] value, the [Codec] generation path and
// the process [Counter]. It does NOT sign, verify or persist identifiers;
// signing lives in package signed.
//
// # What this package must NOT do
//
//   - Import signed or the root sessid package.
//   - Keep implicit global counter state. Callers construct one [Counter]
//     per process and inject it.
package identifier
