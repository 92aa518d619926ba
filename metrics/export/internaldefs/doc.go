// Package internaldefs holds the metric names, help strings and bucket
// bounds shared by the sessid exporters.
//
// Both the Prometheus and OTel exporters read from here, so a rename in this
// package changes every exporter at once.
//
// # What this package must NOT do
//
//   - Import an exporter package.
//   - Perform I/O.
package internaldefs
