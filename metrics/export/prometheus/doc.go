// Package prometheus renders sessid engine metrics in the Prometheus text
// exposition format.
//
// [NewExporter] wraps a [sessid.Engine] and exposes an [http.Handler]. Counter
// names are sessid_*_total; the one histogram is
// sessid_authenticate_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry; callers mount the Handler.
//   - Mutate engine state.
package prometheus
