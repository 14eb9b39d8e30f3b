// Package prometheus renders credgate metrics in Prometheus text exposition
// format.
//
// [NewPrometheusExporter] accepts a [credgate.Engine] and exposes an
// [net/http.Handler] that renders all counters and histograms. Counter names
// are prefixed credgate_*_total; the single histogram is
// credgate_login_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the Handler.
//   - Mutate engine state.
package prometheus
