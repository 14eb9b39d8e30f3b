package internaldefs

import (
	credgate "github.com/MrEthical07/credgate"
)

// CounterDef binds a core counter ID to its exported name and help text.
type CounterDef struct {
	ID   credgate.MetricID
	Name string
	Help string
}

// HistogramDef binds a core histogram ID to its exported name and help text.
type HistogramDef struct {
	ID   credgate.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter. Order is the exposition order.
var CounterDefs = []CounterDef{
	{ID: credgate.MetricRegisterSuccess, Name: "credgate_register_success_total", Help: "Successful registrations."},
	{ID: credgate.MetricRegisterDuplicate, Name: "credgate_register_duplicate_total", Help: "Registrations rejected for a taken email."},
	{ID: credgate.MetricRegisterEscalationBlocked, Name: "credgate_register_escalation_blocked_total", Help: "Blocked admin self-assignment attempts."},
	{ID: credgate.MetricLoginSuccess, Name: "credgate_login_success_total", Help: "Successful login attempts."},
	{ID: credgate.MetricLoginFailure, Name: "credgate_login_failure_total", Help: "Failed login attempts."},
	{ID: credgate.MetricRefreshSuccess, Name: "credgate_refresh_success_total", Help: "Successful refresh operations."},
	{ID: credgate.MetricRefreshFailure, Name: "credgate_refresh_failure_total", Help: "Rejected refresh tokens."},
	{ID: credgate.MetricLogout, Name: "credgate_logout_total", Help: "Logout operations."},
	{ID: credgate.MetricAuthorizeDenied, Name: "credgate_authorize_denied_total", Help: "Authorization denials."},
	{ID: credgate.MetricStoreUnavailable, Name: "credgate_store_unavailable_total", Help: "Operations failed by a user-store outage."},
}

// HistogramDefs lists every exported histogram.
var HistogramDefs = []HistogramDef{
	{ID: credgate.MetricLoginLatency, Name: "credgate_login_latency_seconds", Help: "Login latency histogram."},
}

// HistogramBounds holds the upper bucket bounds in seconds, matching the
// core histogram layout.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix holds instrument-name-safe forms of the bounds.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets copies a raw snapshot slice into the fixed bucket array,
// zero-filling when the snapshot carried no histogram data.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts to the cumulative form both
// exporters expose.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
