package credgate

import (
	"time"

	internalaudit "github.com/MrEthical07/credgate/internal/audit"
	"github.com/MrEthical07/credgate/jwt"
	"github.com/MrEthical07/credgate/password"
)

// Engine is the credential authentication and authorization core. It is
// stateless apart from injected dependencies: all durable state lives behind
// [UserStore], all session state is the single refresh token column.
//
// An Engine is safe for concurrent use. Construct one via [Builder.Build].
type Engine struct {
	config  Config
	store   UserStore
	hasher  *password.Argon2
	tokens  *jwt.Manager
	audit   *internalaudit.Dispatcher
	metrics *Metrics
	now     func() time.Time
}

// Close flushes and stops background workers (the audit dispatcher). The
// engine must not be used after Close.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.audit.Close()
}

// ValidateAccess checks an access token and returns the subject user ID.
// Every failure, expiry included, is [ErrTokenInvalid]; middleware maps it
// to a single response shape so callers cannot probe token state.
func (e *Engine) ValidateAccess(tokenStr string) (string, error) {
	if e == nil {
		return "", ErrEngineNotReady
	}

	claims, err := e.tokens.ParseAccess(tokenStr)
	if err != nil {
		return "", ErrTokenInvalid
	}

	return claims.Subject, nil
}

// HashPassword hashes a plaintext password with the engine's configured
// parameters. It exists for out-of-band provisioning, such as seeding an
// admin account directly through a [UserStore]; self-service registration
// hashes internally.
func (e *Engine) HashPassword(pass string) (string, error) {
	if e == nil {
		return "", ErrEngineNotReady
	}
	return e.hasher.Hash(pass)
}

// MetricsSnapshot returns a point-in-time copy of all engine metrics.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// Metrics exposes the live metrics instance for exporters.
func (e *Engine) Metrics() *Metrics {
	if e == nil {
		return nil
	}
	return e.metrics
}

// AuditDropped returns the number of audit events dropped because the
// dispatcher buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.audit.Dropped()
}

func (e *Engine) metricInc(id MetricID) {
	e.metrics.Inc(id)
}
