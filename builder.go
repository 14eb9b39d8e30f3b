package credgate

import (
	"errors"
	"time"

	internalaudit "github.com/MrEthical07/credgate/internal/audit"
	"github.com/MrEthical07/credgate/jwt"
	"github.com/MrEthical07/credgate/password"
)

// Builder assembles an [Engine]. Construction is allocation-only until
// [Builder.Build], which validates configuration and wires dependencies.
type Builder struct {
	config Config

	store     UserStore
	auditSink AuditSink
	timeFunc  func() time.Time

	built bool
}

// New returns a Builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the builder's configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithUserStore sets the user-record store. Required.
func (b *Builder) WithUserStore(store UserStore) *Builder {
	b.store = store
	return b
}

// WithAuditSink sets the sink receiving audit events. Optional; events are
// dropped when audit is enabled without a sink.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled toggles metric collection.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the login latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// WithTimeFunc overrides the clock used for token issuance and validation.
// Tests use it to pin expiry boundaries; production leaves it unset.
func (b *Builder) WithTimeFunc(now func() time.Time) *Builder {
	b.timeFunc = now
	return b
}

// Build validates the configuration and returns a ready [Engine]. A builder
// is single-use.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if b.store == nil {
		return nil, errors.New("user store required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	hasher, err := password.NewArgon2(password.Config{
		Memory:      cfg.Password.Memory,
		Time:        cfg.Password.Time,
		Parallelism: cfg.Password.Parallelism,
		SaltLength:  cfg.Password.SaltLength,
		KeyLength:   cfg.Password.KeyLength,
	})
	if err != nil {
		return nil, err
	}

	tokens, err := jwt.NewManager(jwt.Config{
		AccessTTL:     cfg.JWT.AccessTTL,
		RefreshTTL:    cfg.JWT.RefreshTTL,
		AccessSecret:  cloneBytes(cfg.JWT.AccessSecret),
		RefreshSecret: cloneBytes(cfg.JWT.RefreshSecret),
		Issuer:        cfg.JWT.Issuer,
		TimeFunc:      b.timeFunc,
	})
	if err != nil {
		return nil, err
	}

	now := b.timeFunc
	if now == nil {
		now = time.Now
	}

	engine := &Engine{
		config:  cfg,
		store:   b.store,
		hasher:  hasher,
		tokens:  tokens,
		metrics: NewMetrics(cfg.Metrics),
		now:     now,
	}
	engine.audit = internalaudit.NewDispatcher(internalaudit.Config{
		Enabled:    cfg.Audit.Enabled,
		BufferSize: cfg.Audit.BufferSize,
		DropIfFull: cfg.Audit.DropIfFull,
	}, b.auditSink)

	b.built = true

	return engine, nil
}
