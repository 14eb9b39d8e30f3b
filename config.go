package credgate

import (
	"bytes"
	"errors"
	"time"
)

// Config defines the immutable engine configuration. It is constructed once
// at process start and injected through [Builder.WithConfig]; the engine
// never consults ambient global state.
type Config struct {
	JWT      JWTConfig
	Password PasswordConfig
	Account  AccountConfig
	Security SecurityConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

// JWTConfig carries token TTLs and the two independent signing secrets.
// Key separation is enforced: a refresh-secret compromise cannot forge
// access tokens and vice versa.
type JWTConfig struct {
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	AccessSecret  []byte
	RefreshSecret []byte
	Issuer        string
}

// PasswordConfig carries the Argon2id parameters, within the ranges the
// password package validates.
type PasswordConfig struct {
	Memory         uint32 // in KB
	Time           uint32
	Parallelism    uint8
	SaltLength     uint32
	KeyLength      uint32
	UpgradeOnLogin bool
}

// AccountConfig controls self-service registration.
type AccountConfig struct {
	DefaultRole Role
}

// SecurityConfig holds hardening switches.
type SecurityConfig struct {
	// RotateRefreshTokens, when enabled, replaces the refresh token on every
	// successful refresh and invalidates the presented one atomically. Off by
	// default: the presented token then stays valid until the next login or
	// an explicit logout.
	RotateRefreshTokens bool
}

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls the in-process metrics system.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns the baseline configuration: 15-minute access tokens,
// 7-day refresh tokens, and moderate Argon2id parameters. Signing secrets
// have no default and must be supplied.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			AccessTTL:  15 * time.Minute,
			RefreshTTL: 7 * 24 * time.Hour,
		},
		Password: PasswordConfig{
			Memory:      64 * 1024,
			Time:        3,
			Parallelism: 2,
			SaltLength:  16,
			KeyLength:   32,
		},
		Account: AccountConfig{
			DefaultRole: RoleUser,
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate checks the configuration for internal consistency. Build calls it;
// it is exported for callers that assemble Config by hand.
func (c Config) Validate() error {
	if c.JWT.AccessTTL <= 0 {
		return errors.New("access TTL must be positive")
	}
	if c.JWT.RefreshTTL <= 0 {
		return errors.New("refresh TTL must be positive")
	}
	if c.JWT.RefreshTTL <= c.JWT.AccessTTL {
		return errors.New("refresh TTL must exceed access TTL")
	}
	if len(c.JWT.AccessSecret) == 0 {
		return errors.New("access token secret required")
	}
	if len(c.JWT.RefreshSecret) == 0 {
		return errors.New("refresh token secret required")
	}
	if bytes.Equal(c.JWT.AccessSecret, c.JWT.RefreshSecret) {
		return errors.New("access and refresh secrets must differ")
	}
	if !c.Account.DefaultRole.Valid() {
		return errors.New("default role must be a known role")
	}
	if c.Account.DefaultRole == RoleAdmin {
		return errors.New("default role must not be admin")
	}
	return nil
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.JWT.AccessSecret = cloneBytes(cfg.JWT.AccessSecret)
	out.JWT.RefreshSecret = cloneBytes(cfg.JWT.RefreshSecret)
	return out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
