package jwt

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenExpired reports a structurally valid token past its expiry.
var ErrTokenExpired = errors.New("token expired")

// ErrTokenMalformed reports a token that failed signature or structure
// checks, including a token signed for the other purpose (access vs refresh).
var ErrTokenMalformed = errors.New("token malformed")

// Config carries the two signing secrets, their TTLs, and an optional clock.
//
// Config instances are intended to be configured during initialization and
// then treated as immutable.
type Config struct {
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	AccessSecret  []byte
	RefreshSecret []byte
	Issuer        string
	// TimeFunc overrides the clock used for both signing and validation.
	// Nil means time.Now. Tests use it to pin expiry boundaries.
	TimeFunc func() time.Time
}

// Claims is the payload carried by both token kinds: the user id as subject
// plus issued-at and expiry timestamps. Tokens deliberately do not embed the
// role; authorization re-reads it from the store at decision time.
type Claims struct {
	jwt.RegisteredClaims
}

// Manager mints and validates access and refresh tokens. The two kinds are
// signed HS256 with independent secrets, so validating a token with the
// wrong purpose's secret fails as malformed rather than silently passing.
type Manager struct {
	config Config
	now    func() time.Time
}

// NewManager validates cfg and returns a ready Manager.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if len(cfg.AccessSecret) == 0 {
		return nil, errors.New("access secret required")
	}
	if len(cfg.RefreshSecret) == 0 {
		return nil, errors.New("refresh secret required")
	}
	if bytes.Equal(cfg.AccessSecret, cfg.RefreshSecret) {
		return nil, errors.New("access and refresh secrets must differ")
	}

	now := cfg.TimeFunc
	if now == nil {
		now = time.Now
	}

	return &Manager{config: cfg, now: now}, nil
}

// CreateAccess mints an access token with subject=userID and
// exp = now + AccessTTL.
func (m *Manager) CreateAccess(userID string) (string, error) {
	return m.create(userID, m.config.AccessTTL, m.config.AccessSecret)
}

// CreateRefresh mints a refresh token with subject=userID and
// exp = now + RefreshTTL.
func (m *Manager) CreateRefresh(userID string) (string, error) {
	return m.create(userID, m.config.RefreshTTL, m.config.RefreshSecret)
}

// ParseAccess validates tokenStr against the access secret and returns its
// claims. Failures are [ErrTokenExpired] or [ErrTokenMalformed].
func (m *Manager) ParseAccess(tokenStr string) (*Claims, error) {
	return m.parse(tokenStr, m.config.AccessSecret)
}

// ParseRefresh validates tokenStr against the refresh secret. A token minted
// by CreateAccess fails here even before expiry: the secrets are independent.
func (m *Manager) ParseRefresh(tokenStr string) (*Claims, error) {
	return m.parse(tokenStr, m.config.RefreshSecret)
}

func (m *Manager) create(userID string, ttl time.Duration, secret []byte) (string, error) {
	if userID == "" {
		return "", errors.New("empty subject")
	}

	now := m.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if m.config.Issuer != "" {
		claims.Issuer = m.config.Issuer
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func (m *Manager) parse(tokenStr string, secret []byte) (*Claims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	}
	if m.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(m.config.Issuer))
	}

	parser := jwt.NewParser(options...)
	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenMalformed
	}
	if claims.Subject == "" {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}
