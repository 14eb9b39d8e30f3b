package credgate

import (
	"context"
	"io"

	internalaudit "github.com/MrEthical07/credgate/internal/audit"
)

// Role is the coarse permission tier gating endpoint access.
type Role string

const (
	// RoleUser is the default tier assigned at registration.
	RoleUser Role = "user"
	// RoleAdmin is the privileged tier. It is never assignable through
	// self-service registration.
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// UserRecord is the durable user identity held by a [UserStore]. It carries
// the credential hash, role, and the single active refresh token.
//
// RefreshToken is the only session-related persisted state credgate
// introduces: empty means no live session, and exactly one value is live at
// any instant. A new login or rotation overwrites it; logout clears it.
type UserRecord struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	RefreshToken string
}

// Public returns the caller-visible projection of the record. PasswordHash
// and RefreshToken are never part of it.
func (u UserRecord) Public() PublicUser {
	return PublicUser{
		ID:    u.ID,
		Email: u.Email,
		Role:  u.Role,
	}
}

// PublicUser is the identity projection returned by [Engine.Register].
type PublicUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// TokenPair is returned by [Engine.Login]: a short-lived access token and a
// long-lived refresh token signed with independent secrets.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// RegisterRequest is the input for [Engine.Register]. Role is optional and,
// when present, must name a known role other than admin.
type RegisterRequest struct {
	Email    string
	Password string
	Role     string
}

// CreateUserInput is the input for [UserStore.Create]. The store assigns the
// record ID.
type CreateUserInput struct {
	Email        string
	PasswordHash string
	Role         Role
}

// UserStore is the persistence contract callers implement (or pick from
// stores/) to integrate credgate with their user database. The engine treats
// it as a per-record atomic document store: no multi-step transactions are
// assumed, and SetRefreshToken must be a single-field overwrite rather than
// a read-modify-write so racing logins resolve last-write-wins.
//
// Implementations return [ErrStoreNotFound] for lookup misses and
// [ErrStoreDuplicateEmail] for email-uniqueness violations; any other error
// is treated as a store outage.
type UserStore interface {
	FindByID(ctx context.Context, id string) (UserRecord, error)
	FindByEmail(ctx context.Context, email string) (UserRecord, error)
	Create(ctx context.Context, input CreateUserInput) (UserRecord, error)
	// SetRefreshToken overwrites the user's active refresh token. An empty
	// token clears it.
	SetRefreshToken(ctx context.Context, userID, token string) error
	UpdatePasswordHash(ctx context.Context, userID, newHash string) error
}

// AuditEvent is a structured audit record emitted by the engine.
type AuditEvent = internalaudit.Event

// AuditSink receives [AuditEvent] values from the engine's audit dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events to an
// [io.Writer], one object per line.
type JSONWriterSink = internalaudit.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}
