package credgate

import "errors"

// Engine-level error taxonomy. Callers branch with errors.Is; the HTTP layer
// owns the mapping to status codes and stable response messages.
var (
	// ErrValidation reports malformed or missing input, such as a register
	// request without an email or password.
	ErrValidation = errors.New("email and password required")
	// ErrRoleInvalid reports a client-supplied role outside the known role set.
	ErrRoleInvalid = errors.New("invalid role")
	// ErrRoleEscalation reports a self-service attempt to register with the
	// admin role. It is checked unconditionally, before any store access.
	ErrRoleEscalation = errors.New("admin role cannot be self-assigned")
	// ErrEmailTaken reports a registration against an email that already has
	// an account.
	ErrEmailTaken = errors.New("email already exists")
	// ErrInvalidCredentials is returned for both an unknown email and a wrong
	// password. The two causes are deliberately indistinguishable to prevent
	// account enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrRefreshInvalid covers every refresh failure: malformed or expired
	// token, wrong signing secret, unknown subject, or a mismatch against the
	// stored refresh token.
	ErrRefreshInvalid = errors.New("invalid refresh token")
	// ErrTokenInvalid reports an access token that failed signature, structure,
	// or expiry checks.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrUserNotFound reports a post-authentication lookup miss, such as a
	// logout for a deleted user.
	ErrUserNotFound = errors.New("user not found")
	// ErrPermissionDenied reports an authorization failure: the subject's
	// current role is not in the endpoint's allowed set, or the role lookup
	// failed. Lookup failures deny; authorization never defaults to allow.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrStoreUnavailable reports a user-store outage. It is never folded into
	// an authentication failure.
	ErrStoreUnavailable = errors.New("user store unavailable")
	// ErrEngineNotReady reports an operation invoked on a nil Engine or one
	// that was not obtained through [Builder.Build].
	ErrEngineNotReady = errors.New("engine not initialized")
)

// Sentinels for UserStore implementations. The engine maps these to the
// taxonomy above at its boundary; raw store errors never reach callers.
var (
	// ErrStoreNotFound is returned by a UserStore when no record matches.
	ErrStoreNotFound = errors.New("store: user not found")
	// ErrStoreDuplicateEmail is returned by a UserStore when a create violates
	// email uniqueness.
	ErrStoreDuplicateEmail = errors.New("store: duplicate email")
)
