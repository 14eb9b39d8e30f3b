package credgate

import (
	"context"
	"errors"
)

// Logout clears the user's active refresh token, ending the session
// server-side. It is idempotent: logging out with no live session succeeds.
// An unknown userID is [ErrUserNotFound].
func (e *Engine) Logout(ctx context.Context, userID string) error {
	if e == nil {
		return ErrEngineNotReady
	}

	user, err := e.store.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrStoreNotFound) {
			e.emitAudit(ctx, auditLogoutFailure, userID, "", false, ErrUserNotFound, nil)
			return ErrUserNotFound
		}
		e.metricInc(MetricStoreUnavailable)
		e.emitAudit(ctx, auditLogoutFailure, userID, "", false, ErrStoreUnavailable, nil)
		return ErrStoreUnavailable
	}

	if err := e.store.SetRefreshToken(ctx, user.ID, ""); err != nil {
		e.metricInc(MetricStoreUnavailable)
		e.emitAudit(ctx, auditLogoutFailure, user.ID, user.Email, false, ErrStoreUnavailable, nil)
		return ErrStoreUnavailable
	}

	e.metricInc(MetricLogout)
	e.emitAudit(ctx, auditLogoutSuccess, user.ID, user.Email, true, nil, nil)

	return nil
}
