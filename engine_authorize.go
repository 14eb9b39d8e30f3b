package credgate

import "context"

// Authorize checks whether the user identified by userID currently holds one
// of the allowed roles. The role is read from the store at decision time, not
// from token claims, so a role change takes effect on the next request even
// while old access tokens are still live.
//
// Any failure denies: a lookup miss, a store outage, or a role outside the
// allowed set all return [ErrPermissionDenied]. Authorization never defaults
// to allow.
func (e *Engine) Authorize(ctx context.Context, userID string, allowed ...Role) error {
	if e == nil {
		return ErrEngineNotReady
	}

	user, err := e.store.FindByID(ctx, userID)
	if err != nil {
		e.metricInc(MetricAuthorizeDenied)
		e.emitAudit(ctx, auditAuthorizeDenied, userID, "", false, ErrPermissionDenied, nil)
		return ErrPermissionDenied
	}

	for _, role := range allowed {
		if user.Role == role {
			return nil
		}
	}

	e.metricInc(MetricAuthorizeDenied)
	e.emitAudit(ctx, auditAuthorizeDenied, user.ID, user.Email, false, ErrPermissionDenied, func() map[string]string {
		return map[string]string{"role": string(user.Role)}
	})

	return ErrPermissionDenied
}
