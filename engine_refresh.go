package credgate

import (
	"context"
	"crypto/subtle"
	"errors"
)

// Refresh exchanges a valid refresh token for a new access token. The token
// must pass signature and expiry checks and match the subject's stored
// refresh token byte for byte; a token displaced by a newer login or cleared
// by logout fails here even though its signature is still valid.
//
// When refresh rotation is enabled, a replacement refresh token is minted,
// persisted, and returned alongside the access token; otherwise the returned
// pair's RefreshToken is empty and the presented token remains active.
func (e *Engine) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	claims, err := e.tokens.ParseRefresh(refreshToken)
	if err != nil {
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditRefreshFailure, "", "", false, ErrRefreshInvalid, nil)
		return nil, ErrRefreshInvalid
	}

	user, err := e.store.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrStoreNotFound) {
			e.metricInc(MetricRefreshFailure)
			e.emitAudit(ctx, auditRefreshFailure, claims.Subject, "", false, ErrRefreshInvalid, nil)
			return nil, ErrRefreshInvalid
		}
		e.metricInc(MetricStoreUnavailable)
		e.emitAudit(ctx, auditRefreshFailure, claims.Subject, "", false, ErrStoreUnavailable, nil)
		return nil, ErrStoreUnavailable
	}

	if subtle.ConstantTimeCompare([]byte(user.RefreshToken), []byte(refreshToken)) != 1 {
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditRefreshFailure, user.ID, user.Email, false, ErrRefreshInvalid, nil)
		return nil, ErrRefreshInvalid
	}

	access, err := e.tokens.CreateAccess(user.ID)
	if err != nil {
		return nil, err
	}

	pair := &TokenPair{AccessToken: access}

	if e.config.Security.RotateRefreshTokens {
		rotated, err := e.tokens.CreateRefresh(user.ID)
		if err != nil {
			return nil, err
		}
		if err := e.store.SetRefreshToken(ctx, user.ID, rotated); err != nil {
			e.metricInc(MetricStoreUnavailable)
			e.emitAudit(ctx, auditRefreshFailure, user.ID, user.Email, false, ErrStoreUnavailable, nil)
			return nil, ErrStoreUnavailable
		}
		pair.RefreshToken = rotated
	}

	e.metricInc(MetricRefreshSuccess)
	e.emitAudit(ctx, auditRefreshSuccess, user.ID, user.Email, true, nil, nil)

	return pair, nil
}
