package credgate

import (
	"context"
	"errors"
	"log"
)

// Login verifies email/password credentials and, on success, mints an access
// and refresh token pair. The refresh token is persisted as the user's single
// active session token, displacing any previous one.
//
// Unknown email and wrong password both return [ErrInvalidCredentials]; the
// two causes are indistinguishable to the caller.
func (e *Engine) Login(ctx context.Context, email, pass string) (*TokenPair, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	start := e.now()
	defer func() {
		e.metrics.Observe(MetricLoginLatency, e.now().Sub(start))
	}()

	user, err := e.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrStoreNotFound) {
			e.metricInc(MetricLoginFailure)
			e.emitAudit(ctx, auditLoginFailure, "", email, false, ErrInvalidCredentials, nil)
			return nil, ErrInvalidCredentials
		}
		e.metricInc(MetricStoreUnavailable)
		e.emitAudit(ctx, auditLoginFailure, "", email, false, ErrStoreUnavailable, nil)
		return nil, ErrStoreUnavailable
	}

	// A malformed stored hash verifies as a non-match, not an outage.
	ok, err := e.hasher.Verify(pass, user.PasswordHash)
	if err != nil || !ok {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditLoginFailure, user.ID, email, false, ErrInvalidCredentials, nil)
		return nil, ErrInvalidCredentials
	}

	if e.config.Password.UpgradeOnLogin {
		e.maybeUpgradeHash(ctx, user, pass)
	}

	access, err := e.tokens.CreateAccess(user.ID)
	if err != nil {
		return nil, err
	}
	refresh, err := e.tokens.CreateRefresh(user.ID)
	if err != nil {
		return nil, err
	}

	if err := e.store.SetRefreshToken(ctx, user.ID, refresh); err != nil {
		e.metricInc(MetricStoreUnavailable)
		e.emitAudit(ctx, auditLoginFailure, user.ID, email, false, ErrStoreUnavailable, nil)
		return nil, ErrStoreUnavailable
	}

	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditLoginSuccess, user.ID, email, true, nil, nil)

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

// maybeUpgradeHash transparently re-hashes the password when the stored hash
// was produced under weaker parameters. Failure here never fails the login.
func (e *Engine) maybeUpgradeHash(ctx context.Context, user UserRecord, pass string) {
	needs, err := e.hasher.NeedsUpgrade(user.PasswordHash)
	if err != nil || !needs {
		return
	}

	newHash, err := e.hasher.Hash(pass)
	if err != nil {
		return
	}

	if err := e.store.UpdatePasswordHash(ctx, user.ID, newHash); err != nil {
		log.Print("credgate: password hash upgrade failed: ", err)
	}
}
