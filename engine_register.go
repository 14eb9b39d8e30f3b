package credgate

import (
	"context"
	"errors"
	"fmt"
)

// Register creates a user account. The supplied role is optional; when empty
// the configured default applies. The admin role is rejected before anything
// else is examined: self-service can never mint a privileged account, and the
// response must not reveal whether the email was otherwise registrable.
func (e *Engine) Register(ctx context.Context, req RegisterRequest) (*PublicUser, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	if req.Role != "" && Role(req.Role) == RoleAdmin {
		e.metricInc(MetricRegisterEscalationBlocked)
		e.emitAudit(ctx, auditRegisterFailure, "", req.Email, false, ErrRoleEscalation, nil)
		return nil, ErrRoleEscalation
	}

	if req.Email == "" || req.Password == "" {
		e.emitAudit(ctx, auditRegisterFailure, "", req.Email, false, ErrValidation, nil)
		return nil, ErrValidation
	}

	role := e.config.Account.DefaultRole
	if req.Role != "" {
		role = Role(req.Role)
		if !role.Valid() {
			e.emitAudit(ctx, auditRegisterFailure, "", req.Email, false, ErrRoleInvalid, func() map[string]string {
				return map[string]string{"role": req.Role}
			})
			return nil, ErrRoleInvalid
		}
	}

	hash, err := e.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	record, err := e.store.Create(ctx, CreateUserInput{
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, ErrStoreDuplicateEmail) {
			e.metricInc(MetricRegisterDuplicate)
			e.emitAudit(ctx, auditRegisterFailure, "", req.Email, false, ErrEmailTaken, nil)
			return nil, ErrEmailTaken
		}
		e.metricInc(MetricStoreUnavailable)
		e.emitAudit(ctx, auditRegisterFailure, "", req.Email, false, ErrStoreUnavailable, nil)
		return nil, ErrStoreUnavailable
	}

	e.metricInc(MetricRegisterSuccess)
	e.emitAudit(ctx, auditRegisterSuccess, record.ID, record.Email, true, nil, func() map[string]string {
		return map[string]string{"role": string(record.Role)}
	})

	public := record.Public()
	return &public, nil
}
