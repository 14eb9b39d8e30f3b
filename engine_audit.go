package credgate

import (
	"context"

	internalaudit "github.com/MrEthical07/credgate/internal/audit"
)

// Audit event types emitted by the engine.
const (
	auditRegisterSuccess = "register.success"
	auditRegisterFailure = "register.failure"
	auditLoginSuccess    = "login.success"
	auditLoginFailure    = "login.failure"
	auditRefreshSuccess  = "refresh.success"
	auditRefreshFailure  = "refresh.failure"
	auditLogoutSuccess   = "logout.success"
	auditLogoutFailure   = "logout.failure"
	auditAuthorizeDenied = "authorize.denied"
)

// emitAudit enqueues an audit event. metaFn is evaluated lazily so the
// success path pays nothing when audit is disabled.
func (e *Engine) emitAudit(ctx context.Context, eventType, userID, email string, success bool, opErr error, metaFn func() map[string]string) {
	if e.audit == nil {
		return
	}

	event := internalaudit.Event{
		Timestamp: e.now(),
		EventType: eventType,
		UserID:    userID,
		Email:     email,
		IP:        clientIPFromContext(ctx),
		UserAgent: userAgentFromContext(ctx),
		Success:   success,
	}
	if opErr != nil {
		event.Error = opErr.Error()
	}
	if metaFn != nil {
		event.Metadata = metaFn()
	}

	e.audit.Emit(ctx, event)
}
