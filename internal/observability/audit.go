package observability

import (
	"log/slog"
	"net/http"
)

type AuditInput struct {
	EventName   string
	ActorUserID uint
	TargetType  string
	TargetID    string
	Action      string
	Outcome     string
	Reason      string
}

// EmitAudit writes a structured audit line for a security-relevant action.
func EmitAudit(logger *slog.Logger, r *http.Request, in AuditInput, extra ...any) {
	if logger == nil {
		return
	}
	attrs := []any{
		"event", in.EventName,
		"actor_user_id", in.ActorUserID,
		"target_type", in.TargetType,
		"target_id", in.TargetID,
		"action", in.Action,
		"outcome", in.Outcome,
		"reason", in.Reason,
	}
	attrs = append(attrs, extra...)
	logger.InfoContext(r.Context(), "audit", attrs...)
}
