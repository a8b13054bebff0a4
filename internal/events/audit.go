package events

import (
	"context"
	"log/slog"
)

// AuditLogHandler writes every account event to a structured logger.
type AuditLogHandler struct {
	logger *slog.Logger
}

var _ EventHandler = (*AuditLogHandler)(nil)

// NewAuditLogHandler creates an audit handler that logs at info level.
func NewAuditLogHandler(logger *slog.Logger) *AuditLogHandler {
	return &AuditLogHandler{logger: logger.With("component", "audit")}
}

// HandleEvent implements EventHandler.
func (h *AuditLogHandler) HandleEvent(ctx context.Context, event *AccountEvent) error {
	attrs := []slog.Attr{
		slog.String("event_id", event.ID.String()),
		slog.String("event_type", string(event.Type)),
		slog.Int64("user_id", event.UserID),
		slog.Time("occurred_at", event.OccurredAt),
	}
	if len(event.Metadata) > 0 {
		attrs = append(attrs, slog.String("metadata", string(event.Metadata)))
	}
	h.logger.LogAttrs(ctx, slog.LevelInfo, "account event", attrs...)
	return nil
}
