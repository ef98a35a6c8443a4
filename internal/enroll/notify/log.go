package notify

import (
	"context"
	"log/slog"

	"github.com/classforge/enroll/internal/enroll/service"
)

// LogNotifier writes the invitation to the structured log instead of
// delivering it anywhere. Used when no webhook URL is configured, which
// keeps local development working without a mailer.
type LogNotifier struct {
	Logger *slog.Logger
}

func (l *LogNotifier) Send(_ context.Context, n service.Notification) error {
	l.Logger.Info("invitation notification (log delivery)",
		slog.String("org_id", n.OrgID),
		slog.String("email", n.Email),
		slog.String("code", n.Code),
		slog.Time("expires_at", n.ExpiresAt),
	)
	return nil
}
