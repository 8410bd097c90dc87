package progress

import (
	"context"
	"log/slog"

	"github.com/trebuchet-org/treb-l2/internal/domain"
	"github.com/trebuchet-org/treb-l2/internal/usecase"
)

// SessionLogger records every deployment session transition in the log
type SessionLogger struct {
	log *slog.Logger
}

// NewSessionLogger creates a session observer that logs transitions
func NewSessionLogger(log *slog.Logger) *SessionLogger {
	return &SessionLogger{log: log.With("component", "DeploymentSession")}
}

func (l *SessionLogger) OnTransition(ctx context.Context, t domain.SessionTransition) {
	attrs := []any{
		"session", t.Session.ID,
		"from", t.From.String(),
		"to", t.To.String(),
	}
	if t.Session.TxHash != nil {
		attrs = append(attrs, "tx", t.Session.TxHash.Hex())
	}
	if t.Session.ResultAddress != nil {
		attrs = append(attrs, "l2_token", t.Session.ResultAddress.Hex())
	}

	if t.To == domain.StateFailed {
		l.log.WarnContext(ctx, "session transition", append(attrs, "reason", t.Session.FailureReason)...)
		return
	}
	l.log.DebugContext(ctx, "session transition", attrs...)
}

var _ usecase.SessionObserver = (*SessionLogger)(nil)
