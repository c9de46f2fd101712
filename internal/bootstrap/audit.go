package bootstrap

import (
	"context"

	"github.com/mujabaralno/qr-absence/internal/shared/contextutil"

	"go.uber.org/zap"
)

// AuditLog is one operational audit entry, distinct from request logging.
type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}

// ZapAuditLogger writes audit entries through the process logger, tagged
// with the request id when one is in flight.
type ZapAuditLogger struct {
	logger *zap.Logger
}

func NewZapAuditLogger() *ZapAuditLogger {
	return &ZapAuditLogger{logger: zap.L().Named("bootstrap.audit")}
}

func (l *ZapAuditLogger) Log(ctx context.Context, entry AuditLog) {
	fields := []zap.Field{
		zap.String("action", entry.Action),
		zap.String("message", entry.Message),
	}
	if rid := contextutil.GetRequestID(ctx); rid != "" {
		fields = append(fields, zap.String("request_id", rid))
	}
	if len(entry.Meta) > 0 {
		fields = append(fields, zap.Any("meta", entry.Meta))
	}
	l.logger.Info("audit event", fields...)
}
