package push

import (
	"context"

	"go.uber.org/zap"

	"github.com/salehub/backend/internal/domain/notification"
)

// LogSender records pushes in the log instead of delivering them.
// Used when push is disabled.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender creates a LogSender
func NewLogSender(logger *zap.Logger) *LogSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSender{logger: logger}
}

// Send logs the message and reports every token as delivered
func (s *LogSender) Send(_ context.Context, msg notification.PushMessage) (notification.PushReport, error) {
	s.logger.Info("Push skipped (disabled)",
		zap.String("title", msg.Title),
		zap.Int("tokens", len(msg.Tokens)),
	)
	return notification.PushReport{SuccessCount: len(msg.Tokens)}, nil
}

var _ notification.PushSender = (*LogSender)(nil)
