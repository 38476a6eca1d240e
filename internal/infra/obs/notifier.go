package obs

import (
	"context"
	"log/slog"
)

// LogNotifier satisfies the notification port by logging the delivery. It is
// the stand-in until a real notification channel is attached.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) Send(ctx context.Context, to string, template string, data any) error {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "notification", "to", to, "template", template, "data", data)
	return nil
}
