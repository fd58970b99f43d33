package bot

import (
	"context"
	"log/slog"
)

// LogNotifier writes messages to the log instead of a chat.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a notifier that only logs.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &LogNotifier{logger: logger}
}

// Notify implements Notifier.
func (n *LogNotifier) Notify(_ context.Context, chatID int64, text string) error {
	n.logger.Info("notification", "chat_id", chatID, "text", text)
	return nil
}
