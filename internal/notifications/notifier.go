package notifications

import (
	"context"
	"log"
)

// Notifier surfaces success/warning/error messages to the user.
// Calls are fire-and-forget: the engine never depends on their outcome.
type Notifier interface {
	Info(ctx context.Context, message string)
	Warn(ctx context.Context, message string)
	Error(ctx context.Context, message string)
}

// LogNotifier writes notifications to the process log.
type LogNotifier struct{}

// NewLogNotifier creates a log-backed notifier
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// Info logs an informational notification
func (n *LogNotifier) Info(_ context.Context, message string) {
	log.Printf("INFO: %s", message)
}

// Warn logs a warning notification
func (n *LogNotifier) Warn(_ context.Context, message string) {
	log.Printf("WARN: %s", message)
}

// Error logs an error notification
func (n *LogNotifier) Error(_ context.Context, message string) {
	log.Printf("ERROR: %s", message)
}
