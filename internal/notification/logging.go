package notification

import (
	"log/slog"
	"sync"

	"github.com/SolomonGithu/barkdet-go/internal/logging"
)

var (
	notificationLogger     *slog.Logger
	notificationLoggerOnce sync.Once
)

// getLogger returns the package logger, falling back to the default slog
// logger when logging has not been initialized (tests).
func getLogger() *slog.Logger {
	notificationLoggerOnce.Do(func() {
		notificationLogger = logging.ForService("notification")
		if notificationLogger == nil {
			notificationLogger = slog.Default().With("service", "notification")
		}
	})
	return notificationLogger
}
