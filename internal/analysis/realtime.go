package analysis

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/SolomonGithu/barkdet-go/internal/classifier"
	"github.com/SolomonGithu/barkdet-go/internal/conf"
	"github.com/SolomonGithu/barkdet-go/internal/logging"
	"github.com/SolomonGithu/barkdet-go/internal/observability"
)

// serviceLogger returns the structured logger for name, or the process
// default when logging has not been initialized.
func serviceLogger(name string) *slog.Logger {
	if l := logging.ForService(name); l != nil {
		return l
	}
	return slog.Default()
}

// RealtimeAnalysis initializes the classifier and runs a capture session
// until the process receives SIGINT or SIGTERM.
func RealtimeAnalysis(settings *conf.Settings) error {
	logger := serviceLogger("analysis")

	metrics, err := observability.NewMetrics()
	if err != nil {
		return err
	}

	clf, err := classifier.New(settings)
	if err != nil {
		return err
	}

	session, err := NewSession(settings, clf, metrics, logger)
	if err != nil {
		clf.Close()
		return err
	}

	if err := session.Start(); err != nil {
		clf.Close()
		return err
	}
	defer session.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	sig := <-sigChan
	logger.Info("shutting down", "signal", sig.String())
	return nil
}
