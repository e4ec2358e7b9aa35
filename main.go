// BarkDet-Go entry point. Loads configuration, initializes logging, and
// hands control to the command tree.
package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/SolomonGithu/barkdet-go/cmd"
	"github.com/SolomonGithu/barkdet-go/internal/conf"
	"github.com/SolomonGithu/barkdet-go/internal/logging"
)

func main() {
	settings, err := conf.Load()
	if err != nil {
		log.Fatalf("error loading configuration: %v", err)
	}

	logging.Init(settings.Debug)

	if settings.Main.Log.Enabled {
		fileLogger, closeLog, err := logging.NewFileLogger(settings.Main.Log.Path, settings.Main.Name, slog.LevelInfo)
		if err != nil {
			logging.Warn("file logging disabled", "error", err, "path", settings.Main.Log.Path)
		} else {
			slog.SetDefault(fileLogger)
			defer closeLog() //nolint:errcheck
		}
	}

	rootCmd := cmd.RootCommand(settings)
	if err := rootCmd.Execute(); err != nil {
		logging.Error("command failed", "error", err)
		os.Exit(1)
	}
}
