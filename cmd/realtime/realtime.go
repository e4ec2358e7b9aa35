package realtime

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/SolomonGithu/barkdet-go/internal/analysis"
	"github.com/SolomonGithu/barkdet-go/internal/conf"
)

// Command creates a new command for realtime bark detection.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "realtime",
		Short: "Analyze audio in realtime mode",
		Long:  "Capture microphone audio and detect dog barks in realtime, dispatching notifications on detection.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return analysis.RealtimeAnalysis(settings)
		},
	}

	if err := setupFlags(cmd, settings); err != nil {
		cobra.CheckErr(err)
	}

	return cmd
}

// setupFlags configures flags specific to the realtime command.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) error {
	cmd.Flags().StringVar(&settings.Audio.Source, "source", viper.GetString("audio.source"), "Audio capture source (\"sysdefault\", \"USB Audio\", etc.)")
	cmd.Flags().StringVar(&settings.Audio.Export.Path, "clippath", viper.GetString("audio.export.path"), "Path to save detection audio clips")
	cmd.Flags().BoolVar(&settings.Audio.Export.Enabled, "clipexport", viper.GetBool("audio.export.enabled"), "Export an audio clip for each detection")
	cmd.Flags().BoolVar(&settings.Relay.Enabled, "relay", viper.GetBool("relay.enabled"), "Forward detections to the push relay server")
	cmd.Flags().StringVar(&settings.Relay.URL, "relayurl", viper.GetString("relay.url"), "Base URL of the push relay server")
	cmd.Flags().IntVar(&settings.Relay.Interval, "relayinterval", viper.GetInt("relay.interval"), "Relay debounce interval in milliseconds")

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}
	return nil
}
