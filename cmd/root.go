package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/SolomonGithu/barkdet-go/cmd/pushserver"
	"github.com/SolomonGithu/barkdet-go/cmd/realtime"
	"github.com/SolomonGithu/barkdet-go/internal/conf"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "barkdet",
		Short: "BarkDet-Go CLI",
		Long:  "Realtime dog bark detection with tiered notifications and Web Push relay.",
	}

	// Set up the global flags for the root command.
	if err := setupFlags(rootCmd, settings); err != nil {
		cobra.CheckErr(err)
	}

	rootCmd.AddCommand(
		realtime.Command(settings),
		pushserver.Command(settings),
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return conf.ValidateSettings(settings)
	}

	return rootCmd
}

// setupFlags configures global flags shared by every subcommand.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) error {
	cmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")
	cmd.PersistentFlags().StringVar(&settings.Classifier.ModelPath, "model", viper.GetString("classifier.modelpath"), "Path to the TFLite model file")
	cmd.PersistentFlags().StringVar(&settings.Classifier.LabelPath, "labels", viper.GetString("classifier.labelpath"), "Path to the class label file")
	cmd.PersistentFlags().Float64Var(&settings.Classifier.Sensitivity, "sensitivity", viper.GetFloat64("classifier.sensitivity"), "Sigmoid sensitivity value between 0.5 and 1.5")
	cmd.PersistentFlags().StringVar(&settings.Detection.TargetLabel, "target", viper.GetString("detection.targetlabel"), "Label that triggers a detection")
	cmd.PersistentFlags().Float64Var(&settings.Detection.Threshold, "threshold", viper.GetFloat64("detection.threshold"), "Minimum confidence for a detection")

	if err := viper.BindPFlags(cmd.PersistentFlags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}
	return nil
}
