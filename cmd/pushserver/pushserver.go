package pushserver

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/SolomonGithu/barkdet-go/internal/conf"
	"github.com/SolomonGithu/barkdet-go/internal/observability"
	"github.com/SolomonGithu/barkdet-go/internal/relayserver"
)

// Command creates a new command running the push relay server.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pushserver",
		Short: "Run the Web Push relay server",
		Long:  "Serve the push relay HTTP API: hand out the VAPID public key, manage subscriptions, and fan detection payloads out to subscribers.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(settings)
		},
	}

	if err := setupFlags(cmd, settings); err != nil {
		cobra.CheckErr(err)
	}

	return cmd
}

func runServer(settings *conf.Settings) error {
	metrics, err := observability.NewMetrics()
	if err != nil {
		return err
	}

	srv, err := relayserver.New(&settings.Server, metrics)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return srv.Start(ctx)
}

// setupFlags configures flags specific to the pushserver command.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) error {
	cmd.Flags().IntVar(&settings.Server.Port, "port", viper.GetInt("server.port"), "Listen port for the relay server")
	cmd.Flags().StringVar(&settings.Server.Database, "database", viper.GetString("server.database"), "Path to the subscription database file")
	cmd.Flags().StringVar(&settings.Server.VAPIDKeyFile, "vapidkeys", viper.GetString("server.vapidkeyfile"), "Path to the persisted VAPID key pair")
	cmd.Flags().StringVar(&settings.Server.Contact, "contact", viper.GetString("server.contact"), "Contact address included in VAPID claims")

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}
	return nil
}
