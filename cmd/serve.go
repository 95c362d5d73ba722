package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spigell/ats-matcher/internal/jobpost"
	"github.com/spigell/ats-matcher/internal/logger"
	"github.com/spigell/ats-matcher/internal/server"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the upload form and the JSON API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "address to listen on (default :8080)")
	serveCmd.Flags().Int64("max-upload-mb", 0, "maximum size of an upload request in megabytes")
	serveCmd.Flags().Duration("request-timeout", 0, "time limit for a single analysis")

	viper.BindPFlag("listen", serveCmd.Flags().Lookup("listen"))
	viper.BindPFlag("max-upload-mb", serveCmd.Flags().Lookup("max-upload-mb"))
	viper.BindPFlag("request-timeout", serveCmd.Flags().Lookup("request-timeout"))
}

func serve(ctx context.Context) error {
	config, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting the ats-matcher server",
		zap.String("version", version),
		zap.String("provider", config.AI.Provider),
	)

	service, err := newAnalysisService(ctx, config.AI, log)
	if err != nil {
		return err
	}

	srv, err := server.New(server.Config{
		Listen:         config.Listen,
		MaxUploadBytes: config.MaxUploadMB << 20,
		RequestTimeout: config.RequestTimeout,
	}, service, jobpost.NewFetcher(logger.WithComponent(log, "jobpost")), logger.WithComponent(log, "server"))
	if err != nil {
		return err
	}

	return srv.Run(ctx)
}
