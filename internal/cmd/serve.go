package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/climbe/ri-backend/internal/config"
	"github.com/climbe/ri-backend/internal/mail"
	"github.com/climbe/ri-backend/internal/metrics"
	"github.com/climbe/ri-backend/internal/observability"
	"github.com/climbe/ri-backend/internal/server"
	"github.com/climbe/ri-backend/internal/server/handlers"
	"github.com/climbe/ri-backend/pkg/catalog"
	"github.com/climbe/ri-backend/pkg/drive"
	"github.com/climbe/ri-backend/pkg/listing"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Long: `Run the HTTP server exposing the document listing endpoints and the
contact/newsletter relay.

Example:
  ri-backend serve
  ri-backend serve --config /etc/ri-backend/config.yaml`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(flagConfigPath)
	if err != nil {
		return exitError(int(foundry.ExitInvalidArgument), "Invalid configuration", err)
	}
	if err := cfg.Validate(); err != nil {
		return exitError(int(foundry.ExitInvalidArgument), "Invalid configuration", err)
	}
	if err := observability.Init(cfg.Logging.Level); err != nil {
		return exitError(int(foundry.ExitInvalidArgument), "Invalid log level", err)
	}
	log := observability.Logger

	categories, err := catalog.DefaultCategories(cfg.Folders)
	if err != nil {
		return exitError(int(foundry.ExitInvalidArgument), "Invalid folder configuration", err)
	}
	registry, err := catalog.NewRegistry(categories)
	if err != nil {
		return exitError(int(foundry.ExitInvalidArgument), "Invalid folder configuration", err)
	}

	client, err := drive.NewClient(ctx, drive.Config{
		CredentialsFile: cfg.Drive.CredentialsFile,
		CallTimeout:     cfg.Drive.CallTimeout,
		RateLimit:       cfg.Drive.RateLimit,
	})
	if err != nil {
		return exitError(int(foundry.ExitExternalServiceUnavailable), "Cannot create Drive client", err)
	}

	lister := metrics.InstrumentLister(client)
	agg := listing.NewAggregator(lister)
	pages := listing.NewBuilder(agg)

	sender, err := mail.NewSMTPMailer(mail.Config{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		FromName: cfg.Mail.FromName,
		To:       cfg.Mail.To,
	}, log)
	if err != nil {
		return exitError(int(foundry.ExitExternalServiceUnavailable), "Cannot create mail client", err)
	}

	health := handlers.NewHealthManager(versionInfo.Version)
	health.RegisterChecker("drive", driveChecker{client: client})

	srv := server.New(cfg.Server.Host, cfg.Server.Port, server.Deps{
		Registry:       registry,
		Aggregator:     agg,
		Pages:          pages,
		Sender:         sender,
		Health:         health,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Version:        versionInfo.Version,
		Log:            log,
	}, server.WithTimeouts(
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
		cfg.Server.IdleTimeout,
		cfg.Server.ShutdownTimeout,
	))

	log.Info("starting server",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.Int("categories", len(categories)))

	if err := srv.Start(ctx); err != nil {
		return exitError(int(foundry.ExitExternalServiceUnavailable), "Server failed", err)
	}
	return nil
}

// driveChecker reports upstream credential validity for readiness checks.
type driveChecker struct {
	client *drive.Client
}

func (c driveChecker) CheckHealth(ctx context.Context) error {
	return c.client.CheckAccess(ctx)
}
