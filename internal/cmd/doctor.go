package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/climbe/ri-backend/internal/config"
	"github.com/climbe/ri-backend/internal/observability"
	"github.com/climbe/ri-backend/pkg/catalog"
	"github.com/climbe/ri-backend/pkg/drive"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run configuration and connectivity checks",
	Long: `Check that the service can start: configuration is complete, the
service-account key is readable, Drive authentication works, and every
configured category folder is listable.`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := observability.CLILogger

	log.Info("=== ri-backend doctor ===")

	cfg, err := config.Load(flagConfigPath)
	if err != nil {
		return exitError(int(foundry.ExitInvalidArgument), "Configuration failed to load", err)
	}
	if err := cfg.Validate(); err != nil {
		return exitError(int(foundry.ExitInvalidArgument), "Configuration is incomplete", err)
	}
	log.Info("[1/4] Configuration... ok")

	if _, err := os.Stat(cfg.Drive.CredentialsFile); err != nil {
		return exitError(int(foundry.ExitFileNotFound), "Service-account key not readable", err)
	}
	log.Info("[2/4] Service-account key... ok")

	client, err := drive.NewClient(ctx, drive.Config{
		CredentialsFile: cfg.Drive.CredentialsFile,
		CallTimeout:     10 * time.Second,
		RateLimit:       cfg.Drive.RateLimit,
	})
	if err != nil {
		return exitError(int(foundry.ExitExternalServiceUnavailable), "Cannot create Drive client", err)
	}
	if err := client.CheckAccess(ctx); err != nil {
		return exitError(int(foundry.ExitExternalServiceUnavailable), "Drive authentication failed", err)
	}
	log.Info("[3/4] Drive authentication... ok")

	categories, err := catalog.DefaultCategories(cfg.Folders)
	if err != nil {
		return exitError(int(foundry.ExitInvalidArgument), "Folder configuration incomplete", err)
	}

	failed := 0
	for _, cat := range categories {
		if err := probeFolder(ctx, client, cat); err != nil {
			failed++
			log.Warn(fmt.Sprintf("  %s: not listable", cat.Name), zap.Error(err))
			continue
		}
		log.Info(fmt.Sprintf("  %s: ok", cat.Name))
	}
	if failed > 0 {
		return exitError(int(foundry.ExitExternalServiceUnavailable),
			"Some category folders are not listable",
			fmt.Errorf("%d of %d folders failed", failed, len(categories)))
	}
	log.Info(fmt.Sprintf("[4/4] Category folders... ok (%d)", len(categories)))

	log.Info("All checks passed")
	return nil
}

// probeFolder requests a single-id page to confirm the folder exists and is
// readable with the configured credentials.
func probeFolder(ctx context.Context, lister drive.Lister, cat catalog.Category) error {
	_, err := lister.ListPage(ctx, drive.ListOptions{
		FolderID:   cat.FolderID,
		Projection: drive.ProjectionIDs,
		PageSize:   1,
	})
	return err
}
