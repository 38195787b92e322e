package cmd

import (
	"context"
	"log"

	"github.com/frahmantamala/asset-tracking/internal/attachment"
	"github.com/frahmantamala/asset-tracking/internal/calibration"
	calibrationPostgres "github.com/frahmantamala/asset-tracking/internal/calibration/postgres"
	"github.com/frahmantamala/asset-tracking/internal/core/events"
	"github.com/frahmantamala/asset-tracking/internal/report"
	"github.com/frahmantamala/asset-tracking/internal/tool"
	toolPostgres "github.com/frahmantamala/asset-tracking/internal/tool/postgres"
	"github.com/frahmantamala/asset-tracking/pkg/logger"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event bus commands",
	Long:  `Drive the in-process event bus outside the HTTP server.`,
}

var replayCalibrationsCmd = &cobra.Command{
	Use:   "replay-calibrations",
	Short: "Publish every stored calibration again",
	Long:  `Publish a calibration.recorded event for every stored calibration, oldest first, so each tool carries the latest calibration date of its serial number.`,
	Run: func(cmd *cobra.Command, args []string) {
		replayCalibrations(cmd)
	},
}

func replayCalibrations(cmd *cobra.Command) {
	cfg, err := loadConfig(".")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	lg := logger.Setup(cmd.OutOrStdout(), cfg.Logging.Format, cfg.Logging.Level)

	db, err := initDB(cfg.Database)
	if err != nil {
		log.Fatalf("failed to init db: %v", err)
	}
	defer db.Close()

	store, err := attachment.NewLocalStore(cfg.Storage.Root, lg)
	if err != nil {
		log.Fatalf("failed to open upload store: %v", err)
	}

	eventBus := events.NewEventBus(lg)
	toolService := tool.NewService(toolPostgres.NewToolRepository(db.ORM), store, report.NewGenerator(cfg.Organization.Name), lg)
	tool.NewEventHandler(toolService, lg).RegisterEventHandlers(eventBus)

	service := calibration.NewService(calibrationPostgres.NewCalibrationRepository(db.ORM), eventBus, lg)
	n, err := service.Replay(context.Background())
	if err != nil {
		log.Fatalf("replay stopped after %d calibrations: %v", n, err)
	}
	lg.Info("calibration replay finished", "published", n)
}

func init() {
	eventCmd.AddCommand(replayCalibrationsCmd)
}
