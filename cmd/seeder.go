package cmd

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/frahmantamala/asset-tracking/internal"
	"github.com/frahmantamala/asset-tracking/internal/core/datamodel"
	"github.com/frahmantamala/asset-tracking/internal/user"
	userPostgres "github.com/frahmantamala/asset-tracking/internal/user/postgres"
	"github.com/frahmantamala/asset-tracking/pkg/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

const (
	defaultViewerUsername = "viewer"
	defaultViewerPassword = "viewer123"
	defaultViewerFullName = "Viewer"
)

var (
	clearData  bool
	seedViewer bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Ensure the bootstrap accounts exist",
	Long:  `Create the admin account from config and optionally a viewer account. With --clear every tool, loan, calibration and stock item is deleted first; users are kept.`,
	Run: func(cmd *cobra.Command, args []string) {
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

		ctx := context.Background()
		if clearData {
			if err := clearDomainData(ctx, db.ORM, lg); err != nil {
				log.Fatalf("failed to clear data: %v", err)
			}
		}

		if err := seedAccounts(ctx, cfg, user.NewService(userPostgres.NewUserRepository(db.ORM), cfg.Security.BCryptCost, lg), seedViewer); err != nil {
			log.Fatalf("failed to seed accounts: %v", err)
		}
		lg.Info("seeding finished")
	},
}

func init() {
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "Delete tools, loans, calibrations and stock items before seeding")
	seedCmd.Flags().BoolVar(&seedViewer, "viewer", false, "Also create the viewer/viewer123 account")
}

func seedAccounts(ctx context.Context, cfg *internal.Config, users *user.Service, withViewer bool) error {
	if _, err := users.EnsureUser(ctx,
		cfg.Bootstrap.AdminUsername,
		cfg.Bootstrap.AdminPassword,
		internal.RoleAdmin,
		cfg.Bootstrap.AdminFullName); err != nil {
		return err
	}
	if !withViewer {
		return nil
	}
	_, err := users.EnsureUser(ctx, defaultViewerUsername, defaultViewerPassword, internal.RoleViewer, defaultViewerFullName)
	return err
}

// clearDomainData deletes every inventory record and keeps user accounts.
func clearDomainData(ctx context.Context, db *gorm.DB, lg *slog.Logger) error {
	for _, model := range datamodel.InventoryModels() {
		table := model.(schema.Tabler).TableName()
		res := db.WithContext(ctx).Where("1 = 1").Delete(model)
		if res.Error != nil {
			return fmt.Errorf("clear %s: %w", table, res.Error)
		}
		lg.Info("table cleared", "table", table, "deleted", res.RowsAffected)
	}
	return nil
}
