package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"text/tabwriter"

	"github.com/frahmantamala/asset-tracking/internal/user"
	userPostgres "github.com/frahmantamala/asset-tracking/internal/user/postgres"
	"github.com/frahmantamala/asset-tracking/pkg/logger"
	"github.com/spf13/cobra"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List user accounts",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		lg := logger.Setup(cmd.ErrOrStderr(), cfg.Logging.Format, cfg.Logging.Level)

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		users, err := user.NewService(userPostgres.NewUserRepository(db.ORM), cfg.Security.BCryptCost, lg).List(context.Background())
		if err != nil {
			log.Fatalf("failed to list users: %v", err)
		}
		if err := printUsers(cmd.OutOrStdout(), users); err != nil {
			log.Fatalf("failed to print users: %v", err)
		}
	},
}

func printUsers(w io.Writer, users []*user.User) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "USERNAME\tROLE\tFULL NAME\tID")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.Username, u.Role, u.FullName, u.ID)
	}
	fmt.Fprintf(tw, "\n%d users\n", len(users))
	return tw.Flush()
}
