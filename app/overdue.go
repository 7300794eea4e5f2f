package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/daemon"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(overdueCmd)
}

var overdueCmd = &cobra.Command{
	Use:   "recompute-overdue",
	Short: "Recompute every overdue list once and print the users over the limit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		db, err := daemon.Open(&cfg)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if sqlDB, err := db.DB(); err == nil {
			defer func() { _ = sqlDB.Close() }()
		}

		svc, err := daemon.NewOrchestrator(&cfg, db)
		if err != nil {
			return err //nolint:wrapcheck
		}

		summary, err := svc.Refresh(context.Background())
		if err != nil {
			return err //nolint:wrapcheck
		}

		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(out, "users: %d, changed: %d, over limit: %d\n",
			summary.Users, summary.Changed, len(summary.OverLimit))

		for _, id := range summary.OverLimit {
			_, _ = fmt.Fprintln(out, id)
		}

		return nil
	},
}
