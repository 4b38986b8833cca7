package main

import (
	"database/sql"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/mjmlights57/product-docs-manager/internal/config"
	"github.com/mjmlights57/product-docs-manager/internal/store"

	_ "modernc.org/sqlite"
)

func newMigrateCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run or inspect database schema migrations",
	}

	cmd.AddCommand(newMigrateStatusCmd(cfg))
	cmd.AddCommand(newMigrateUpCmd(cfg))
	return cmd
}

func newMigrateStatusCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openRawDB(cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			plan, err := store.MigrationPlan(db)
			if err != nil {
				return fmt.Errorf("inspect migrations: %w", err)
			}

			fmt.Printf("Current version: %d\n", plan.CurrentVersion)
			fmt.Printf("Available version: %d\n", plan.AvailableVersion)
			if len(plan.Pending) == 0 {
				fmt.Println("No pending migrations.")
				return nil
			}
			fmt.Printf("Pending migrations: %d\n", len(plan.Pending))
			for _, m := range plan.Pending {
				fmt.Printf("  %d: %s\n", m.Version, m.Description)
			}
			return nil
		},
	}
}

func newMigrateUpCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Opening the store applies migrations, same as server start.
			st, err := store.Open(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			defer st.Close()

			status, err := st.Status()
			if err != nil {
				return err
			}
			fmt.Printf("Migrations applied. Current version: %d\n", status.CurrentVersion)
			return nil
		},
	}
}

func openRawDB(path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("db path is required")
	}
	u := url.URL{Scheme: "file", Path: path}
	return sql.Open("sqlite", u.String())
}
