package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mjmlights57/product-docs-manager/internal/config"
	"github.com/mjmlights57/product-docs-manager/internal/server"
)

func newRootCmd(cfg *config.Config) *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "productdocs",
		Short: "Productdocs manages product records, their documents, and bulk exports",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			warning, err := configureLoggerForCLI(logLevel, cfg.LogLevel)
			if err != nil {
				return err
			}
			if warning != "" {
				fmt.Fprintln(os.Stderr, warning)
			}
			return nil
		},
	}

	cmd.Version = version
	server.Version = version
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newSrvCmd(cfg),
		newMigrateCmd(cfg),
		newGCCmd(cfg),
		newConfigCmd(cfg),
	)

	return cmd
}
