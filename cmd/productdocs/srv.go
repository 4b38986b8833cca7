package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mjmlights57/product-docs-manager/internal/config"
	"github.com/mjmlights57/product-docs-manager/internal/server"
	"github.com/mjmlights57/product-docs-manager/internal/storage"
	"github.com/mjmlights57/product-docs-manager/internal/store"
)

func newSrvCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "srv",
		Short: "Run the productdocs API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg == nil {
				return fmt.Errorf("config not initialized")
			}
			if cfg.DBPath == "" {
				return fmt.Errorf("db path is required")
			}

			logger := slog.Default().With("component", "server")

			addr, err := server.ListenAddr(cfg.APIURL)
			if err != nil {
				return err
			}

			logger.Info("opening database", "path", cfg.DBPath)
			st, err := store.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			files, err := storage.NewLocal(cfg.StorageRoot)
			if err != nil {
				return err
			}

			srv := server.New(addr, st, files, cfg.Uploads, logger)
			return srv.ListenAndServe()
		},
	}
}
