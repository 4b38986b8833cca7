package main

import (
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mjmlights57/product-docs-manager/internal/config"
	"github.com/mjmlights57/product-docs-manager/internal/storage"
	"github.com/mjmlights57/product-docs-manager/internal/store"
)

func newGCCmd(cfg *config.Config) *cobra.Command {
	var apply bool

	cmd := &cobra.Command{
		Use:   "gc",
		Short: "Find stored files no product references; delete them with --apply",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			files, err := storage.NewLocal(cfg.StorageRoot)
			if err != nil {
				return err
			}

			logger := slog.Default().With("component", "gc")
			result, err := storage.SweepOrphans(cmd.Context(), files, st, !apply, logger)
			if err != nil {
				return err
			}

			if result.DryRun {
				fmt.Printf("Found %d orphaned file(s), %s. Re-run with --apply to delete.\n",
					result.CandidateCount, humanize.Bytes(uint64(result.ReclaimedBytes)))
				return nil
			}

			fmt.Printf("Deleted %d of %d orphaned file(s), reclaimed %s.\n",
				result.DeletedCount, result.CandidateCount, humanize.Bytes(uint64(result.ReclaimedBytes)))
			if result.FailedCount > 0 {
				return fmt.Errorf("%d file(s) could not be removed", result.FailedCount)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "delete orphaned files instead of listing them")
	return cmd
}
