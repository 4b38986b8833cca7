package storage

import (
	"context"
	"log/slog"

	"github.com/mjmlights57/product-docs-manager/internal/models"
)

// ReferencedLister reports the stored names the record database still
// references for one file kind. The store package implements it.
type ReferencedLister interface {
	ReferencedFilenames(ctx context.Context, kind models.FileKind) ([]string, error)
}

// SweepResult summarizes one orphan sweep.
type SweepResult struct {
	CandidateCount int
	DeletedCount   int
	FailedCount    int
	ReclaimedBytes int64
	DryRun         bool
}

// SweepOrphans finds stored files no product references and, unless dryRun
// is set, deletes them. Replacement and deletion remove files eagerly, so
// orphans only accumulate from interrupted requests or failed removals.
func SweepOrphans(ctx context.Context, files Store, refs ReferencedLister, dryRun bool, logger *slog.Logger) (SweepResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	result := SweepResult{DryRun: dryRun}

	for kind := range kindDirs {
		referenced, err := refs.ReferencedFilenames(ctx, kind)
		if err != nil {
			return result, err
		}
		keep := make(map[string]struct{}, len(referenced))
		for _, name := range referenced {
			keep[name] = struct{}{}
		}

		stored, err := files.List(ctx, kind)
		if err != nil {
			return result, err
		}

		for _, name := range stored {
			if _, ok := keep[name]; ok {
				continue
			}
			result.CandidateCount++

			size, err := files.Size(ctx, kind, name)
			if err != nil {
				logger.Warn("stat orphaned file", "kind", string(kind), "name", name, "error", err)
			}

			if dryRun {
				logger.Info("orphaned file", "kind", string(kind), "name", name, "bytes", size)
				result.ReclaimedBytes += size
				continue
			}

			if err := files.Remove(ctx, kind, name); err != nil {
				logger.Warn("remove orphaned file", "kind", string(kind), "name", name, "error", err)
				result.FailedCount++
				continue
			}
			result.DeletedCount++
			result.ReclaimedBytes += size
		}
	}

	return result, nil
}
