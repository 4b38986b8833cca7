package export

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/mjmlights57/product-docs-manager/internal/models"
)

// EntryKind tags an archive entry as real content or an error marker.
type EntryKind string

const (
	EntryFile  EntryKind = "file"
	EntryError EntryKind = "error"
)

// Entry is one (path, content) pair destined for the archive. Failed
// records become EntryError markers instead of aborting the job, so the
// archive always reflects the full request set.
type Entry struct {
	Kind EntryKind
	Path string
	Data []byte
}

const errorMarkerName = "ERROR.txt"

// BuildEntries folds the requested ids into archive entries, one per
// resolvable, non-skipped record. Ids that do not resolve are skipped
// silently: client id lists may race with deletions. Each record is
// processed independently; a failure on one cannot affect another's entry.
func (e *Exporter) BuildEntries(ctx context.Context, ids []int64, kind Kind) ([]Entry, error) {
	if e == nil || e.records == nil || e.files == nil {
		return nil, fmt.Errorf("exporter is not configured")
	}
	if len(ids) == 0 {
		return nil, ErrNoRecordsSelected
	}
	if _, ok := validKinds[kind]; !ok {
		return nil, fmt.Errorf("invalid export kind: %s", kind)
	}

	products, err := e.records.ListSelected(ctx, ids)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(products))
	for i := range products {
		product := &products[i]
		label := archiveLabel(product)

		entry, ok, err := e.buildEntry(ctx, product, label, kind)
		if err != nil {
			entries = append(entries, Entry{
				Kind: EntryError,
				Path: path.Join(label, errorMarkerName),
				Data: []byte(fmt.Sprintf("Failed to process: %v", err)),
			})
			continue
		}
		if !ok {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// BuildArchive packages the entries for the requested ids into one
// in-memory ZIP. A job where every record was skipped still yields a
// valid, possibly empty archive.
func (e *Exporter) BuildArchive(ctx context.Context, ids []int64, kind Kind) ([]byte, error) {
	entries, err := e.BuildEntries(ctx, ids, kind)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, entry := range entries {
		w, err := zw.Create(entry.Path)
		if err != nil {
			_ = zw.Close()
			return nil, fmt.Errorf("archive entry %s: %w", entry.Path, err)
		}
		if _, err := w.Write(entry.Data); err != nil {
			_ = zw.Close()
			return nil, fmt.Errorf("archive entry %s: %w", entry.Path, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ArchiveFilename returns the download name for a bulk archive.
func ArchiveFilename(kind Kind) string {
	return fmt.Sprintf("products-%s.zip", kind)
}

// buildEntry produces one record's entry. ok=false means the record is
// skipped without a marker: a missing single file, or a combined request
// whose preconditions do not hold.
func (e *Exporter) buildEntry(ctx context.Context, product *models.Product, label string, kind Kind) (Entry, bool, error) {
	var zero Entry
	switch kind {
	case KindCutsheet:
		if ok, err := e.hasStored(ctx, product, models.FileKindCutsheet); err != nil {
			return zero, false, err
		} else if !ok {
			return zero, false, nil
		}
		data, err := e.readStored(ctx, models.FileKindCutsheet, product.CutsheetFilename)
		if err != nil {
			return zero, false, err
		}
		return Entry{Kind: EntryFile, Path: path.Join(label, "cutsheet.pdf"), Data: data}, true, nil

	case KindCert:
		if ok, err := e.hasStored(ctx, product, models.FileKindCert); err != nil {
			return zero, false, err
		} else if !ok {
			return zero, false, nil
		}
		data, err := e.readStored(ctx, models.FileKindCert, product.CertFilename)
		if err != nil {
			return zero, false, err
		}
		ext := strings.ToLower(path.Ext(product.CertFilename))
		return Entry{Kind: EntryFile, Path: path.Join(label, "cert"+ext), Data: data}, true, nil

	case KindCombined:
		if ok, err := e.hasStored(ctx, product, models.FileKindCutsheet); err != nil || !ok {
			return zero, false, err
		}
		if ok, err := e.hasStored(ctx, product, models.FileKindCert); err != nil || !ok {
			return zero, false, err
		}
		cutsheet, err := e.readStored(ctx, models.FileKindCutsheet, product.CutsheetFilename)
		if err != nil {
			return zero, false, err
		}
		cert, err := e.certAsPDF(ctx, product)
		if err != nil {
			return zero, false, err
		}
		combined, err := e.merge([][]byte{cutsheet, cert})
		if err != nil {
			return zero, false, err
		}
		name := fmt.Sprintf("%s-combined.pdf", label)
		return Entry{Kind: EntryFile, Path: path.Join(label, name), Data: combined}, true, nil
	}
	return zero, false, fmt.Errorf("invalid export kind: %s", kind)
}

// archiveLabel derives a filesystem-safe per-record folder name. Labels
// are not de-duplicated: records sharing a label share a path prefix.
func archiveLabel(product *models.Product) string {
	label := strings.ReplaceAll(strings.TrimSpace(product.Label()), "/", "-")
	label = strings.ReplaceAll(label, "\\", "-")
	if label == "" {
		label = fmt.Sprintf("product-%d", product.ID)
	}
	return label
}
