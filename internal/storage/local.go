package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mjmlights57/product-docs-manager/internal/models"
)

var kindDirs = map[models.FileKind]string{
	models.FileKindCutsheet: "cutsheets",
	models.FileKindCert:     "certifications",
	models.FileKindPhoto:    "photos",
}

// Local stores files under a category-partitioned directory tree.
type Local struct {
	root string
}

var _ Store = (*Local)(nil)

// NewLocal creates a local file store rooted at root, creating the
// per-category directories up front.
func NewLocal(root string) (*Local, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("storage root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	for _, dir := range kindDirs {
		if err := os.MkdirAll(filepath.Join(abs, dir), 0o755); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(filepath.Join(abs, "tmp"), 0o755); err != nil {
		return nil, err
	}
	return &Local{root: abs}, nil
}

// Save streams r into a new stored file named after originalName plus a
// random component, and returns the stored name.
func (l *Local) Save(ctx context.Context, kind models.FileKind, originalName string, r io.Reader) (string, error) {
	if l == nil {
		return "", fmt.Errorf("file store is not configured")
	}
	if r == nil {
		return "", fmt.Errorf("reader is required")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dir, err := l.kindDir(kind)
	if err != nil {
		return "", err
	}

	name := UniqueName(originalName)

	tmp, err := os.CreateTemp(filepath.Join(l.root, "tmp"), "save-*")
	if err != nil {
		return "", err
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	if _, err := io.Copy(tmp, r); err != nil {
		cleanup()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", err
	}

	dst := filepath.Join(dir, name)
	if err := os.Rename(tmpPath, dst); err != nil {
		cleanup()
		return "", err
	}
	return name, nil
}

// Exists reports whether the stored file is present on disk.
func (l *Local) Exists(ctx context.Context, kind models.FileKind, name string) (bool, error) {
	if l == nil {
		return false, fmt.Errorf("file store is not configured")
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	path, err := l.pathFor(kind, name)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

// Open returns a reader for the stored file content.
func (l *Local) Open(ctx context.Context, kind models.FileKind, name string) (io.ReadCloser, error) {
	if l == nil {
		return nil, fmt.Errorf("file store is not configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := l.pathFor(kind, name)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// Remove deletes a stored file. Missing files are ignored.
func (l *Local) Remove(ctx context.Context, kind models.FileKind, name string) error {
	if l == nil {
		return fmt.Errorf("file store is not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := l.pathFor(kind, name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// List returns the stored names present for one category.
func (l *Local) List(ctx context.Context, kind models.FileKind) ([]string, error) {
	if l == nil {
		return nil, fmt.Errorf("file store is not configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir, err := l.kindDir(kind)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// Size returns the stored file's byte size.
func (l *Local) Size(ctx context.Context, kind models.FileKind, name string) (int64, error) {
	if l == nil {
		return 0, fmt.Errorf("file store is not configured")
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	path, err := l.pathFor(kind, name)
	if err != nil {
		return 0, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (l *Local) kindDir(kind models.FileKind) (string, error) {
	dir, ok := kindDirs[kind]
	if !ok {
		return "", fmt.Errorf("invalid file kind: %s", kind)
	}
	return filepath.Join(l.root, dir), nil
}

func (l *Local) pathFor(kind models.FileKind, name string) (string, error) {
	dir, err := l.kindDir(kind)
	if err != nil {
		return "", err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("stored name is required")
	}
	clean := filepath.Clean(name)
	if clean != name || clean == "." || filepath.IsAbs(clean) || strings.ContainsRune(clean, filepath.Separator) {
		return "", fmt.Errorf("invalid stored name")
	}
	return filepath.Join(dir, clean), nil
}
