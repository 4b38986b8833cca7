package storage

import (
	"context"
	"io"

	"github.com/mjmlights57/product-docs-manager/internal/models"
)

// Reader is the read-only view of stored files. The export subsystem
// depends on this interface only, so tests can drive it with a fake.
type Reader interface {
	Exists(ctx context.Context, kind models.FileKind, name string) (bool, error)
	Open(ctx context.Context, kind models.FileKind, name string) (io.ReadCloser, error)
}

// Store is the full file-store abstraction used by the product service.
// Stored files are immutable: replacement writes a new name and the owning
// service removes the old one.
type Store interface {
	Reader
	Save(ctx context.Context, kind models.FileKind, originalName string, r io.Reader) (string, error)
	Remove(ctx context.Context, kind models.FileKind, name string) error
	List(ctx context.Context, kind models.FileKind) ([]string, error)
	Size(ctx context.Context, kind models.FileKind, name string) (int64, error)
}
