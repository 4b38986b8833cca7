// Package export builds single combined documents and bulk ZIP archives
// from product records and their stored files. It reads records and files
// through narrow collaborator interfaces and never mutates storage.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mjmlights57/product-docs-manager/internal/models"
	"github.com/mjmlights57/product-docs-manager/internal/pdf"
	"github.com/mjmlights57/product-docs-manager/internal/storage"
)

// Kind selects what a bulk export produces per record.
type Kind string

const (
	KindCutsheet Kind = "cutsheet"
	KindCert     Kind = "cert"
	KindCombined Kind = "combined"
)

var validKinds = map[Kind]struct{}{
	KindCutsheet: {},
	KindCert:     {},
	KindCombined: {},
}

// ParseKind validates a raw export kind value.
func ParseKind(raw string) (Kind, error) {
	value := Kind(strings.ToLower(strings.TrimSpace(raw)))
	if value == "" {
		return "", fmt.Errorf("export kind is required")
	}
	if _, ok := validKinds[value]; !ok {
		return "", fmt.Errorf("invalid export kind: %s", value)
	}
	return value, nil
}

var (
	// ErrDocumentMissing reports a combined export whose cut sheet is absent.
	ErrDocumentMissing = errors.New("cutsheet is required to create combined file")
	// ErrCertificationMissing reports a combined export whose certification is absent.
	ErrCertificationMissing = errors.New("certification file is required to create combined file")
	// ErrNoRecordsSelected reports a bulk export with an empty id set.
	ErrNoRecordsSelected = errors.New("no products selected")
)

// RecordSource is the record-management collaborator contract the export
// subsystem depends on. Lookup returns (nil, nil) for unknown ids;
// ListSelected simply omits ids that do not resolve.
type RecordSource interface {
	Lookup(ctx context.Context, id int64) (*models.Product, error)
	ListSelected(ctx context.Context, ids []int64) ([]models.Product, error)
}

// Exporter assembles combined documents and bulk archives.
type Exporter struct {
	records RecordSource
	files   storage.Reader

	// Swappable for tests; default to the pdf package.
	merge     func([][]byte) ([]byte, error)
	normalize func([]byte) ([]byte, error)
}

// New creates an Exporter over the given collaborators.
func New(records RecordSource, files storage.Reader) *Exporter {
	return &Exporter{
		records:   records,
		files:     files,
		merge:     pdf.Merge,
		normalize: pdf.NormalizeImage,
	}
}

// Combined builds one record's combined document: the cut sheet verbatim,
// then the certification (converted from image form when needed). The
// cut-sheet-first ordering is a contract with downstream consumers.
func (e *Exporter) Combined(ctx context.Context, product *models.Product) ([]byte, error) {
	if e == nil || e.files == nil {
		return nil, fmt.Errorf("exporter is not configured")
	}
	if product == nil {
		return nil, fmt.Errorf("product is required")
	}

	if ok, _ := e.hasStored(ctx, product, models.FileKindCutsheet); !ok {
		return nil, ErrDocumentMissing
	}
	if ok, _ := e.hasStored(ctx, product, models.FileKindCert); !ok {
		return nil, ErrCertificationMissing
	}

	cutsheet, err := e.readStored(ctx, models.FileKindCutsheet, product.CutsheetFilename)
	if err != nil {
		return nil, err
	}
	cert, err := e.certAsPDF(ctx, product)
	if err != nil {
		return nil, err
	}

	return e.merge([][]byte{cutsheet, cert})
}

// CombinedFilename returns the download name for a combined document.
func CombinedFilename(product *models.Product) string {
	return product.Label() + "-combined.pdf"
}

// certAsPDF reads the certification in document form, converting a stored
// image through the normalizer.
func (e *Exporter) certAsPDF(ctx context.Context, product *models.Product) ([]byte, error) {
	raw, err := e.readStored(ctx, models.FileKindCert, product.CertFilename)
	if err != nil {
		return nil, err
	}
	if product.CertIsPDF() {
		return raw, nil
	}
	return e.normalize(raw)
}

// hasStored reports whether the record's file reference for kind resolves
// to a stored file on the medium. A reference whose target is gone counts
// as absent.
func (e *Exporter) hasStored(ctx context.Context, product *models.Product, kind models.FileKind) (bool, error) {
	name := product.Filename(kind)
	if name == "" {
		return false, nil
	}
	return e.files.Exists(ctx, kind, name)
}

func (e *Exporter) readStored(ctx context.Context, kind models.FileKind, name string) ([]byte, error) {
	rc, err := e.files.Open(ctx, kind, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
