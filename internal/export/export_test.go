package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/mjmlights57/product-docs-manager/internal/models"
)

type fakeRecords struct {
	products map[int64]models.Product
}

func (f *fakeRecords) Lookup(ctx context.Context, id int64) (*models.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return nil, nil
	}
	return &product, nil
}

func (f *fakeRecords) ListSelected(ctx context.Context, ids []int64) ([]models.Product, error) {
	var out []models.Product
	seen := map[int64]struct{}{}
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if product, ok := f.products[id]; ok {
			out = append(out, product)
		}
	}
	return out, nil
}

type fakeFiles struct {
	content   map[models.FileKind]map[string][]byte
	existsErr error
	openErr   error
}

func (f *fakeFiles) Exists(ctx context.Context, kind models.FileKind, name string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.content[kind][name]
	return ok, nil
}

func (f *fakeFiles) Open(ctx context.Context, kind models.FileKind, name string) (io.ReadCloser, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	data, ok := f.content[kind][name]
	if !ok {
		return nil, fmt.Errorf("no stored file %s/%s", kind, name)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func testProduct(id int64, model, cutsheet, cert string) models.Product {
	return models.Product{
		ID:               id,
		Name:             fmt.Sprintf("Product %d", id),
		ModelNumber:      model,
		CutsheetFilename: cutsheet,
		CertFilename:     cert,
	}
}

func testFixtures() (*fakeRecords, *fakeFiles) {
	records := &fakeRecords{products: map[int64]models.Product{
		1: testProduct(1, "LX-100", "lx100-abc.pdf", "lx100-cert-abc.pdf"),
		2: testProduct(2, "LX-200", "lx200-abc.pdf", ""),
		3: testProduct(3, "LX-300", "", ""),
		4: testProduct(4, "LX-400", "lx400-abc.pdf", "lx400-cert-abc.png"),
	}}
	files := &fakeFiles{content: map[models.FileKind]map[string][]byte{
		models.FileKindCutsheet: {
			"lx100-abc.pdf": []byte("doc-1"),
			"lx200-abc.pdf": []byte("doc-2"),
			"lx400-abc.pdf": []byte("doc-4"),
		},
		models.FileKindCert: {
			"lx100-cert-abc.pdf": []byte("cert-1"),
			"lx400-cert-abc.png": []byte("cert-4-image"),
		},
	}}
	return records, files
}

func TestCombinedMergesCutsheetThenCert(t *testing.T) {
	records, files := testFixtures()
	e := New(records, files)

	var mergedInputs [][]byte
	e.merge = func(inputs [][]byte) ([]byte, error) {
		mergedInputs = inputs
		return []byte("merged"), nil
	}

	product, _ := records.Lookup(context.Background(), 1)
	out, err := e.Combined(context.Background(), product)
	if err != nil {
		t.Fatalf("Combined: %v", err)
	}
	if string(out) != "merged" {
		t.Fatalf("output = %q, want merge result", out)
	}

	if len(mergedInputs) != 2 {
		t.Fatalf("merge received %d inputs, want 2", len(mergedInputs))
	}
	if string(mergedInputs[0]) != "doc-1" {
		t.Fatalf("first merge input = %q, want the cut sheet", mergedInputs[0])
	}
	if string(mergedInputs[1]) != "cert-1" {
		t.Fatalf("second merge input = %q, want the certification", mergedInputs[1])
	}
}

func TestCombinedNormalizesImageCert(t *testing.T) {
	records, files := testFixtures()
	e := New(records, files)

	e.normalize = func(raw []byte) ([]byte, error) {
		if string(raw) != "cert-4-image" {
			t.Fatalf("normalize received %q, want the stored image", raw)
		}
		return []byte("cert-4-pdf"), nil
	}
	var mergedInputs [][]byte
	e.merge = func(inputs [][]byte) ([]byte, error) {
		mergedInputs = inputs
		return []byte("merged"), nil
	}

	product, _ := records.Lookup(context.Background(), 4)
	if _, err := e.Combined(context.Background(), product); err != nil {
		t.Fatalf("Combined: %v", err)
	}
	if len(mergedInputs) != 2 || string(mergedInputs[1]) != "cert-4-pdf" {
		t.Fatalf("merge inputs = %v, want normalized certification second", mergedInputs)
	}
}

func TestCombinedPDFCertSkipsNormalization(t *testing.T) {
	records, files := testFixtures()
	e := New(records, files)

	e.normalize = func([]byte) ([]byte, error) {
		t.Fatalf("normalize called for a PDF certification")
		return nil, nil
	}
	e.merge = func(inputs [][]byte) ([]byte, error) { return []byte("merged"), nil }

	product, _ := records.Lookup(context.Background(), 1)
	if _, err := e.Combined(context.Background(), product); err != nil {
		t.Fatalf("Combined: %v", err)
	}
}

func TestCombinedMissingFiles(t *testing.T) {
	records, files := testFixtures()
	e := New(records, files)
	ctx := context.Background()

	product, _ := records.Lookup(ctx, 2)
	if _, err := e.Combined(ctx, product); !errors.Is(err, ErrCertificationMissing) {
		t.Fatalf("error = %v, want ErrCertificationMissing", err)
	}

	product, _ = records.Lookup(ctx, 3)
	if _, err := e.Combined(ctx, product); !errors.Is(err, ErrDocumentMissing) {
		t.Fatalf("error = %v, want ErrDocumentMissing", err)
	}
}

func TestCombinedDanglingReferenceCountsAsMissing(t *testing.T) {
	records, files := testFixtures()
	// Reference stays on the record but the stored file is gone.
	delete(files.content[models.FileKindCutsheet], "lx100-abc.pdf")

	e := New(records, files)
	product, _ := records.Lookup(context.Background(), 1)
	if _, err := e.Combined(context.Background(), product); !errors.Is(err, ErrDocumentMissing) {
		t.Fatalf("error = %v, want ErrDocumentMissing", err)
	}
}

func TestCombinedFilename(t *testing.T) {
	product := testProduct(1, "LX-100", "a.pdf", "b.pdf")
	if got := CombinedFilename(&product); got != "LX-100-combined.pdf" {
		t.Fatalf("CombinedFilename = %q", got)
	}

	product.ModelNumber = ""
	if got := CombinedFilename(&product); got != "Product 1-combined.pdf" {
		t.Fatalf("CombinedFilename without model number = %q", got)
	}
}

func TestParseKind(t *testing.T) {
	for raw, want := range map[string]Kind{
		"cutsheet":   KindCutsheet,
		"CERT":       KindCert,
		" combined ": KindCombined,
	} {
		got, err := ParseKind(raw)
		if err != nil || got != want {
			t.Fatalf("ParseKind(%q) = %v, %v; want %v", raw, got, err, want)
		}
	}

	for _, raw := range []string{"", "photo", "zip"} {
		if _, err := ParseKind(raw); err == nil {
			t.Fatalf("ParseKind(%q) accepted an invalid kind", raw)
		}
	}
}
