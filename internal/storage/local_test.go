package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mjmlights57/product-docs-manager/internal/models"
)

func newTestLocal(t *testing.T) *Local {
	t.Helper()
	local, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	return local
}

func TestNewLocalCreatesCategoryDirs(t *testing.T) {
	root := t.TempDir()
	if _, err := NewLocal(root); err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	for _, dir := range []string{"cutsheets", "certifications", "photos", "tmp"} {
		info, err := os.Stat(filepath.Join(root, dir))
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s: %v", dir, err)
		}
	}
}

func TestNewLocalRequiresRoot(t *testing.T) {
	if _, err := NewLocal("  "); err == nil {
		t.Fatalf("NewLocal accepted an empty root")
	}
}

func TestLocalSaveRoundTrip(t *testing.T) {
	ctx := context.Background()
	local := newTestLocal(t)

	name, err := local.Save(ctx, models.FileKindCutsheet, "spec sheet.pdf", strings.NewReader("pdf bytes"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasPrefix(name, "spec-sheet-") || !strings.HasSuffix(name, ".pdf") {
		t.Fatalf("stored name %q does not follow the naming scheme", name)
	}

	ok, err := local.Exists(ctx, models.FileKindCutsheet, name)
	if err != nil || !ok {
		t.Fatalf("Exists = %v, %v; want true", ok, err)
	}

	rc, err := local.Open(ctx, models.FileKindCutsheet, name)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil || string(data) != "pdf bytes" {
		t.Fatalf("read back %q, %v; want %q", data, err, "pdf bytes")
	}

	size, err := local.Size(ctx, models.FileKindCutsheet, name)
	if err != nil || size != int64(len("pdf bytes")) {
		t.Fatalf("Size = %d, %v; want %d", size, err, len("pdf bytes"))
	}
}

func TestLocalKindsAreIsolated(t *testing.T) {
	ctx := context.Background()
	local := newTestLocal(t)

	name, err := local.Save(ctx, models.FileKindCert, "cert.png", strings.NewReader("png"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if ok, _ := local.Exists(ctx, models.FileKindCutsheet, name); ok {
		t.Fatalf("cert file visible under the cutsheet category")
	}
}

func TestLocalRemove(t *testing.T) {
	ctx := context.Background()
	local := newTestLocal(t)

	name, err := local.Save(ctx, models.FileKindPhoto, "p.png", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := local.Remove(ctx, models.FileKindPhoto, name); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if ok, _ := local.Exists(ctx, models.FileKindPhoto, name); ok {
		t.Fatalf("file still exists after Remove")
	}

	// Removing again is not an error.
	if err := local.Remove(ctx, models.FileKindPhoto, name); err != nil {
		t.Fatalf("second Remove: %v", err)
	}
}

func TestLocalList(t *testing.T) {
	ctx := context.Background()
	local := newTestLocal(t)

	a, _ := local.Save(ctx, models.FileKindCutsheet, "a.pdf", strings.NewReader("a"))
	b, _ := local.Save(ctx, models.FileKindCutsheet, "b.pdf", strings.NewReader("b"))

	names, err := local.List(ctx, models.FileKindCutsheet)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	found := map[string]bool{}
	for _, name := range names {
		found[name] = true
	}
	if len(names) != 2 || !found[a] || !found[b] {
		t.Fatalf("List = %v, want [%s %s]", names, a, b)
	}
}

func TestLocalRejectsTraversalNames(t *testing.T) {
	ctx := context.Background()
	local := newTestLocal(t)

	for _, name := range []string{"", "..", "../x", "a/b", "/etc/passwd", "./x"} {
		if _, err := local.Open(ctx, models.FileKindCutsheet, name); err == nil {
			t.Fatalf("Open accepted stored name %q", name)
		}
	}
}

func TestLocalInvalidKind(t *testing.T) {
	ctx := context.Background()
	local := newTestLocal(t)

	if _, err := local.Save(ctx, models.FileKind("bogus"), "a.pdf", strings.NewReader("a")); err == nil {
		t.Fatalf("Save accepted an invalid kind")
	}
	if _, err := local.List(ctx, models.FileKind("bogus")); err == nil {
		t.Fatalf("List accepted an invalid kind")
	}
}
