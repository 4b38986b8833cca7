package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/mjmlights57/product-docs-manager/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "products.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func seedProduct(t *testing.T, st *Store, name, model string) *models.Product {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Second)
	product := &models.Product{
		Name:        name,
		ModelNumber: model,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := st.CreateProduct(context.Background(), product); err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	return product
}

func TestCreateAndGetProduct(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	created := seedProduct(t, st, "Panel Light", "LX-100")
	if created.ID == 0 {
		t.Fatalf("CreateProduct did not assign an id")
	}

	got, err := st.GetProduct(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if got == nil {
		t.Fatalf("GetProduct returned nil for a known id")
	}
	if got.Name != "Panel Light" || got.ModelNumber != "LX-100" {
		t.Fatalf("got = %+v", got)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Fatalf("timestamps not persisted: %+v", got)
	}
}

func TestGetProductUnknownID(t *testing.T) {
	st := newTestStore(t)

	got, err := st.GetProduct(context.Background(), 9999)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if got != nil {
		t.Fatalf("GetProduct = %+v, want nil for unknown id", got)
	}
}

func TestUpdateProduct(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	product := seedProduct(t, st, "Panel Light", "LX-100")

	name := "Panel Light v2"
	stored := "lx100-new.pdf"
	err := st.UpdateProduct(ctx, product.ID, ProductUpdate{
		Name:             &name,
		CutsheetFilename: &stored,
		UpdatedAt:        time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}

	got, err := st.GetProduct(ctx, product.ID)
	if err != nil || got == nil {
		t.Fatalf("GetProduct: %v, %v", got, err)
	}
	if got.Name != name || got.CutsheetFilename != stored {
		t.Fatalf("got = %+v", got)
	}
	if got.ModelNumber != "LX-100" {
		t.Fatalf("untouched field changed: %+v", got)
	}
}

func TestUpdateProductClearsFieldWithEmptyString(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	product := seedProduct(t, st, "Panel Light", "LX-100")

	empty := ""
	if err := st.UpdateProduct(ctx, product.ID, ProductUpdate{Notes: &empty, UpdatedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}

	got, _ := st.GetProduct(ctx, product.ID)
	if got.Notes != "" {
		t.Fatalf("Notes = %q, want empty", got.Notes)
	}
}

func TestDeleteProduct(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	product := seedProduct(t, st, "Panel Light", "LX-100")

	deleted, err := st.DeleteProduct(ctx, product.ID)
	if err != nil || !deleted {
		t.Fatalf("DeleteProduct = %v, %v; want true", deleted, err)
	}

	deleted, err = st.DeleteProduct(ctx, product.ID)
	if err != nil || deleted {
		t.Fatalf("second DeleteProduct = %v, %v; want false", deleted, err)
	}
}

func TestProductExists(t *testing.T) {
	st := newTestStore(t)

	product := seedProduct(t, st, "Panel Light", "LX-100")

	ok, err := st.ProductExists(product.ID)
	if err != nil || !ok {
		t.Fatalf("ProductExists = %v, %v; want true", ok, err)
	}
	ok, err = st.ProductExists(9999)
	if err != nil || ok {
		t.Fatalf("ProductExists(9999) = %v, %v; want false", ok, err)
	}
}
