package store

import (
	"context"

	"github.com/mjmlights57/product-docs-manager/internal/models"
)

// ProductStore is the persistence surface the server services depend on.
// *Store implements it; tests may substitute fakes.
type ProductStore interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	Lookup(ctx context.Context, id int64) (*models.Product, error)
	UpdateProduct(ctx context.Context, id int64, update ProductUpdate) error
	DeleteProduct(ctx context.Context, id int64) (bool, error)
	ListProducts(ctx context.Context, filter ListFilter) ([]models.Product, error)
	ListSelected(ctx context.Context, ids []int64) ([]models.Product, error)
	ReferencedFilenames(ctx context.Context, kind models.FileKind) ([]string, error)
	ProductExists(id int64) (bool, error)
}

var _ ProductStore = (*Store)(nil)
