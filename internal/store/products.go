package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mjmlights57/product-docs-manager/internal/models"
)

const productColumns = "id, name, COALESCE(model_number, sku, ''), COALESCE(notes, ''), COALESCE(cutsheet_filename, ''), COALESCE(cert_filename, ''), COALESCE(photo_filename, ''), created_at, updated_at"

// ListFilter narrows a product listing.
type ListFilter struct {
	Query   string
	Missing models.FileKind
	Limit   int
	Offset  int
}

// ProductUpdate describes mutable product fields; nil pointers are left
// untouched.
type ProductUpdate struct {
	Name             *string
	ModelNumber      *string
	Notes            *string
	CutsheetFilename *string
	CertFilename     *string
	PhotoFilename    *string
	UpdatedAt        time.Time
}

// CreateProduct inserts a product and assigns its generated id.
func (s *Store) CreateProduct(ctx context.Context, product *models.Product) error {
	if product == nil {
		return fmt.Errorf("product is required")
	}

	// sku mirrors model_number for databases predating the rename.
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO products (
			name, sku, model_number, notes, cutsheet_filename, cert_filename, photo_filename, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		product.Name,
		nullIfEmpty(product.ModelNumber),
		nullIfEmpty(product.ModelNumber),
		nullIfEmpty(product.Notes),
		nullIfEmpty(product.CutsheetFilename),
		nullIfEmpty(product.CertFilename),
		nullIfEmpty(product.PhotoFilename),
		formatTime(product.CreatedAt),
		formatTime(product.UpdatedAt),
	)
	if err != nil {
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	product.ID = id
	return nil
}

// GetProduct returns a product by id, or nil when absent.
func (s *Store) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE id = ?", id)
	return scanProduct(row)
}

// Lookup satisfies the export subsystem's record source contract.
func (s *Store) Lookup(ctx context.Context, id int64) (*models.Product, error) {
	return s.GetProduct(ctx, id)
}

// UpdateProduct updates mutable fields on a product.
func (s *Store) UpdateProduct(ctx context.Context, id int64, update ProductUpdate) error {
	set := []string{}
	args := []any{}

	if update.Name != nil {
		set = append(set, "name = ?")
		args = append(args, *update.Name)
	}
	if update.ModelNumber != nil {
		set = append(set, "model_number = ?", "sku = ?")
		args = append(args, nullIfEmpty(*update.ModelNumber), nullIfEmpty(*update.ModelNumber))
	}
	if update.Notes != nil {
		set = append(set, "notes = ?")
		args = append(args, nullIfEmpty(*update.Notes))
	}
	if update.CutsheetFilename != nil {
		set = append(set, "cutsheet_filename = ?")
		args = append(args, nullIfEmpty(*update.CutsheetFilename))
	}
	if update.CertFilename != nil {
		set = append(set, "cert_filename = ?")
		args = append(args, nullIfEmpty(*update.CertFilename))
	}
	if update.PhotoFilename != nil {
		set = append(set, "photo_filename = ?")
		args = append(args, nullIfEmpty(*update.PhotoFilename))
	}

	set = append(set, "updated_at = ?")
	args = append(args, formatTime(update.UpdatedAt))

	args = append(args, id)
	query := fmt.Sprintf("UPDATE products SET %s WHERE id = ?", strings.Join(set, ", "))
	_, err := s.db.ExecContext(ctx, query, args...)
	return err
}

// DeleteProduct removes a product row. Returns false when the id did not
// resolve.
func (s *Store) DeleteProduct(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// ListProducts returns products matching the provided filter, newest first.
func (s *Store) ListProducts(ctx context.Context, filter ListFilter) ([]models.Product, error) {
	where := []string{}
	args := []any{}

	if q := strings.TrimSpace(filter.Query); q != "" {
		like := "%" + q + "%"
		where = append(where, "(name LIKE ? OR model_number LIKE ? OR sku LIKE ? OR notes LIKE ?)")
		args = append(args, like, like, like, like)
	}
	switch filter.Missing {
	case models.FileKindCutsheet:
		where = append(where, "(cutsheet_filename IS NULL OR cutsheet_filename = '')")
	case models.FileKindCert:
		where = append(where, "(cert_filename IS NULL OR cert_filename = '')")
	case models.FileKindPhoto:
		where = append(where, "(photo_filename IS NULL OR photo_filename = '')")
	}

	query := "SELECT " + productColumns + " FROM products"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *product)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

// ListSelected resolves the requested ids in request order; ids that do
// not resolve are simply absent from the result.
func (s *Store) ListSelected(ctx context.Context, ids []int64) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	query := "SELECT " + productColumns + " FROM products WHERE id IN (" + strings.Join(placeholders, ", ") + ")"
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[int64]models.Product, len(ids))
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		byID[product.ID] = *product
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	products := make([]models.Product, 0, len(byID))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if product, ok := byID[id]; ok {
			products = append(products, product)
		}
	}
	return products, nil
}

// ReferencedFilenames returns every stored-file name the products table
// references for one file kind. Used by the orphan sweep.
func (s *Store) ReferencedFilenames(ctx context.Context, kind models.FileKind) ([]string, error) {
	var column string
	switch kind {
	case models.FileKindCutsheet:
		column = "cutsheet_filename"
	case models.FileKindCert:
		column = "cert_filename"
	case models.FileKindPhoto:
		column = "photo_filename"
	default:
		return nil, fmt.Errorf("invalid file kind: %s", kind)
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("SELECT %s FROM products WHERE %s IS NOT NULL AND %s != ''", column, column, column))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var product models.Product
	var createdAt, updatedAt string

	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.ModelNumber,
		&product.Notes,
		&product.CutsheetFilename,
		&product.CertFilename,
		&product.PhotoFilename,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if product.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if product.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &product, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(value string) (time.Time, error) {
	return time.Parse(time.RFC3339, value)
}

func nullIfEmpty(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
