package server

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/mjmlights57/product-docs-manager/internal/models"
	"github.com/mjmlights57/product-docs-manager/internal/storage"
	"github.com/mjmlights57/product-docs-manager/internal/store"
)

// FileUpload is one incoming file for a product slot.
type FileUpload struct {
	Filename string
	Data     []byte
}

// ProductCreate carries the fields and files for a new product.
type ProductCreate struct {
	Name        string
	ModelNumber string
	Notes       string
	Files       map[models.FileKind]*FileUpload
}

// ProductPatch carries partial field updates plus file replacements.
type ProductPatch struct {
	Name        *string
	ModelNumber *string
	Notes       *string
	Files       map[models.FileKind]*FileUpload
}

// ProductService implements product CRUD plus stored-file lifecycle on top
// of the store and the file store. Handlers call it; it owns the rule that
// a replaced or deleted record never leaves its old files behind.
type ProductService struct {
	store store.ProductStore
	files storage.Store
	now   func() time.Time
}

// NewProductService creates a product service.
func NewProductService(productStore store.ProductStore, files storage.Store) *ProductService {
	return &ProductService{
		store: productStore,
		files: files,
		now:   time.Now,
	}
}

// Create validates and persists a new product, saving any uploaded files.
func (s *ProductService) Create(ctx context.Context, in ProductCreate) (*models.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, badRequestCode(fmt.Errorf("name is required"), ErrCodeMissingRequired)
	}

	for kind, upload := range in.Files {
		if err := validateUpload(kind, upload); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	product := &models.Product{
		Name:        name,
		ModelNumber: strings.TrimSpace(in.ModelNumber),
		Notes:       strings.TrimSpace(in.Notes),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	saved, err := s.saveUploads(ctx, in.Files)
	if err != nil {
		s.removeStored(ctx, saved)
		return nil, err
	}
	for kind, stored := range saved {
		product.SetFilename(kind, stored)
	}

	if err := s.store.CreateProduct(ctx, product); err != nil {
		s.removeStored(ctx, saved)
		return nil, storeFailure(err)
	}
	return product, nil
}

// Get returns one product or a not-found error.
func (s *ProductService) Get(ctx context.Context, id int64) (*models.Product, error) {
	product, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return nil, storeFailure(err)
	}
	if product == nil {
		return nil, notFoundCode(fmt.Errorf("product %d not found", id), ErrCodeProductNotFound)
	}
	return product, nil
}

// List returns products matching the filter.
func (s *ProductService) List(ctx context.Context, filter store.ListFilter) ([]models.Product, error) {
	products, err := s.store.ListProducts(ctx, filter)
	if err != nil {
		return nil, storeFailure(err)
	}
	return products, nil
}

// Update applies a partial update. A file replacement saves the new file
// first, then updates the row, then removes the displaced stored file.
func (s *ProductService) Update(ctx context.Context, id int64, patch ProductPatch) (*models.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, badRequestCode(fmt.Errorf("name cannot be empty"), ErrCodeMissingRequired)
	}
	for kind, upload := range patch.Files {
		if err := validateUpload(kind, upload); err != nil {
			return nil, err
		}
	}

	saved, err := s.saveUploads(ctx, patch.Files)
	if err != nil {
		s.removeStored(ctx, saved)
		return nil, err
	}

	update := store.ProductUpdate{UpdatedAt: s.now().UTC()}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		update.Name = &name
	}
	if patch.ModelNumber != nil {
		model := strings.TrimSpace(*patch.ModelNumber)
		update.ModelNumber = &model
	}
	if patch.Notes != nil {
		notes := strings.TrimSpace(*patch.Notes)
		update.Notes = &notes
	}

	displaced := map[models.FileKind]string{}
	for kind, stored := range saved {
		if old := product.Filename(kind); old != "" {
			displaced[kind] = old
		}
		name := stored
		switch kind {
		case models.FileKindCutsheet:
			update.CutsheetFilename = &name
		case models.FileKindCert:
			update.CertFilename = &name
		case models.FileKindPhoto:
			update.PhotoFilename = &name
		}
	}

	if err := s.store.UpdateProduct(ctx, id, update); err != nil {
		s.removeStored(ctx, saved)
		return nil, storeFailure(err)
	}

	// The row no longer references these; removal failures only strand
	// bytes the gc sweep reclaims later.
	s.removeStored(ctx, displaced)

	return s.Get(ctx, id)
}

// Delete removes a product and best-effort removes its stored files.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	product, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	deleted, err := s.store.DeleteProduct(ctx, id)
	if err != nil {
		return storeFailure(err)
	}
	if !deleted {
		return notFoundCode(fmt.Errorf("product %d not found", id), ErrCodeProductNotFound)
	}

	stored := map[models.FileKind]string{}
	for _, kind := range []models.FileKind{models.FileKindCutsheet, models.FileKindCert, models.FileKindPhoto} {
		if name := product.Filename(kind); name != "" {
			stored[kind] = name
		}
	}
	s.removeStored(ctx, stored)
	return nil
}

// OpenFile opens a product's stored file for download or preview. The
// returned download name is label-based, not the stored name.
func (s *ProductService) OpenFile(ctx context.Context, id int64, kind models.FileKind) (io.ReadCloser, string, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}

	name := product.Filename(kind)
	if name == "" {
		return nil, "", notFoundCode(fmt.Errorf("product %d has no %s", id, kind), ErrCodeFileNotFound)
	}
	if ok, err := s.files.Exists(ctx, kind, name); err != nil {
		return nil, "", internalError(err)
	} else if !ok {
		return nil, "", notFoundCode(fmt.Errorf("stored %s for product %d is missing", kind, id), ErrCodeFileNotFound)
	}

	rc, err := s.files.Open(ctx, kind, name)
	if err != nil {
		return nil, "", internalError(err)
	}
	return rc, downloadName(product, kind, name), nil
}

func (s *ProductService) saveUploads(ctx context.Context, uploads map[models.FileKind]*FileUpload) (map[models.FileKind]string, error) {
	saved := map[models.FileKind]string{}
	for kind, upload := range uploads {
		if upload == nil {
			continue
		}
		stored, err := s.files.Save(ctx, kind, upload.Filename, bytes.NewReader(upload.Data))
		if err != nil {
			return saved, internalError(err)
		}
		saved[kind] = stored
	}
	return saved, nil
}

func (s *ProductService) removeStored(ctx context.Context, stored map[models.FileKind]string) {
	for kind, name := range stored {
		_ = s.files.Remove(ctx, kind, name)
	}
}

// downloadName builds the user-facing filename for a stored file.
func downloadName(product *models.Product, kind models.FileKind, storedName string) string {
	label := strings.ReplaceAll(product.Label(), "/", "-")
	if label == "" {
		label = fmt.Sprintf("product-%d", product.ID)
	}
	ext := strings.ToLower(filepath.Ext(storedName))
	return fmt.Sprintf("%s-%s%s", label, kind, ext)
}

// acceptedMIMEs maps each slot to the content types its extensions imply.
var acceptedMIMEs = map[models.FileKind][]string{
	models.FileKindCutsheet: {"application/pdf"},
	models.FileKindCert:     {"application/pdf", "image/png", "image/jpeg"},
	models.FileKindPhoto:    {"image/png", "image/jpeg", "image/webp"},
}

// validateUpload checks the extension against the slot's allow-list and
// sniffs the content so a mislabeled file cannot enter storage.
func validateUpload(kind models.FileKind, upload *FileUpload) error {
	if upload == nil {
		return nil
	}
	if len(upload.Data) == 0 {
		return badRequestCode(fmt.Errorf("%s file is empty", kind), ErrCodeInvalidFileType)
	}

	ext := strings.ToLower(filepath.Ext(upload.Filename))
	if !models.AllowedExtension(kind, ext) {
		return badRequestCode(fmt.Errorf("file type %q is not allowed for %s", ext, kind), ErrCodeInvalidFileType)
	}

	detected := mimetype.Detect(upload.Data)
	for _, accepted := range acceptedMIMEs[kind] {
		if detected.Is(accepted) {
			return nil
		}
	}
	return badRequestCode(fmt.Errorf("%s content is %s, which does not match %s", kind, detected.String(), ext), ErrCodeMediaTypeMismatch)
}

// requestEntityTooLarge maps an oversized upload to 400 with the dedicated
// code, mirroring the JSON body path.
func requestEntityTooLarge() error {
	return makeAPIError(http.StatusBadRequest, "invalid_argument", ErrCodeRequestTooLarge, fmt.Errorf("upload exceeds the size limit"))
}
