package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/mjmlights57/product-docs-manager/internal/api"
	"github.com/mjmlights57/product-docs-manager/internal/models"
	"github.com/mjmlights57/product-docs-manager/internal/store"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

var uploadFields = []models.FileKind{
	models.FileKindCutsheet,
	models.FileKindCert,
	models.FileKindPhoto,
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	form, files, ok := s.parseMultipart(w, r)
	if !ok {
		return
	}

	product, err := s.service.Create(r.Context(), ProductCreate{
		Name:        form("name"),
		ModelNumber: form("model_number"),
		Notes:       form("notes"),
		Files:       files,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, api.NewProductResponse(*product))
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r)
	if !ok {
		return
	}

	product, err := s.service.Get(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.NewProductResponse(*product))
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r)
	if !ok {
		return
	}

	form, files, ok := s.parseMultipart(w, r)
	if !ok {
		return
	}

	patch := ProductPatch{Files: files}
	if r.MultipartForm != nil {
		if _, present := r.MultipartForm.Value["name"]; present {
			v := form("name")
			patch.Name = &v
		}
		if _, present := r.MultipartForm.Value["model_number"]; present {
			v := form("model_number")
			patch.ModelNumber = &v
		}
		if _, present := r.MultipartForm.Value["notes"]; present {
			v := form("notes")
			patch.Notes = &v
		}
	}

	product, err := s.service.Update(r.Context(), id, patch)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.NewProductResponse(*product))
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r)
	if !ok {
		return
	}

	if err := s.service.Delete(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	filter := store.ListFilter{Query: strings.TrimSpace(r.URL.Query().Get("q"))}

	if raw := strings.TrimSpace(r.URL.Query().Get("missing")); raw != "" {
		kind, err := models.ParseFileKind(raw)
		if err != nil {
			s.writeErrorReq(w, r, http.StatusBadRequest, badRequestCode(err, ErrCodeInvalidQuery))
			return
		}
		filter.Missing = kind
	}

	limit, err := queryIntDefault(r, "limit", defaultListLimit)
	if err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, err)
		return
	}
	if limit == 0 || limit > maxListLimit {
		limit = maxListLimit
	}
	filter.Limit = limit

	if filter.Offset, err = queryIntDefault(r, "offset", 0); err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, err)
		return
	}

	products, err := s.service.List(r.Context(), filter)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	resp := api.ProductListResponse{Products: make([]api.ProductResponse, 0, len(products)), Count: len(products)}
	for _, product := range products {
		resp.Products = append(resp.Products, api.NewProductResponse(product))
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// parseMultipart reads the form fields and the three optional file slots.
// The whole body is capped at the configured upload limit.
func (s *Server) parseMultipart(w http.ResponseWriter, r *http.Request) (func(string) string, map[models.FileKind]*FileUpload, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.uploads.MaxUploadBytes)

	if err := r.ParseMultipartForm(s.uploads.MultipartMaxMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			s.writeErrorReq(w, r, http.StatusBadRequest, requestEntityTooLarge())
		} else {
			s.writeErrorReq(w, r, http.StatusBadRequest, badRequest(fmt.Errorf("invalid multipart form: %w", err)))
		}
		return nil, nil, false
	}

	files := map[models.FileKind]*FileUpload{}
	for _, kind := range uploadFields {
		upload, err := readFormFile(r, string(kind))
		if err != nil {
			s.writeErrorReq(w, r, http.StatusBadRequest, badRequest(err))
			return nil, nil, false
		}
		if upload != nil {
			files[kind] = upload
		}
	}

	form := func(key string) string {
		return strings.TrimSpace(r.FormValue(key))
	}
	return form, files, true
}

func readFormFile(r *http.Request, field string) (*FileUpload, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s upload: %w", field, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read %s upload: %w", field, err)
	}
	return &FileUpload{Filename: headerFilename(header), Data: data}, nil
}

func headerFilename(header *multipart.FileHeader) string {
	if header == nil {
		return ""
	}
	return header.Filename
}
