package server

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/mjmlights57/product-docs-manager/internal/api"
	"github.com/mjmlights57/product-docs-manager/internal/export"
	"github.com/mjmlights57/product-docs-manager/internal/store"
)

func (s *Server) handleExportCombined(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r)
	if !ok {
		return
	}

	product, err := s.service.Get(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	data, err := s.exporter.Combined(r.Context(), product)
	if err != nil {
		s.writeServiceError(w, r, classifyExportError(err))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.CombinedFilename(product)))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if _, err := w.Write(data); err != nil {
		s.log().Debug("stream combined document", "error", err, "product_id", id)
	}
}

func (s *Server) handleExportBulk(w http.ResponseWriter, r *http.Request) {
	if !s.acquireLimiter(s.exportLimiter, w, r, "export") {
		return
	}
	defer s.releaseLimiter(s.exportLimiter)

	var req api.BulkExportRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	kind, err := export.ParseKind(req.Kind)
	if err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, badRequestCode(err, ErrCodeInvalidExportKind))
		return
	}

	archive, err := s.exporter.BuildArchive(r.Context(), req.IDs, kind)
	if err != nil {
		s.writeServiceError(w, r, classifyExportError(err))
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.ArchiveFilename(kind)))
	w.Header().Set("Content-Length", strconv.Itoa(len(archive)))
	if _, err := w.Write(archive); err != nil {
		s.log().Debug("stream bulk archive", "error", err, "kind", string(kind))
	}
}

var csvHeader = []string{
	"id", "name", "model_number", "notes",
	"cutsheet_filename", "cert_filename", "photo_filename",
	"created_at", "updated_at",
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	products, err := s.service.List(r.Context(), store.ListFilter{})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="products.csv"`)

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		s.log().Debug("write csv export", "error", err)
		return
	}
	for _, product := range products {
		row := []string{
			strconv.FormatInt(product.ID, 10),
			product.Name,
			product.ModelNumber,
			product.Notes,
			product.CutsheetFilename,
			product.CertFilename,
			product.PhotoFilename,
			product.CreatedAt.UTC().Format(time.RFC3339),
			product.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			s.log().Debug("write csv export", "error", err)
			return
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		s.log().Debug("write csv export", "error", err)
	}
}

// classifyExportError maps export sentinels onto API errors.
func classifyExportError(err error) error {
	switch {
	case errors.Is(err, export.ErrDocumentMissing):
		return notFoundCode(err, ErrCodeDocumentMissing)
	case errors.Is(err, export.ErrCertificationMissing):
		return notFoundCode(err, ErrCodeCertificationMissing)
	case errors.Is(err, export.ErrNoRecordsSelected):
		return badRequestCode(err, ErrCodeNoRecordsSelected)
	default:
		return exportFailed(err)
	}
}
