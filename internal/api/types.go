// Package api defines the wire types shared by the HTTP handlers.
package api

import (
	"github.com/mjmlights57/product-docs-manager/internal/models"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	ErrorCode int    `json:"error_code,omitempty"`
}

// ProductResponse is one product plus file-presence conveniences.
type ProductResponse struct {
	models.Product
	Label       string `json:"label"`
	HasCutsheet bool   `json:"has_cutsheet"`
	HasCert     bool   `json:"has_cert"`
	HasPhoto    bool   `json:"has_photo"`
}

// ProductListResponse wraps a product listing.
type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Count    int               `json:"count"`
}

// BulkExportRequest selects records and the per-record output kind.
type BulkExportRequest struct {
	IDs  []int64 `json:"ids"`
	Kind string  `json:"kind"`
}

// InfoResponse reports server build information.
type InfoResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// HealthResponse reports liveness.
type HealthResponse struct {
	Status string `json:"status"`
}

// NewProductResponse maps a product to its response shape.
func NewProductResponse(product models.Product) ProductResponse {
	return ProductResponse{
		Product:     product,
		Label:       product.Label(),
		HasCutsheet: product.HasFile(models.FileKindCutsheet),
		HasCert:     product.HasFile(models.FileKindCert),
		HasPhoto:    product.HasFile(models.FileKindPhoto),
	}
}
