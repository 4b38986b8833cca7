package server

import "net/http"

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /v1/info", s.handleInfo)

	mux.HandleFunc("POST /v1/products", s.handleCreateProduct)
	mux.HandleFunc("GET /v1/products", s.handleListProducts)
	mux.HandleFunc("GET /v1/products/{id}", s.handleGetProduct)
	mux.HandleFunc("PATCH /v1/products/{id}", s.handleUpdateProduct)
	mux.HandleFunc("DELETE /v1/products/{id}", s.handleDeleteProduct)

	mux.HandleFunc("GET /v1/products/{id}/files/{kind}", s.handleDownloadFile)
	mux.HandleFunc("GET /v1/products/{id}/files/{kind}/preview", s.handlePreviewFile)

	mux.HandleFunc("GET /v1/products/{id}/export/combined", s.handleExportCombined)
	mux.HandleFunc("POST /v1/export/bulk", s.handleExportBulk)
	mux.HandleFunc("GET /v1/export/csv", s.handleExportCSV)

	return mux
}
