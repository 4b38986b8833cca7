package server

import (
	"net/http"

	"github.com/mjmlights57/product-docs-manager/internal/api"
)

const appName = "productdocs"

// Version is stamped by the build; "dev" otherwise.
var Version = "dev"

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, api.HealthResponse{Status: "ok"})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, api.InfoResponse{Name: appName, Version: Version})
}
