package server

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
)

func (s *Server) handleDownloadFile(w http.ResponseWriter, r *http.Request) {
	s.serveFile(w, r, "attachment")
}

func (s *Server) handlePreviewFile(w http.ResponseWriter, r *http.Request) {
	s.serveFile(w, r, "inline")
}

func (s *Server) serveFile(w http.ResponseWriter, r *http.Request, disposition string) {
	id, ok := s.pathIDOrBadRequest(w, r)
	if !ok {
		return
	}
	kind, err := requirePathFileKind(r)
	if err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, err)
		return
	}

	rc, downloadAs, err := s.service.OpenFile(r.Context(), id, kind)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(filepath.Ext(downloadAs))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, downloadAs))

	if _, err := io.Copy(w, rc); err != nil {
		s.log().Debug("stream stored file", "error", err, "path", r.URL.Path)
	}
}
