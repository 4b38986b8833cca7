package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/mjmlights57/product-docs-manager/internal/api"
	"github.com/mjmlights57/product-docs-manager/internal/models"
)

const defaultJSONMaxBody = 1 << 20 // 1 MiB

func (s *Server) writeErrorReq(w http.ResponseWriter, r *http.Request, status int, err error) {
	if err == nil {
		err = errors.New(http.StatusText(status))
	}

	code := errorCode(status, err)
	numericCode := errorNumericCode(status, err)
	message := err.Error()

	fields := []any{"status", status, "code", code, "error_code", numericCode, "error", err}
	if r != nil {
		fields = append(fields, "method", r.Method, "path", r.URL.Path, "remote_addr", r.RemoteAddr)
	}

	switch {
	case status >= 500:
		s.log().Error("request error", fields...)
		message = "internal error"
	case status == http.StatusTooManyRequests:
		s.log().Warn("request rejected", fields...)
	case status >= 400:
		s.log().Debug("request rejected", fields...)
	}

	s.writeJSON(w, status, api.ErrorResponse{Error: message, Code: code, ErrorCode: numericCode})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("write json response", "status", status, "error", err)
	}
}

type apiError struct {
	status  int
	code    string
	errCode int
	err     error
}

func (e apiError) Error() string {
	if e.err == nil {
		return ""
	}
	return e.err.Error()
}

func (e apiError) Unwrap() error {
	return e.err
}

func makeAPIError(status int, code string, errCode int, err error) error {
	if err == nil {
		err = errors.New(http.StatusText(status))
	}

	var existing apiError
	if errors.As(err, &existing) {
		if existing.status != 0 {
			return existing
		}
	}

	return apiError{status: status, code: code, errCode: errCode, err: err}
}

func badRequest(err error) error {
	return badRequestCode(err, ErrCodeInvalidArgument)
}

func badRequestCode(err error, code int) error {
	return makeAPIError(http.StatusBadRequest, "invalid_argument", code, err)
}

func notFoundCode(err error, code int) error {
	return makeAPIError(http.StatusNotFound, "not_found", code, err)
}

func internalError(err error) error {
	return makeAPIError(http.StatusInternalServerError, "internal", ErrCodeInternal, err)
}

func storeFailure(err error) error {
	return makeAPIError(http.StatusInternalServerError, "internal", ErrCodeStoreFailure, err)
}

func exportFailed(err error) error {
	return makeAPIError(http.StatusInternalServerError, "internal", ErrCodeExportFailed, err)
}

func httpStatusFromError(err error) int {
	var apiErr apiError
	if errors.As(err, &apiErr) {
		return apiErr.status
	}
	return http.StatusInternalServerError
}

func errorCode(status int, err error) string {
	var apiErr apiError
	if errors.As(err, &apiErr) && apiErr.code != "" {
		return apiErr.code
	}
	switch status {
	case http.StatusBadRequest:
		return "invalid_argument"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusTooManyRequests:
		return "resource_exhausted"
	case http.StatusInternalServerError:
		return "internal"
	default:
		return ""
	}
}

func errorNumericCode(status int, err error) int {
	var apiErr apiError
	if errors.As(err, &apiErr) && apiErr.errCode > 0 {
		return apiErr.errCode
	}
	return defaultErrorCodeByStatus(status)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, int64(defaultJSONMaxBody))
	return json.NewDecoder(r.Body).Decode(dst)
}

func classifyDecodeJSONError(err error) error {
	if err == nil {
		return nil
	}

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return badRequestCode(fmt.Errorf("request body too large"), ErrCodeRequestTooLarge)
	}

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return badRequestCode(fmt.Errorf("invalid JSON payload"), ErrCodeInvalidJSON)
	}

	return badRequestCode(err, ErrCodeInvalidJSON)
}

func (s *Server) decodeJSONReq(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := decodeJSON(w, r, dst); err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, classifyDecodeJSONError(err))
		return false
	}
	return true
}

func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	s.writeErrorReq(w, r, httpStatusFromError(err), err)
}

func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	s.writeErrorReq(w, r, http.StatusInternalServerError, storeFailure(err))
}

func (s *Server) pathIDOrBadRequest(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := requirePathID(r)
	if err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, err)
		return 0, false
	}
	return id, true
}

func requirePathID(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.PathValue("id"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequestCode(fmt.Errorf("invalid id"), ErrCodeInvalidID)
	}
	return id, nil
}

func requirePathFileKind(r *http.Request) (models.FileKind, error) {
	kind, err := models.ParseFileKind(r.PathValue("kind"))
	if err != nil {
		return "", badRequestCode(err, ErrCodeInvalidFileKind)
	}
	return kind, nil
}

func queryIntDefault(r *http.Request, key string, def int) (int, error) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return def, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, badRequestCode(fmt.Errorf("invalid %s", key), ErrCodeInvalidQuery)
	}
	if parsed < 0 {
		return 0, badRequestCode(fmt.Errorf("%s must be >= 0", key), ErrCodeInvalidQuery)
	}
	return parsed, nil
}
