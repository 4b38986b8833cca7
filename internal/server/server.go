package server

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/mjmlights57/product-docs-manager/internal/config"
	"github.com/mjmlights57/product-docs-manager/internal/export"
	"github.com/mjmlights57/product-docs-manager/internal/storage"
	"github.com/mjmlights57/product-docs-manager/internal/store"
)

const (
	allowRemoteEnvKey      = "PRODUCT_DOCS_ALLOW_REMOTE"
	readHeaderTimeout      = 5 * time.Second
	readTimeout            = 30 * time.Second
	writeTimeout           = 120 * time.Second
	idleTimeout            = 60 * time.Second
	exportConcurrencyLimit = 2
)

// Server wraps HTTP handlers for the productdocs API.
type Server struct {
	addr          string
	store         store.ProductStore
	files         storage.Store
	service       *ProductService
	exporter      *export.Exporter
	logger        *slog.Logger
	uploads       config.UploadConfig
	exportLimiter chan struct{}
}

// New creates a new server instance.
func New(addr string, productStore store.ProductStore, files storage.Store, uploads config.UploadConfig, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		addr:          addr,
		store:         productStore,
		files:         files,
		service:       NewProductService(productStore, files),
		exporter:      export.New(productStore, files),
		logger:        logger,
		uploads:       uploads,
		exportLimiter: make(chan struct{}, exportConcurrencyLimit),
	}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	s.log().Info("starting server", "addr", s.addr)
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.withRequestLogging(s.routes()),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	return server.ListenAndServe()
}

// ListenAddr converts a base API URL into a listen address.
func ListenAddr(apiURL string) (string, error) {
	if apiURL == "" {
		return "", fmt.Errorf("api url is required")
	}
	if u, err := url.Parse(apiURL); err == nil && u.Host != "" {
		host := u.Hostname()
		if !isAllowedListenHost(host) {
			return "", fmt.Errorf("remote listen host %q requires %s=true", host, allowRemoteEnvKey)
		}
		return u.Host, nil
	}

	host, _, err := net.SplitHostPort(apiURL)
	if err == nil && !isAllowedListenHost(host) {
		return "", fmt.Errorf("remote listen host %q requires %s=true", host, allowRemoteEnvKey)
	}

	return apiURL, nil
}

func isAllowedListenHost(host string) bool {
	if host == "" {
		return true
	}
	if strings.EqualFold(strings.TrimSpace(os.Getenv(allowRemoteEnvKey)), "true") {
		return true
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func (s *Server) acquireLimiter(limiter chan struct{}, w http.ResponseWriter, r *http.Request, name string) bool {
	if limiter == nil {
		return true
	}
	select {
	case limiter <- struct{}{}:
		return true
	default:
		err := apiError{
			status:  http.StatusTooManyRequests,
			code:    "resource_exhausted",
			errCode: ErrCodeResourceExhausted,
			err:     fmt.Errorf("too many concurrent %s requests", name),
		}
		s.writeErrorReq(w, r, http.StatusTooManyRequests, err)
		return false
	}
}

func (s *Server) releaseLimiter(limiter chan struct{}) {
	if limiter == nil {
		return
	}
	select {
	case <-limiter:
	default:
	}
}

func (s *Server) log() *slog.Logger {
	if s != nil && s.logger != nil {
		return s.logger
	}
	return slog.Default()
}
