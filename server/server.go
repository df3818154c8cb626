// Package server provides the preview HTTP API over the latest landing page snapshot
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/allegro/techsite/pkg/domain"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/pages.go -pkg mocks -skip-ensure -fmt goimports . PageProvider

// Server represents HTTP server instance
type Server struct {
	config  ConfigProvider
	pages   PageProvider
	version string
	debug   bool

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// PageProvider gives access to the latest landing page and rebuilds it on demand
type PageProvider interface {
	Page() (domain.Page, bool)
	Refresh(ctx context.Context) domain.Page
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
}

// errNotReady is returned until the first landing page is built
var errNotReady = errors.New("landing page is not built yet")

// New initializes a new server instance
func New(cfg ConfigProvider, pages PageProvider, version string, debug bool) *Server {
	s := &Server{
		config:  cfg,
		pages:   pages,
		version: version,
		debug:   debug,
		router:  routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.config.GetServerConfig()
	lgr.Printf("[INFO] starting server on %s", listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:              listen,
		Handler:           s.router,
		ReadHeaderTimeout: timeout,
		ReadTimeout:       timeout,
		WriteTimeout:      timeout,
	}
	s.lock.Unlock()

	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
		case <-done:
			return
		}
		lgr.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		s.lock.Lock()
		defer s.lock.Unlock()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			lgr.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("techsite", "allegro", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(1024 * 1024)) // 1MB
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)
		r.HandleFunc("GET /landing", s.landingHandler)
		r.HandleFunc("GET /posts", s.sectionHandler(func(p domain.Page) any { return p.Posts }))
		r.HandleFunc("GET /podcasts", s.sectionHandler(func(p domain.Page) any { return p.Podcasts }))
		r.HandleFunc("GET /jobs", s.sectionHandler(func(p domain.Page) any { return p.Jobs }))
		r.HandleFunc("GET /events", s.sectionHandler(func(p domain.Page) any { return p.Events }))
		r.HandleFunc("GET /buckets", s.sectionHandler(func(p domain.Page) any { return p.Buckets }))
		r.HandleFunc("POST /refresh", s.refreshHandler)
	})
}

// statusHandler returns server status and the age of the landing page
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := rest.JSON{
		"status":  "ok",
		"version": s.version,
		"time":    time.Now().UTC(),
		"ready":   false,
	}
	if page, ok := s.pages.Page(); ok {
		status["ready"] = true
		status["generated_at"] = page.GeneratedAt
	}
	RenderJSON(w, r, http.StatusOK, status)
}

// landingHandler returns the whole landing page
func (s *Server) landingHandler(w http.ResponseWriter, r *http.Request) {
	page, ok := s.pages.Page()
	if !ok {
		RenderError(w, r, errNotReady, http.StatusServiceUnavailable)
		return
	}
	RenderJSON(w, r, http.StatusOK, page)
}

// sectionHandler returns a single section of the landing page
func (s *Server) sectionHandler(section func(domain.Page) any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, ok := s.pages.Page()
		if !ok {
			RenderError(w, r, errNotReady, http.StatusServiceUnavailable)
			return
		}
		RenderJSON(w, r, http.StatusOK, section(page))
	}
}

// refreshHandler rebuilds the landing page and returns section sizes.
// A full build may take longer than the server timeouts, so the deadlines are lifted for this request.
func (s *Server) refreshHandler(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)
	if err := rc.SetReadDeadline(time.Time{}); err != nil {
		lgr.Printf("[DEBUG] can't reset read deadline: %v", err)
	}
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		lgr.Printf("[DEBUG] can't reset write deadline: %v", err)
	}

	page := s.pages.Refresh(r.Context())
	lgr.Printf("[INFO] landing page refreshed on request from %s", r.RemoteAddr)
	RenderJSON(w, r, http.StatusOK, rest.JSON{
		"generated_at": page.GeneratedAt,
		"posts":        len(page.Posts),
		"podcasts":     len(page.Podcasts),
		"jobs":         len(page.Jobs),
		"events":       len(page.Events),
		"buckets":      len(page.Buckets),
	})
}

// RenderJSON sends JSON response
func RenderJSON(w http.ResponseWriter, _ *http.Request, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			lgr.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// RenderError sends error response as JSON
func RenderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	RenderJSON(w, r, code, map[string]string{"error": errMsg})
}
