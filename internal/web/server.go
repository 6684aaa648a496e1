// Package web provides the HTTP server: the upload page, the upload endpoint
// and the Sendy brand and list discovery proxies.
package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/JonMunkholm/SendyUpload/internal/config"
	"github.com/JonMunkholm/SendyUpload/internal/sendy"
	"github.com/JonMunkholm/SendyUpload/internal/upload"
	"github.com/JonMunkholm/SendyUpload/internal/web/middleware"
)

// Server is the HTTP server for the bulk subscriber.
type Server struct {
	cfg     *config.Config
	sendy   *sendy.Client
	limiter *upload.Limiter
	router  *chi.Mux
	server  *http.Server

	requestLimit *rateLimiter
	uploadLimit  *rateLimiter

	// upload is handleUpload behind the upload rate limit.
	upload http.Handler
}

// NewServer wires routes and middleware. Nothing listens until Start.
func NewServer(cfg *config.Config, client *sendy.Client, limiter *upload.Limiter) *Server {
	s := &Server{
		cfg:     cfg,
		sendy:   client,
		limiter: limiter,
		router:  chi.NewRouter(),
	}
	if cfg.Rate.Enabled {
		s.requestLimit = newRateLimiter(cfg.Rate.RequestsPerMinute, rateWindow)
		s.uploadLimit = newRateLimiter(cfg.Rate.UploadLimit, rateWindow)
	}
	s.upload = http.HandlerFunc(s.handleUpload)
	if s.uploadLimit != nil {
		s.upload = s.uploadLimit.middleware(s.upload)
	}
	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(middleware.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	s.router.Use(securityHeaders(s.cfg.Security.EnableCSP))

	if len(s.cfg.Security.AllowedOrigins) > 0 {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.cfg.Security.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", middleware.APIKeyHeader, "X-Request-Id"},
			ExposedHeaders: []string{uploadIDHeader},
			MaxAge:         300,
		}))
	}

	if s.requestLimit != nil {
		s.router.Use(s.requestLimit.middleware)
	}
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	// Uploads call Sendy once per row and can outlast the request timeout;
	// they are bounded by Upload.Timeout inside the handler instead. POST /
	// only applies the upload rate limit when it dispatches to an upload.
	s.router.Group(func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(&s.cfg.Security))
		r.Method(http.MethodPost, "/upload", s.upload)
		r.Post("/", s.handleLegacyPost)
	})

	s.router.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))

		r.Get("/", s.handlePage)

		r.Route("/api", func(r chi.Router) {
			r.Use(middleware.APIKeyAuth(&s.cfg.Security))
			r.Post("/brands", s.handleBrands)
			r.Post("/lists", s.handleLists)
		})
	})
}

// Start listens on the configured address until Shutdown.
func (s *Server) Start() error {
	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting requests, waits for in-flight ones and stops the
// rate limiter sweepers.
func (s *Server) Shutdown(ctx context.Context) error {
	for _, rl := range []*rateLimiter{s.requestLimit, s.uploadLimit} {
		if rl != nil {
			rl.stop()
		}
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

const csp = "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'"

func securityHeaders(enableCSP bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			if enableCSP {
				h.Set("Content-Security-Policy", csp)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, map[string]any{
		"status":  "ok",
		"uploads": s.limiter.Status(),
	})
}
