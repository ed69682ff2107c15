// Package server assembles the HTTP surface and runs it.
package server

import (
	"io/fs"
	"log/slog"
	"net/http"

	"coursedash/internal/config"
	"coursedash/internal/courses"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Deps are the handlers and settings the router mounts.
type Deps struct {
	Courses *courses.Handler
	MCP     http.Handler // optional
	Static  fs.FS        // optional
	Log     *slog.Logger
	// TrustProxy honors X-Forwarded-For / X-Real-IP. Enable it only behind
	// a proxy that overwrites those headers.
	TrustProxy bool
	RateLimit  config.RateLimitConfig
	CORS       config.CORSConfig
}

// NewRouter builds the chi router:
//
//	/          dashboard page and HTMX fragments
//	/api       JSON API (CORS, rate limited)
//	/mcp       MCP streamable HTTP (rate limited)
//	/static    embedded assets
//	/health    liveness
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if d.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(RequestLogger(d.Log))
	r.Use(middleware.Recoverer)

	limit := func(next http.Handler) http.Handler { return next }
	if d.RateLimit.RPS > 0 {
		limit = NewKeyedRateLimiter(d.RateLimit.RPS, d.RateLimit.Burst).Middleware
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	if d.Static != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(d.Static))))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: d.CORS.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
		r.Use(limit)
		r.Mount("/", courses.APIRoutes(d.Courses))
	})

	if d.MCP != nil {
		// MCP uses POST for requests, GET for SSE streams and DELETE to end a session
		r.With(limit).Method(http.MethodPost, "/mcp", d.MCP)
		r.With(limit).Method(http.MethodGet, "/mcp", d.MCP)
		r.With(limit).Method(http.MethodDelete, "/mcp", d.MCP)
	}

	r.Mount("/", courses.WebRoutes(d.Courses))
	return r
}
