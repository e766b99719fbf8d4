package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// DefaultAllowedOrigins are the local frontend origins accepted when none are configured
var DefaultAllowedOrigins = []string{"http://localhost:5173", "http://localhost:8080"}

// RouterOptions configures the middleware stack
type RouterOptions struct {
	AllowedOrigins []string
	RequestLogging bool
}

// NewRouter creates a new router with all routes configured
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = DefaultAllowedOrigins
	}

	r := chi.NewRouter()

	if opts.RequestLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/project", h.Project)
		r.Post("/plan", h.Plan)
		r.Post("/gap", h.Gap)
		r.Post("/suggestions", h.Suggestions)

		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/templates", h.ListTemplates)
			r.Post("/work-longer", h.WorkLongerScenarios)
			r.Post("/extra-income", h.ExtraIncomeScenarios)
			r.Post("/raises", h.RaiseScenarios)
		})

		r.Route("/reference", func(r chi.Router) {
			r.Get("/lifespan", h.Lifespan)
			r.Get("/indexation", h.Indexation)
		})
	})

	return r
}

// NewServer wraps the router in an http.Server with the usual timeouts
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
