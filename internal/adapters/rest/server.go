package rest

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Edmond40/afari-real-estate-sub000/internal/core/port"
)

type Server struct {
	httpServer *http.Server
	logger     port.LoggerPort
}

// Handlers - набор обработчиков, которые монтируются в роутер.
type Handlers struct {
	Listings *ListingHandler
	Search   *SearchHandler
	Stats    *StatsHandler
	// Metrics - обработчик /metrics, может быть nil.
	Metrics http.Handler
}

func NewServer(port string, handlers Handlers, corsOrigins []string, baseLogger port.LoggerPort) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:    ":" + port,
			Handler: NewRouter(handlers, corsOrigins, baseLogger),
		},
		logger: baseLogger,
	}
}

func NewRouter(handlers Handlers, corsOrigins []string, baseLogger port.LoggerPort) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Trace-ID", clientIDHeader},
		ExposedHeaders:   []string{"X-Trace-ID"},
		AllowCredentials: true,
	}))
	r.Use(LoggerMiddleware(baseLogger), middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if handlers.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", handlers.Metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/listings", handlers.Listings.BrowseListings)
		r.Post("/listings/browse", handlers.Listings.BrowseInline)
		r.Get("/listings/{listingID}", handlers.Listings.GetListing)

		r.Post("/searches", handlers.Search.CreateSearch)
		r.Get("/searches/{searchID}/listings", handlers.Search.BrowseSearch)

		r.Get("/stats/listings", handlers.Stats.GetListingStats)
	})

	return r
}

func (s *Server) Start() error {
	s.logger.Info("Starting REST server", port.Fields{"address": s.httpServer.Addr})
	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST server...", nil)
	return s.httpServer.Shutdown(ctx)
}
