package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/riandyrn/otelchi"
	otelchimetric "github.com/riandyrn/otelchi/metric"
	"go.opentelemetry.io/otel"

	"github.com/socialchef/recipeai/internal/middleware"
	"github.com/socialchef/recipeai/internal/sentry"
)

// NewRouter builds the HTTP surface. Bearer auth is applied to /api/* only when
// a JWT secret is configured.
func NewRouter(s *Server) http.Handler {
	serverName := s.cfg.ServiceName + "-server"

	r := chi.NewRouter()

	r.Use(otelchi.Middleware(serverName,
		otelchi.WithChiRoutes(r),
		otelchi.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/health"
		}),
	))

	metricCfg := otelchimetric.NewBaseConfig(serverName, otelchimetric.WithMeterProvider(otel.GetMeterProvider()))
	r.Use(otelchimetric.NewRequestDurationMillis(metricCfg))
	r.Use(otelchimetric.NewRequestInFlight(metricCfg))
	r.Use(otelchimetric.NewResponseSizeBytes(metricCfg))

	r.Use(chimiddleware.RequestID)
	r.Use(sentry.HTTPMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Get("/health", s.HandleHealth)

	r.Route("/api", func(r chi.Router) {
		if s.cfg.AuthJWTSecret != "" {
			r.Use(middleware.AuthMiddleware(s.cfg))
		}
		r.Post("/recipes", s.HandleFetchRecipes)
		r.Post("/recipes/jobs", s.HandleCreateJob)
		r.Get("/recipes/jobs/{jobID}", s.HandleJobStatus)
	})

	return r
}
