package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/brightsky/go-activity-planner/internal/api/planner"
	"github.com/brightsky/go-activity-planner/internal/api/weather"
)

// Config contains dependencies needed for the router setup
type Config struct {
	WeatherHandler *weather.Handler
	PlannerHandler *planner.Handler
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are expected to be
// applied *before* mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	// Heartbeat/Health check endpoint
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Tool invocation contract: location in, weather snapshot out.
		r.Post("/weather", cfg.WeatherHandler.GetCurrentWeather)
		// Workflow invocation contract: city in, activity plan out.
		r.Post("/plans", cfg.PlannerHandler.CreatePlan)
	})

	return r
}
