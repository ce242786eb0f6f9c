// Package api exposes the HTTP surface: on-demand predictions, geocoding,
// solar lookups, and user preference management, all under /api/v1.
package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"rainbowfinder/internal/types"
)

// ServerConfig holds the collaborators and tuning for the HTTP server.
type ServerConfig struct {
	Weather  types.WeatherProvider
	Geocoder types.Geocoder
	Users    types.UserStore
	Clock    types.Clock
	Logger   *slog.Logger

	// ForecastHours is the default evaluation horizon for on-demand
	// predictions when the request does not specify one.
	ForecastHours int
	// SearchRadiusKM is the default viewing-location search radius.
	SearchRadiusKM float64
}

// Server is the HTTP API server. It owns the router; the caller owns the
// http.Server lifecycle.
type Server struct {
	router *chi.Mux

	weather  types.WeatherProvider
	geocoder types.Geocoder
	users    types.UserStore
	clock    types.Clock
	logger   *slog.Logger
	validate *validator.Validate

	forecastHours  int
	searchRadiusKM float64
}

// NewServer creates a Server and wires its routes. All collaborators are
// required; missing ones are a programming error surfaced immediately.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Weather == nil {
		return nil, fmt.Errorf("api: weather provider is required")
	}
	if cfg.Geocoder == nil {
		return nil, fmt.Errorf("api: geocoder is required")
	}
	if cfg.Users == nil {
		return nil, fmt.Errorf("api: user store is required")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("api: logger is required")
	}
	clock := cfg.Clock
	if clock == nil {
		clock = types.RealClock{}
	}
	hours := cfg.ForecastHours
	if hours <= 0 {
		hours = 24
	}
	radius := cfg.SearchRadiusKM
	if radius <= 0 {
		radius = types.DefaultNotificationRadiusKM
	}

	s := &Server{
		router:         chi.NewRouter(),
		weather:        cfg.Weather,
		geocoder:       cfg.Geocoder,
		users:          cfg.Users,
		clock:          clock,
		logger:         cfg.Logger,
		validate:       validator.New(validator.WithRequiredStructEnabled()),
		forecastHours:  hours,
		searchRadiusKM: radius,
	}
	s.routes()
	return s, nil
}

// Handler returns the root http.Handler for this server.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() {
	s.router.Use(RequestID)
	s.router.Use(Recoverer(s.logger))
	s.router.Use(RequestLogger(s.logger))
	s.router.Use(SecurityHeaders)

	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/predictions", s.handlePredictions)
		r.Get("/solar", s.handleSolar)
		r.Get("/geocode", s.handleGeocode)
		r.Get("/geocode/reverse", s.handleReverseGeocode)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/preferences", s.handleGetPreferences)
			r.Put("/preferences", s.handlePutPreferences)
			r.Post("/favorites", s.handleAddFavorite)
			r.Delete("/favorites/{name}", s.handleRemoveFavorite)
		})
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
