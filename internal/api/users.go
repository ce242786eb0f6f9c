package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"rainbowfinder/internal/types"
)

// preferencesRequest is the PUT body for user preferences. PUT is a full
// replacement; omitted numeric fields become zero and must still validate.
type preferencesRequest struct {
	MinProbability      float64 `json:"min_probability" validate:"gte=0,lte=1"`
	MaxDistanceKM       float64 `json:"max_distance_km" validate:"gte=0,lte=20000"`
	NotificationEnabled bool    `json:"notification_enabled"`
	LeadTimeMinutes     int     `json:"notification_lead_time_minutes" validate:"gte=0,lte=1440"`
}

// favoriteRequest is the POST body for adding a favorite location.
type favoriteRequest struct {
	Lat       float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon       float64 `json:"lon" validate:"gte=-180,lte=180"`
	AltitudeM float64 `json:"altitude_m" validate:"gte=-500,lte=9000"`
	Name      string  `json:"name" validate:"required,max=120"`
}

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	profile, err := s.users.GetProfile(r.Context(), userID)
	if err != nil {
		Error(w, r, err)
		return
	}

	JSON(w, r, http.StatusOK, APIResponse{Data: profile.Preferences})
}

func (s *Server) handlePutPreferences(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req preferencesRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		Error(w, r, err)
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		Error(w, r, validationError(err))
		return
	}

	prefs := types.UserPreferences{
		MinProbability:      req.MinProbability,
		MaxDistanceKM:       req.MaxDistanceKM,
		NotificationEnabled: req.NotificationEnabled,
		LeadTimeMinutes:     req.LeadTimeMinutes,
	}
	if err := s.users.SavePreferences(r.Context(), userID, prefs); err != nil {
		Error(w, r, err)
		return
	}

	JSON(w, r, http.StatusOK, APIResponse{Data: prefs})
}

func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req favoriteRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		Error(w, r, err)
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		Error(w, r, validationError(err))
		return
	}

	loc := types.GeoPoint{
		Lat:       req.Lat,
		Lon:       req.Lon,
		AltitudeM: req.AltitudeM,
		Name:      strings.TrimSpace(req.Name),
	}
	if err := s.users.AddFavorite(r.Context(), userID, loc); err != nil {
		Error(w, r, err)
		return
	}

	JSON(w, r, http.StatusCreated, APIResponse{Data: loc})
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	name := chi.URLParam(r, "name")

	if err := s.users.RemoveFavorite(r.Context(), userID, name); err != nil {
		Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// validationError converts validator failures into a client-facing AppError
// with one detail entry per failing field.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return types.NewAppError(types.ErrCodeValidationMissingField,
			"request failed validation", err)
	}

	details := make(map[string]any, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = fe.Tag()
	}
	appErr := types.NewAppError(types.ErrCodeValidationMissingField,
		"request failed validation", nil)
	appErr.Details = details
	return appErr
}
