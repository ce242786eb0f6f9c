package api

import (
	"net/http"
	"strings"

	"rainbowfinder/internal/types"
)

func (s *Server) handleGeocode(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		Error(w, r, types.NewAppError(types.ErrCodeValidationMissingField,
			"q query parameter is required", nil))
		return
	}

	point, err := s.geocoder.Geocode(r.Context(), query)
	if err != nil {
		Error(w, r, err)
		return
	}
	if point == nil {
		Error(w, r, types.NewAppError(types.ErrCodeNotFoundLocation,
			"no location matched the query", nil))
		return
	}

	JSON(w, r, http.StatusOK, APIResponse{Data: point})
}

func (s *Server) handleReverseGeocode(w http.ResponseWriter, r *http.Request) {
	loc, err := parseCoordinates(r)
	if err != nil {
		Error(w, r, err)
		return
	}

	point, err := s.geocoder.ReverseGeocode(r.Context(), loc)
	if err != nil {
		Error(w, r, err)
		return
	}
	if point == nil {
		Error(w, r, types.NewAppError(types.ErrCodeNotFoundLocation,
			"no place found at these coordinates", nil))
		return
	}

	JSON(w, r, http.StatusOK, APIResponse{Data: point})
}
