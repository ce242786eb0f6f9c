package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"rainbowfinder/internal/predictor"
	"rainbowfinder/internal/solar"
	"rainbowfinder/internal/types"
)

// maxForecastHorizonHours mirrors the upstream forecast limit.
const maxForecastHorizonHours = 384

// predictionResponse is the body of GET /api/v1/predictions. Prediction is
// null when no visible rainbow falls inside the horizon; Windows lists every
// candidate window, best first is not implied, order is chronological.
type predictionResponse struct {
	Prediction  *types.RainbowPrediction `json:"prediction"`
	Windows     []types.TimeWindow       `json:"windows"`
	HorizonH    int                      `json:"horizon_hours"`
	EvaluatedAt time.Time                `json:"evaluated_at"`
}

func (s *Server) handlePredictions(w http.ResponseWriter, r *http.Request) {
	loc, err := parseCoordinates(r)
	if err != nil {
		Error(w, r, err)
		return
	}

	hours := s.forecastHours
	if raw := r.URL.Query().Get("hours"); raw != "" {
		hours, err = strconv.Atoi(raw)
		if err != nil || hours <= 0 || hours > maxForecastHorizonHours {
			Error(w, r, types.NewAppError(types.ErrCodeValidationInvalidHours,
				fmt.Sprintf("hours must be an integer in [1, %d]", maxForecastHorizonHours), err))
			return
		}
	}

	radius := s.searchRadiusKM
	if raw := r.URL.Query().Get("radius_km"); raw != "" {
		radius, err = strconv.ParseFloat(raw, 64)
		if err != nil || radius < 0 {
			Error(w, r, types.NewAppError(types.ErrCodeValidationInvalidRadius,
				"radius_km must be a non-negative number", err))
			return
		}
	}

	forecast, err := s.weather.Forecast(r.Context(), loc, hours)
	if err != nil {
		Error(w, r, err)
		return
	}

	timestamps := make([]time.Time, len(forecast))
	for i, sample := range forecast {
		timestamps[i] = sample.Timestamp
	}
	suns := solar.Series(loc, timestamps)

	resp := predictionResponse{
		Windows:     predictor.TimeWindows(forecast, suns),
		HorizonH:    hours,
		EvaluatedAt: s.clock.Now(),
	}
	if pred, ok := predictor.Predict(loc, forecast, suns, radius); ok {
		resp.Prediction = &pred
	}

	JSON(w, r, http.StatusOK, APIResponse{Data: resp})
}

// solarResponse is the body of GET /api/v1/solar.
type solarResponse struct {
	Position types.SolarPosition `json:"position"`
	Cycle    types.DayNightCycle `json:"cycle"`
}

func (s *Server) handleSolar(w http.ResponseWriter, r *http.Request) {
	loc, err := parseCoordinates(r)
	if err != nil {
		Error(w, r, err)
		return
	}

	at := s.clock.Now()
	if raw := r.URL.Query().Get("at"); raw != "" {
		at, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			Error(w, r, types.NewAppError(types.ErrCodeValidationMissingField,
				"at must be an RFC 3339 timestamp", err))
			return
		}
		at = at.UTC()
	}

	JSON(w, r, http.StatusOK, APIResponse{Data: solarResponse{
		Position: solar.Position(loc, at),
		Cycle:    solar.Cycle(loc, at),
	}})
}

// parseCoordinates reads the required lat/lon query parameters and validates
// them as a GeoPoint.
func parseCoordinates(r *http.Request) (types.GeoPoint, error) {
	q := r.URL.Query()

	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		return types.GeoPoint{}, types.NewAppError(types.ErrCodeValidationInvalidLat,
			"lat must be a number", err)
	}
	lon, err := strconv.ParseFloat(q.Get("lon"), 64)
	if err != nil {
		return types.GeoPoint{}, types.NewAppError(types.ErrCodeValidationInvalidLon,
			"lon must be a number", err)
	}

	loc := types.GeoPoint{Lat: lat, Lon: lon}
	if err := loc.Validate(); err != nil {
		return types.GeoPoint{}, err
	}
	return loc, nil
}
