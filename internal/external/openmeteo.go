package external

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/klauspost/compress/gzip"

	"rainbowfinder/internal/types"
)

// DefaultOpenMeteoBaseURL is the public Open-Meteo forecast endpoint.
const DefaultOpenMeteoBaseURL = "https://api.open-meteo.com"

// hourlyFields are the forecast variables requested from Open-Meteo, in the
// units the domain expects (°C, %, mm/h, km/h, degrees).
const hourlyFields = "temperature_2m,relative_humidity_2m,precipitation,cloud_cover,wind_speed_10m,wind_direction_10m"

// maxForecastHours caps a single forecast request; Open-Meteo serves up to
// 16 days hourly.
const maxForecastHours = 384

// Compile-time assertion that OpenMeteoClient implements types.WeatherProvider.
var _ types.WeatherProvider = (*OpenMeteoClient)(nil)

// OpenMeteoClient implements types.WeatherProvider against the Open-Meteo
// forecast API. Responses are requested gzip-compressed and decoded with the
// klauspost reader. All faults surface as AppError with an upstream code;
// the caller converts them to input-absence before the prediction core.
type OpenMeteoClient struct {
	base    *BaseClient
	baseURL string
	logger  types.Logger
}

// NewOpenMeteoClient creates an OpenMeteoClient. An empty baseURL uses the
// public API; tests point it at an httptest server.
func NewOpenMeteoClient(httpClient *http.Client, baseURL string, logger types.Logger, opts ...BaseClientOption) *OpenMeteoClient {
	if baseURL == "" {
		baseURL = DefaultOpenMeteoBaseURL
	}
	return &OpenMeteoClient{
		base:    NewBaseClient(httpClient, "open-meteo", DefaultRetryPolicy(), "rainbowfinder/1.0", opts...),
		baseURL: baseURL,
		logger:  logger,
	}
}

// openMeteoResponse mirrors the slice-of-columns layout Open-Meteo returns.
type openMeteoResponse struct {
	Hourly struct {
		Time             []int64   `json:"time"`
		Temperature      []float64 `json:"temperature_2m"`
		RelativeHumidity []float64 `json:"relative_humidity_2m"`
		Precipitation    []float64 `json:"precipitation"`
		CloudCover       []float64 `json:"cloud_cover"`
		WindSpeed        []float64 `json:"wind_speed_10m"`
		WindDirection    []float64 `json:"wind_direction_10m"`
	} `json:"hourly"`
	Current struct {
		Time             int64   `json:"time"`
		Temperature      float64 `json:"temperature_2m"`
		RelativeHumidity float64 `json:"relative_humidity_2m"`
		Precipitation    float64 `json:"precipitation"`
		CloudCover       float64 `json:"cloud_cover"`
		WindSpeed        float64 `json:"wind_speed_10m"`
		WindDirection    float64 `json:"wind_direction_10m"`
	} `json:"current"`
}

// Current returns the latest observation for the location.
func (c *OpenMeteoClient) Current(ctx context.Context, loc types.GeoPoint) (*types.WeatherSample, error) {
	q := c.baseQuery(loc)
	q.Set("current", hourlyFields)

	decoded, err := c.fetch(ctx, q)
	if err != nil {
		return nil, err
	}

	cur := decoded.Current
	return &types.WeatherSample{
		TemperatureC:     cur.Temperature,
		HumidityPct:      cur.RelativeHumidity,
		PrecipitationMMH: cur.Precipitation,
		CloudCoverPct:    cur.CloudCover,
		WindSpeedKmh:     cur.WindSpeed,
		WindDirectionDeg: cur.WindDirection,
		Timestamp:        time.Unix(cur.Time, 0).UTC(),
	}, nil
}

// Forecast returns hourly samples covering the next `hours` hours, in strict
// chronological order.
func (c *OpenMeteoClient) Forecast(ctx context.Context, loc types.GeoPoint, hours int) ([]types.WeatherSample, error) {
	if hours <= 0 {
		return nil, types.NewAppError(types.ErrCodeValidationInvalidHours,
			fmt.Sprintf("forecast hours %d must be positive", hours), nil)
	}
	if hours > maxForecastHours {
		hours = maxForecastHours
	}

	q := c.baseQuery(loc)
	q.Set("hourly", hourlyFields)
	q.Set("forecast_hours", strconv.Itoa(hours))

	decoded, err := c.fetch(ctx, q)
	if err != nil {
		return nil, err
	}

	h := decoded.Hourly
	n := len(h.Time)
	if n == 0 {
		return nil, types.NewAppError(types.ErrCodeUpstreamWeather,
			"open-meteo returned an empty hourly series", nil)
	}

	samples := make([]types.WeatherSample, 0, n)
	for i := 0; i < n; i++ {
		samples = append(samples, types.WeatherSample{
			TemperatureC:     at(h.Temperature, i),
			HumidityPct:      at(h.RelativeHumidity, i),
			PrecipitationMMH: at(h.Precipitation, i),
			CloudCoverPct:    at(h.CloudCover, i),
			WindSpeedKmh:     at(h.WindSpeed, i),
			WindDirectionDeg: at(h.WindDirection, i),
			Timestamp:        time.Unix(h.Time[i], 0).UTC(),
		})
	}
	return samples, nil
}

// baseQuery builds the common query parameters for a location.
func (c *OpenMeteoClient) baseQuery(loc types.GeoPoint) url.Values {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(loc.Lat, 'f', 4, 64))
	q.Set("longitude", strconv.FormatFloat(loc.Lon, 'f', 4, 64))
	q.Set("timeformat", "unixtime")
	q.Set("wind_speed_unit", "kmh")
	return q
}

// fetch executes one forecast-endpoint request and decodes the response,
// transparently handling gzip bodies.
func (c *OpenMeteoClient) fetch(ctx context.Context, q url.Values) (*openMeteoResponse, error) {
	endpoint := fmt.Sprintf("%s/v1/forecast?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalUnexpected,
			"failed to build open-meteo request", err)
	}
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := c.base.Do(req)
	if err != nil {
		return nil, wrapUpstream(err, types.ErrCodeUpstreamWeather, "open-meteo request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, types.NewAppError(types.ErrCodeUpstreamWeather,
			fmt.Sprintf("open-meteo returned %d: %s", resp.StatusCode, body), nil)
	}

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, types.NewAppError(types.ErrCodeUpstreamWeather,
				"open-meteo sent an unreadable gzip body", err)
		}
		defer gz.Close()
		reader = gz
	}

	var decoded openMeteoResponse
	if err := json.NewDecoder(reader).Decode(&decoded); err != nil {
		return nil, types.NewAppError(types.ErrCodeUpstreamWeather,
			"open-meteo sent malformed JSON", err)
	}
	return &decoded, nil
}

// at reads column i, tolerating a short column from a truncated response.
func at(col []float64, i int) float64 {
	if i < len(col) {
		return col[i]
	}
	return 0
}

// wrapUpstream re-tags a BaseClient AppError with a provider-specific code,
// keeping rate-limit codes intact so callers can back off.
func wrapUpstream(err error, code types.ErrorCode, msg string) error {
	var appErr *types.AppError
	if types.AsAppError(err, &appErr) && appErr.Code == types.ErrCodeUpstreamRateLimited {
		return err
	}
	return types.NewAppError(code, msg, err)
}
