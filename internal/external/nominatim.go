package external

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"rainbowfinder/internal/types"
)

// DefaultNominatimBaseURL is the public OSM Nominatim endpoint. Production
// deployments should point at a self-hosted instance; the public one is
// rate limited to one request per second.
const DefaultNominatimBaseURL = "https://nominatim.openstreetmap.org"

// Compile-time assertion that NominatimClient implements types.Geocoder.
var _ types.Geocoder = (*NominatimClient)(nil)

// NominatimClient implements types.Geocoder against the Nominatim search and
// reverse APIs. A miss is an explicit (nil, nil) result, never a zero
// coordinate and never an error.
type NominatimClient struct {
	base    *BaseClient
	baseURL string
	logger  types.Logger
}

// NewNominatimClient creates a NominatimClient. An empty baseURL uses the
// public API; tests point it at an httptest server.
func NewNominatimClient(httpClient *http.Client, baseURL string, logger types.Logger, opts ...BaseClientOption) *NominatimClient {
	if baseURL == "" {
		baseURL = DefaultNominatimBaseURL
	}
	return &NominatimClient{
		base:    NewBaseClient(httpClient, "nominatim", DefaultRetryPolicy(), "rainbowfinder/1.0", opts...),
		baseURL: baseURL,
		logger:  logger,
	}
}

// nominatimPlace is one result row from the search or reverse endpoints.
// Nominatim returns coordinates as strings.
type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}

// Geocode resolves a free-text address to a coordinate. An unknown address
// returns (nil, nil).
func (c *NominatimClient) Geocode(ctx context.Context, address string) (*types.GeoPoint, error) {
	if address == "" {
		return nil, types.NewAppError(types.ErrCodeValidationMissingField,
			"geocode address is empty", nil)
	}

	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "jsonv2")
	q.Set("limit", "1")

	var places []nominatimPlace
	if err := c.get(ctx, "/search", q, &places); err != nil {
		return nil, err
	}
	if len(places) == 0 {
		return nil, nil
	}
	return placeToPoint(places[0])
}

// ReverseGeocode resolves a coordinate to the nearest named place. Open
// ocean and other unnamed areas return (nil, nil).
func (c *NominatimClient) ReverseGeocode(ctx context.Context, loc types.GeoPoint) (*types.GeoPoint, error) {
	if err := loc.Validate(); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(loc.Lat, 'f', 6, 64))
	q.Set("lon", strconv.FormatFloat(loc.Lon, 'f', 6, 64))
	q.Set("format", "jsonv2")

	var place nominatimPlace
	if err := c.get(ctx, "/reverse", q, &place); err != nil {
		return nil, err
	}
	// Nominatim reports "Unable to geocode" in-band with HTTP 200.
	if place.Error != "" || place.Lat == "" {
		return nil, nil
	}
	return placeToPoint(place)
}

// get executes one Nominatim request and decodes the JSON response into out.
func (c *NominatimClient) get(ctx context.Context, path string, q url.Values, out any) error {
	endpoint := fmt.Sprintf("%s%s?%s", c.baseURL, path, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalUnexpected,
			"failed to build nominatim request", err)
	}

	resp, err := c.base.Do(req)
	if err != nil {
		return wrapUpstream(err, types.ErrCodeUpstreamGeocoder, "nominatim request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return types.NewAppError(types.ErrCodeUpstreamGeocoder,
			fmt.Sprintf("nominatim returned %d: %s", resp.StatusCode, body), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return types.NewAppError(types.ErrCodeUpstreamGeocoder,
			"nominatim sent malformed JSON", err)
	}
	return nil
}

// placeToPoint converts a Nominatim row to a validated GeoPoint.
func placeToPoint(p nominatimPlace) (*types.GeoPoint, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeUpstreamGeocoder,
			fmt.Sprintf("nominatim sent unparseable latitude %q", p.Lat), err)
	}
	lon, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeUpstreamGeocoder,
			fmt.Sprintf("nominatim sent unparseable longitude %q", p.Lon), err)
	}

	point := types.GeoPoint{Lat: lat, Lon: lon, Name: p.DisplayName}
	if err := point.Validate(); err != nil {
		return nil, types.NewAppError(types.ErrCodeUpstreamGeocoder,
			"nominatim sent out-of-range coordinates", err)
	}
	return &point, nil
}
