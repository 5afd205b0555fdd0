package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"amber-storefront/internal/config"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

var ErrNoResult = errors.New("no address for coordinates")

// Place is a reverse-geocoded location split into address parts
type Place struct {
	Street       string `json:"street,omitempty"`
	StreetNumber string `json:"streetNumber,omitempty"`
	District     string `json:"district,omitempty"`
	City         string `json:"city,omitempty"`
	Region       string `json:"region,omitempty"`
}

// Geocoder resolves coordinates to a place
type Geocoder interface {
	Reverse(ctx context.Context, lat, lng float64) (Place, error)
}

type nominatim struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewNominatim creates a Geocoder backed by a Nominatim server.
func NewNominatim(cfg config.GeocoderConfig, logger *zap.Logger) Geocoder {
	return &nominatim{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   10 * time.Second,
		},
		logger: logger,
	}
}

type nominatimAddress struct {
	Road          string `json:"road"`
	Pedestrian    string `json:"pedestrian"`
	HouseNumber   string `json:"house_number"`
	Suburb        string `json:"suburb"`
	CityDistrict  string `json:"city_district"`
	Neighbourhood string `json:"neighbourhood"`
	City          string `json:"city"`
	Town          string `json:"town"`
	Village       string `json:"village"`
	State         string `json:"state"`
	Region        string `json:"region"`
}

type nominatimResult struct {
	Error   string           `json:"error"`
	Address nominatimAddress `json:"address"`
}

func (n *nominatim) Reverse(ctx context.Context, lat, lng float64) (Place, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	q.Set("format", "json")
	q.Set("addressdetails", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return Place{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if n.userAgent != "" {
		req.Header.Set("User-Agent", n.userAgent)
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return Place{}, fmt.Errorf("failed to reverse geocode: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Place{}, fmt.Errorf("failed to read geocoder response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Place{}, fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	var result nominatimResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return Place{}, fmt.Errorf("failed to decode geocoder response: %w", err)
	}
	if result.Error != "" {
		return Place{}, fmt.Errorf("%w: %s", ErrNoResult, result.Error)
	}

	a := result.Address
	place := Place{
		Street:       first(a.Road, a.Pedestrian),
		StreetNumber: a.HouseNumber,
		District:     first(a.Suburb, a.CityDistrict, a.Neighbourhood),
		City:         first(a.City, a.Town, a.Village),
		Region:       first(a.State, a.Region),
	}
	n.logger.Debug("Reverse geocoded", zap.Float64("lat", lat), zap.Float64("lng", lng))
	return place, nil
}

// FormatAddress joins the non-empty parts of place, or falls back to the
// coordinates with six decimals.
func FormatAddress(place Place, lat, lng float64) string {
	var parts []string
	for _, p := range []string{place.Street, place.StreetNumber, place.District, place.City, place.Region} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return Coordinates(lat, lng)
	}
	return strings.Join(parts, ", ")
}

// Coordinates formats a point as "lat, lng".
func Coordinates(lat, lng float64) string {
	return fmt.Sprintf("%.6f, %.6f", lat, lng)
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
