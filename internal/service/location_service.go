package service

import (
	"context"

	"amber-storefront/internal/geo"

	"go.uber.org/zap"
)

// Location is a picked delivery point
type Location struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Address   string    `json:"address"`
	Place     geo.Place `json:"place"`
}

// LocationService defines the interface for the delivery address picker
type LocationService interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) Location
}

type locationService struct {
	geocoder geo.Geocoder
	logger   *zap.Logger
}

// NewLocationService creates a new instance of LocationService
func NewLocationService(geocoder geo.Geocoder, log *zap.Logger) LocationService {
	return &locationService{
		geocoder: geocoder,
		logger:   log.Named("location"),
	}
}

// ReverseGeocode always yields an address; when the lookup fails the
// coordinates stand in for it.
func (s *locationService) ReverseGeocode(ctx context.Context, lat, lng float64) Location {
	loc := Location{Latitude: lat, Longitude: lng}

	place, err := s.geocoder.Reverse(ctx, lat, lng)
	if err != nil {
		s.logger.Warn("Reverse geocoding failed", zap.Error(err))
		loc.Address = geo.Coordinates(lat, lng)
		return loc
	}

	loc.Place = place
	loc.Address = geo.FormatAddress(place, lat, lng)
	return loc
}
