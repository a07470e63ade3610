package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"shiftdesk-be/internal/dto"
	"shiftdesk-be/internal/pkg/apperror"
	"shiftdesk-be/internal/pkg/logger"
	"shiftdesk-be/pkg/geocode"
)

type IGeocodeService interface {
	Reverse(ctx context.Context, lat, lng float64) (*dto.AddressResponse, error)
	// Describe returns a formatted address or "" when none can be resolved.
	Describe(ctx context.Context, lat, lng float64) string
}

// AddressLookup is satisfied by *geocode.CachedResolver.
type AddressLookup interface {
	Lookup(ctx context.Context, lat, lng float64) (*geocode.Address, bool, error)
}

type geocodeService struct {
	resolver AddressLookup
	timeout  time.Duration
	logger   logger.ILogger
}

func NewGeocodeService(resolver AddressLookup, timeout time.Duration, log logger.ILogger) IGeocodeService {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &geocodeService{resolver: resolver, timeout: timeout, logger: log}
}

func (s *geocodeService) Reverse(ctx context.Context, lat, lng float64) (*dto.AddressResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	addr, cached, err := s.resolver.Lookup(ctx, lat, lng)
	if err != nil {
		return nil, mapGeocodeError(err)
	}
	return &dto.AddressResponse{
		Formatted: addr.Formatted,
		Street:    addr.Street,
		City:      addr.City,
		Postcode:  addr.Postcode,
		Country:   addr.Country,
		Latitude:  addr.Latitude,
		Longitude: addr.Longitude,
		Cached:    cached,
	}, nil
}

func (s *geocodeService) Describe(ctx context.Context, lat, lng float64) string {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	addr, _, err := s.resolver.Lookup(ctx, lat, lng)
	if err != nil {
		if !errors.Is(err, geocode.ErrNotConfigured) {
			s.logger.Warn("GEOCODE", "Reverse geocoding failed", map[string]interface{}{
				"lat": lat, "lng": lng, "error": err,
			})
		}
		return ""
	}
	return addr.Formatted
}

func mapGeocodeError(err error) error {
	switch {
	case errors.Is(err, geocode.ErrInvalidCoordinates):
		return apperror.BadRequest("invalid coordinates")
	case errors.Is(err, geocode.ErrNotFound):
		return apperror.NotFound("no address found for these coordinates")
	case errors.Is(err, geocode.ErrNotConfigured):
		return apperror.New(http.StatusServiceUnavailable, "reverse geocoding is not configured")
	default:
		return apperror.New(http.StatusBadGateway, "reverse geocoding provider unavailable")
	}
}
