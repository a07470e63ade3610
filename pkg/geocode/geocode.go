// Package geocode resolves coordinates to postal addresses through the
// Geoapify reverse-geocoding API, memoized through an injectable Cache.
package geocode

import (
	"context"
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidCoordinates = errors.New("geocode: invalid coordinates")
	ErrNotConfigured      = errors.New("geocode: api key not configured")
	ErrNotFound           = errors.New("geocode: no address for coordinates")
)

type Address struct {
	Formatted   string  `json:"formatted"`
	Street      string  `json:"street,omitempty"`
	HouseNumber string  `json:"housenumber,omitempty"`
	City        string  `json:"city,omitempty"`
	Postcode    string  `json:"postcode,omitempty"`
	Country     string  `json:"country,omitempty"`
	CountryCode string  `json:"country_code,omitempty"`
	Latitude    float64 `json:"lat"`
	Longitude   float64 `json:"lon"`
}

// Resolver turns a coordinate pair into an address.
type Resolver interface {
	Reverse(ctx context.Context, lat, lng float64) (*Address, error)
}

func ValidCoordinates(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// Key rounds both coordinates to precision decimals so nearby points share
// an entry. Negative zero is folded into zero.
func Key(lat, lng float64, precision int) string {
	if precision < 0 {
		precision = 0
	}
	return fmt.Sprintf("%.*f,%.*f", precision, round(lat, precision), precision, round(lng, precision))
}

func round(v float64, precision int) float64 {
	scale := math.Pow(10, float64(precision))
	r := math.Round(v*scale) / scale
	if r == 0 {
		return 0
	}
	return r
}
