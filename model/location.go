package model

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrLocationNotSet  = errors.New("location not set")
	ErrAddressNotFound = errors.New("address not found")
)

type (
	Location struct {
		Latitude  float64 `json:"latitude" db:"latitude"`
		Longitude float64 `json:"longitude" db:"longitude"`
		City      string  `json:"city,omitempty" db:"city"`
		Country   string  `json:"country,omitempty" db:"country"`
	}

	LocationService interface {
		GetLocation(ctx context.Context) (Location, error)
		SetLocation(ctx context.Context, location Location) error
		DeleteLocation(ctx context.Context) error
	}

	GeocodingService interface {
		Geocode(ctx context.Context, address string) (Location, error)
	}
)

func (l Location) String() string {
	switch {
	case l.City != "" && l.Country != "":
		return fmt.Sprintf("%s, %s", l.City, l.Country)
	case l.City != "":
		return l.City
	default:
		return fmt.Sprintf("%.4f, %.4f", l.Latitude, l.Longitude)
	}
}
