package geo

import (
	"errors"
)

var (
	ErrPermissionDenied = errors.New("location access denied by user")
	ErrUnavailable      = errors.New("location information unavailable")
	ErrTimeout          = errors.New("location request timed out")
)

// UserMessage returns the text shown to the user for a location failure.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrPermissionDenied):
		return "Location access denied by user"
	case errors.Is(err, ErrUnavailable):
		return "Location information unavailable"
	case errors.Is(err, ErrTimeout):
		return "Location request timed out"
	default:
		return "Failed to get location"
	}
}
