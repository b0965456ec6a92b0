package model

import (
	"context"
	"fmt"
	"time"
)

type Units string

const (
	Metric   Units = "metric"
	Imperial Units = "imperial"
	Kelvin   Units = "kelvin"
)

const DefaultRefreshInterval = 10 * time.Minute

type (
	Preferences struct {
		AutoRefresh     bool          `json:"auto_refresh"`
		RefreshInterval time.Duration `json:"refresh_interval"`
		Units           Units         `json:"units"`
		Notifications   bool          `json:"notifications"`
	}

	PreferencesService interface {
		GetPreferences(ctx context.Context) (Preferences, error)
		SetPreferences(ctx context.Context, preferences Preferences) error
	}
)

func DefaultPreferences() Preferences {
	return Preferences{
		AutoRefresh:     true,
		RefreshInterval: DefaultRefreshInterval,
		Units:           Metric,
		Notifications:   true,
	}
}

func ParseUnits(s string) (Units, error) {
	switch Units(s) {
	case Metric, Imperial, Kelvin:
		return Units(s), nil
	case "standard":
		return Kelvin, nil
	}
	return "", fmt.Errorf("unknown units %q", s)
}

// APIValue is the units query parameter the provider expects.
func (u Units) APIValue() string {
	if u == Kelvin {
		return "standard"
	}
	if u == "" {
		return string(Metric)
	}
	return string(u)
}

func (u Units) TemperatureSymbol() string {
	switch u {
	case Imperial:
		return "°F"
	case Kelvin:
		return "K"
	default:
		return "°C"
	}
}

func (u Units) SpeedUnit() string {
	if u == Imperial {
		return "mph"
	}
	return "m/s"
}
