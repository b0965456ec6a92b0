package model

import (
	"fmt"
	"time"

	"github.com/Brawl345/matrixweather/effect"
)

type (
	Temperature float64

	Condition struct {
		ID          int    `json:"id"`
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	}

	Precipitation struct {
		OneHour   *float64 `json:"1h,omitempty"`
		ThreeHour *float64 `json:"3h,omitempty"`
	}

	// Weather is a current-weather document as the provider returns it.
	Weather struct {
		Coord struct {
			Lon float64 `json:"lon"`
			Lat float64 `json:"lat"`
		} `json:"coord"`
		Conditions []Condition `json:"weather"`
		Base       string      `json:"base"`
		Main       struct {
			Temp      Temperature `json:"temp"`
			FeelsLike Temperature `json:"feels_like"`
			TempMin   Temperature `json:"temp_min"`
			TempMax   Temperature `json:"temp_max"`
			Pressure  float64     `json:"pressure"`
			Humidity  float64     `json:"humidity"`
			SeaLevel  *float64    `json:"sea_level,omitempty"`
			GrndLevel *float64    `json:"grnd_level,omitempty"`
		} `json:"main"`
		Visibility *float64 `json:"visibility,omitempty"`
		Wind       struct {
			Speed float64  `json:"speed"`
			Deg   *float64 `json:"deg,omitempty"`
			Gust  *float64 `json:"gust,omitempty"`
		} `json:"wind"`
		Rain   *Precipitation `json:"rain,omitempty"`
		Snow   *Precipitation `json:"snow,omitempty"`
		Clouds struct {
			All int `json:"all"`
		} `json:"clouds"`
		Dt  int64 `json:"dt"`
		Sys struct {
			Type    int    `json:"type,omitempty"`
			ID      int    `json:"id,omitempty"`
			Country string `json:"country"`
			Sunrise int64  `json:"sunrise"`
			Sunset  int64  `json:"sunset"`
		} `json:"sys"`
		Timezone int    `json:"timezone"`
		ID       int    `json:"id"`
		Name     string `json:"name"`
		Cod      any    `json:"cod,omitempty"`
	}

	// CachedWeather is the last successful fetch as persisted.
	CachedWeather struct {
		Weather   Weather     `json:"weather"`
		Effect    effect.Type `json:"effect"`
		FetchedAt time.Time   `json:"fetched_at"`
	}
)

// Condition returns the primary condition group, or "" when the provider sent none.
func (w *Weather) Condition() string {
	if len(w.Conditions) == 0 {
		return ""
	}
	return w.Conditions[0].Main
}

func (w *Weather) Description() string {
	if len(w.Conditions) == 0 {
		return ""
	}
	return w.Conditions[0].Description
}

func (w *Weather) Effect() effect.Type {
	return effect.Resolve(w.Condition())
}

// Location builds the location the provider resolved the request to.
func (w *Weather) Location() Location {
	return Location{
		Latitude:  w.Coord.Lat,
		Longitude: w.Coord.Lon,
		City:      w.Name,
		Country:   w.Sys.Country,
	}
}

func (temperature Temperature) Format(units Units) string {
	return fmt.Sprintf("%.0f%s", float64(temperature), units.TemperatureSymbol())
}

func (temperature Temperature) Celsius(units Units) float64 {
	switch units {
	case Imperial:
		return (float64(temperature) - 32) * 5 / 9
	case Kelvin:
		return float64(temperature) - 273.15
	default:
		return float64(temperature)
	}
}

// Icon picks a mood icon from the temperature in Celsius.
func (temperature Temperature) Icon(units Units) string {
	c := temperature.Celsius(units)
	if c <= 10 {
		return "\U0001F976" // 🥶
	} else if c <= 20 {
		return "🙂"
	} else if c < 30 {
		return "🤩"
	} else if c < 40 {
		return "\U0001F975" // 🥵
	} else {
		return "🤬"
	}
}
