package weather

import (
	"math"
	"time"

	"github.com/Brawl345/matrixweather/model"
	"github.com/Brawl345/matrixweather/utils"
)

const (
	PressureHigh = 1020
	PressureLow  = 1000

	TrendRising  = "↗"
	TrendFalling = "↘"
	TrendSteady  = "→"
)

var compassPoints = [...]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// Metrics are the derived values shown on the weather card.
type Metrics struct {
	Temperature   int     `json:"temperature"`
	FeelsLike     int     `json:"feels_like"`
	TempDiff      int     `json:"temp_diff"`
	Humidity      int     `json:"humidity"`
	Pressure      int     `json:"pressure"`
	PressureTrend string  `json:"pressure_trend"`
	WindSpeed     float64 `json:"wind_speed"`
	WindDeg       *int    `json:"wind_deg,omitempty"`
	WindDir       string  `json:"wind_dir,omitempty"`
	VisibilityKM  *int    `json:"visibility_km,omitempty"`
	Clouds        int     `json:"clouds"`
	// Sunrise and Sunset are in the location's own time zone.
	Sunrise *time.Time `json:"sunrise,omitempty"`
	Sunset  *time.Time `json:"sunset,omitempty"`
}

func NewMetrics(w *model.Weather) Metrics {
	temp := int(math.Round(float64(w.Main.Temp)))
	feels := int(math.Round(float64(w.Main.FeelsLike)))

	m := Metrics{
		Temperature:   temp,
		FeelsLike:     feels,
		TempDiff:      feels - temp,
		Humidity:      int(math.Round(w.Main.Humidity)),
		Pressure:      int(math.Round(w.Main.Pressure)),
		PressureTrend: PressureTrend(w.Main.Pressure),
		WindSpeed:     w.Wind.Speed,
		Clouds:        w.Clouds.All,
	}

	if w.Wind.Deg != nil {
		deg := int(math.Round(*w.Wind.Deg))
		m.WindDeg = &deg
		m.WindDir = CompassDirection(*w.Wind.Deg)
	}

	if w.Visibility != nil {
		km := int(math.Round(*w.Visibility / 1000))
		m.VisibilityKM = &km
	}

	zone := time.FixedZone("", w.Timezone)
	if w.Sys.Sunrise > 0 {
		sunrise := utils.TimestampToTime(w.Sys.Sunrise).In(zone)
		m.Sunrise = &sunrise
	}
	if w.Sys.Sunset > 0 {
		sunset := utils.TimestampToTime(w.Sys.Sunset).In(zone)
		m.Sunset = &sunset
	}

	return m
}

// CompassDirection maps degrees to one of eight compass points.
func CompassDirection(deg float64) string {
	i := int(math.Round(deg/45)) % len(compassPoints)
	if i < 0 {
		i += len(compassPoints)
	}
	return compassPoints[i]
}

func PressureTrend(hPa float64) string {
	switch {
	case hPa > PressureHigh:
		return TrendRising
	case hPa < PressureLow:
		return TrendFalling
	default:
		return TrendSteady
	}
}
