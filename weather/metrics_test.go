package weather

import (
	"testing"

	"github.com/Brawl345/matrixweather/model"
)

func TestNewMetrics(t *testing.T) {
	var w model.Weather
	w.Main.Temp = 34.6
	w.Main.FeelsLike = 38.2
	w.Main.Pressure = 1008
	w.Main.Humidity = 40
	deg := 290.0
	w.Wind.Deg = &deg
	vis := 9600.0
	w.Visibility = &vis

	m := NewMetrics(&w)

	if m.Temperature != 35 || m.FeelsLike != 38 {
		t.Errorf("Expected 35/38, got %d/%d", m.Temperature, m.FeelsLike)
	}
	if m.TempDiff != 3 {
		t.Errorf("Expected diff 3, got %d", m.TempDiff)
	}
	if m.WindDir != "W" {
		t.Errorf("Expected W, got %q", m.WindDir)
	}
	if m.VisibilityKM == nil || *m.VisibilityKM != 10 {
		t.Errorf("Expected 10 km visibility, got %v", m.VisibilityKM)
	}
	if m.PressureTrend != TrendSteady {
		t.Errorf("Expected steady trend, got %q", m.PressureTrend)
	}
}

func TestNewMetricsMissingFields(t *testing.T) {
	var w model.Weather
	m := NewMetrics(&w)

	if m.WindDeg != nil || m.WindDir != "" {
		t.Errorf("Expected no wind direction, got %v %q", m.WindDeg, m.WindDir)
	}
	if m.VisibilityKM != nil {
		t.Errorf("Expected no visibility, got %d", *m.VisibilityKM)
	}
	if m.Sunrise != nil || m.Sunset != nil {
		t.Errorf("Expected no sun times, got %v %v", m.Sunrise, m.Sunset)
	}
}

func TestNewMetricsSunTimesUseLocalZone(t *testing.T) {
	var w model.Weather
	w.Timezone = 4 * 3600
	w.Sys.Sunrise = 1700000000 // 22:13:20 UTC
	w.Sys.Sunset = 1700040000

	m := NewMetrics(&w)

	if m.Sunrise == nil || m.Sunset == nil {
		t.Fatalf("Expected sun times")
	}
	if got := m.Sunrise.Format("15:04"); got != "02:13" {
		t.Errorf("Expected 02:13 local, got %s", got)
	}
	if !m.Sunset.After(*m.Sunrise) {
		t.Errorf("Expected sunset after sunrise")
	}
}

func TestCompassDirection(t *testing.T) {
	tests := []struct {
		deg  float64
		want string
	}{
		{0, "N"},
		{22, "N"},
		{23, "NE"},
		{90, "E"},
		{180, "S"},
		{225, "SW"},
		{338, "N"},
		{360, "N"},
	}

	for _, test := range tests {
		if got := CompassDirection(test.deg); got != test.want {
			t.Errorf("CompassDirection(%v): Expected %s, got %s", test.deg, test.want, got)
		}
	}
}

func TestPressureTrend(t *testing.T) {
	tests := []struct {
		hPa  float64
		want string
	}{
		{1030, TrendRising},
		{1020, TrendSteady},
		{1000, TrendSteady},
		{995, TrendFalling},
	}

	for _, test := range tests {
		if got := PressureTrend(test.hPa); got != test.want {
			t.Errorf("PressureTrend(%v): Expected %s, got %s", test.hPa, test.want, got)
		}
	}
}
