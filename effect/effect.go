// Package effect maps weather conditions to matrix effect types and holds the
// per-effect visual tables.
package effect

type Type string

const (
	Sun     Type = "sun"
	Rain    Type = "rain"
	Snow    Type = "snow"
	Wind    Type = "wind"
	Cloud   Type = "cloud"
	Storm   Type = "storm"
	Fog     Type = "fog"
	Default Type = "default"
)

var types = []Type{Sun, Rain, Snow, Wind, Cloud, Storm, Fog, Default}

// conditions is keyed by the condition group name as the provider returns it.
var conditions = map[string]Type{
	"Thunderstorm": Storm,
	"Tornado":      Storm,
	"Drizzle":      Rain,
	"Rain":         Rain,
	"Snow":         Snow,
	"Clear":        Sun,
	"Clouds":       Cloud,
	"Mist":         Fog,
	"Fog":          Fog,
	"Haze":         Fog,
	"Smoke":        Fog,
	"Dust":         Fog,
	"Sand":         Fog,
	"Ash":          Fog,
	"Squall":       Wind,
}

// Resolve returns the effect for a weather condition. Matching is exact and
// case-sensitive; anything unrecognized, including "", yields Default.
func Resolve(condition string) Type {
	if t, ok := conditions[condition]; ok {
		return t
	}
	return Default
}

// ParseType parses a user supplied effect name.
func ParseType(s string) (Type, bool) {
	for _, t := range types {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// Types returns all effect types, Default last.
func Types() []Type {
	out := make([]Type, len(types))
	copy(out, types)
	return out
}

func (t Type) String() string {
	return string(t)
}

func (t Type) Valid() bool {
	_, ok := ParseType(string(t))
	return ok
}
