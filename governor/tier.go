package governor

import (
	"fmt"
	"strings"
	"time"
)

type Tier int

const (
	Low Tier = iota
	Medium
	High
)

type Profile struct {
	TargetFPS      int           `json:"target_fps"`
	MaxParticles   int           `json:"max_particles"`
	UpdateInterval time.Duration `json:"update_interval"`
}

var profiles = [...]Profile{
	Low:    {TargetFPS: 30, MaxParticles: 75, UpdateInterval: 50 * time.Millisecond},
	Medium: {TargetFPS: 45, MaxParticles: 100, UpdateInterval: 33 * time.Millisecond},
	High:   {TargetFPS: 60, MaxParticles: 150, UpdateInterval: 16 * time.Millisecond},
}

func (t Tier) String() string {
	switch t {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	default:
		return fmt.Sprintf("Tier(%d)", int(t))
	}
}

// Profile returns the tier's targets. Out of range tiers are clamped.
func (t Tier) Profile() Profile {
	return profiles[t.clamp()]
}

func (t Tier) clamp() Tier {
	if t < Low {
		return Low
	}
	if t > High {
		return High
	}
	return t
}

func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Tier) UnmarshalText(text []byte) error {
	parsed, err := ParseTier(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return Low, nil
	case "medium":
		return Medium, nil
	case "high":
		return High, nil
	}
	return Low, fmt.Errorf("unknown performance tier %q", s)
}

func Tiers() []Tier {
	return []Tier{Low, Medium, High}
}
