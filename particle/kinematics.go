package particle

import (
	"math"
	"math/rand/v2"

	"github.com/Brawl345/matrixweather/effect"
)

// Motion is the per-frame input shared by every particle of a batch.
type Motion struct {
	// Elapsed is seconds since the animation started
	Elapsed float64
	// Delta is seconds since the previous step
	Delta float64
	// LowPower damps the storm effect
	LowPower bool
	// SpeedFactor comes from the effect's visual settings
	SpeedFactor float64
	Bounds      Bounds
	// Rand is only used to resample x and z when a falling particle recycles
	Rand *rand.Rand
}

// Step moves p to its position for m and returns it. Oscillating effects are
// a function of time, phase and origin only; rain and snow integrate Delta.
func Step(p *Particle, m Motion) Vec3 {
	t := m.Elapsed
	o := p.Origin
	pos := &p.Position

	switch p.Effect {
	case effect.Sun:
		pos.X = o.X + math.Sin(t*SpeedSlow+p.Phase)*SunAmplitudeX
		pos.Y = o.Y + math.Cos(t*SunFrequencyY+p.Phase)*SunAmplitudeY

	case effect.Rain:
		pos.Y -= RainFallRate * m.Delta * m.SpeedFactor * FallBoost
		recycle(pos, m)

	case effect.Snow:
		pos.Y -= SnowFallRate * m.Delta * m.SpeedFactor * FallBoost
		pos.X += math.Sin(t+p.Phase) * SnowDrift
		recycle(pos, m)

	case effect.Wind:
		pos.X = o.X + math.Sin(t*SpeedFast+p.Phase)*WindAmplitudeX
		pos.Y = o.Y + math.Cos(t*WindFrequencyY+p.Phase)*WindAmplitudeY

	case effect.Storm:
		k := 1.0
		if m.LowPower {
			k = StormLowPower
		}
		pos.X = o.X + math.Sin(t*SpeedChaotic+p.Phase)*StormAmplitudeX*k
		pos.Y = o.Y + math.Cos(t*SpeedChaotic+p.Phase)*StormAmplitudeY*k
		pos.Z = o.Z + math.Sin(t*SpeedFast+p.Phase)*StormAmplitudeZ*k

	case effect.Fog:
		pos.X = o.X + math.Sin(t*SpeedVerySlow+p.Phase)*FloatAmplitude
		pos.Y = o.Y + math.Cos(t*SpeedVerySlow*FloatDamping+p.Phase)*FogAmplitudeY

	case effect.Cloud:
		pos.X = o.X + math.Sin(t*FloatFrequency+p.Phase)*FloatAmplitude
		pos.Y = o.Y + math.Cos(t*FloatFrequency*FloatDamping+p.Phase)*CloudAmplitudeY

	default:
		pos.X = o.X + math.Sin(t*FloatFrequency+p.Phase)*FloatAmplitude
		pos.Y = o.Y + math.Cos(t*FloatFrequency*FloatDamping+p.Phase)*DefaultAmplitudeY
		pos.Z = o.Z + math.Sin(t*FloatFrequency*DefaultDepthRatio+p.Phase)*DefaultAmplitudeZ
	}

	return *pos
}

// recycle moves a particle that fell through the bottom back to the top.
func recycle(pos *Vec3, m Motion) {
	if pos.Y >= m.Bounds.YBottom {
		return
	}
	pos.Y = m.Bounds.YTop
	pos.X = uniform(m.Rand, -m.Bounds.XExtent, m.Bounds.XExtent)
	pos.Z = uniform(m.Rand, -m.Bounds.ZExtent, m.Bounds.ZExtent)
}
