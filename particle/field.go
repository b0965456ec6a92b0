package particle

import (
	"time"

	"github.com/Brawl345/matrixweather/effect"
	"github.com/Brawl345/matrixweather/governor"
)

// Field owns the live batch. A new batch replaces the old one whenever the
// effect, tier or bounds change.
type Field struct {
	factory   *Factory
	effect    effect.Type
	tier      governor.Tier
	bounds    Bounds
	lowPower  bool
	throttle  Throttle
	particles []Particle
	lastStep  time.Duration
	built     bool
}

func NewField(factory *Factory) *Field {
	return &Field{
		factory: factory,
		effect:  effect.Default,
		bounds:  DefaultBounds(),
	}
}

// Configure sets what the field shows and rebuilds the batch if any input
// changed. It reports whether a new batch was created.
func (f *Field) Configure(e effect.Type, tier governor.Tier, bounds Bounds, lowPower bool) bool {
	f.lowPower = lowPower
	if lowPower {
		f.throttle.Interval = tier.Profile().UpdateInterval
	} else {
		f.throttle.Interval = 0
	}

	if f.built && e == f.effect && tier == f.tier && bounds == f.bounds {
		return false
	}

	f.effect = e
	f.tier = tier
	f.bounds = bounds
	f.particles = f.factory.CreateBatch(e, tier, bounds)
	f.built = true
	return true
}

// Advance steps every particle to elapsed. It returns false when the
// low-power gate skipped this frame.
func (f *Field) Advance(elapsed time.Duration) bool {
	if !f.throttle.Allow(elapsed) {
		return false
	}

	delta := elapsed - f.lastStep
	if delta < 0 {
		delta = 0
	}
	f.lastStep = elapsed

	m := Motion{
		Elapsed:     elapsed.Seconds(),
		Delta:       delta.Seconds(),
		LowPower:    f.lowPower,
		SpeedFactor: f.factory.Catalog().Settings(f.effect).SpeedFactor,
		Bounds:      f.bounds,
		Rand:        f.factory.Rand(),
	}
	for i := range f.particles {
		Step(&f.particles[i], m)
	}
	return true
}

// Each calls fn for every particle in enumeration order.
func (f *Field) Each(fn func(p *Particle)) {
	for i := range f.particles {
		fn(&f.particles[i])
	}
}

// Snapshot returns a copy of the live batch.
func (f *Field) Snapshot() []Particle {
	out := make([]Particle, len(f.particles))
	copy(out, f.particles)
	return out
}

func (f *Field) Effect() effect.Type {
	return f.effect
}

func (f *Field) Tier() governor.Tier {
	return f.tier
}

func (f *Field) Bounds() Bounds {
	return f.bounds
}

func (f *Field) Len() int {
	return len(f.particles)
}
