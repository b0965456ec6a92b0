package particle

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/Brawl345/matrixweather/effect"
	"github.com/Brawl345/matrixweather/governor"
)

func motion(t, dt float64) Motion {
	return Motion{
		Elapsed:     t,
		Delta:       dt,
		SpeedFactor: 1,
		Bounds:      DefaultBounds(),
		Rand:        rand.New(rand.NewPCG(1, 2)),
	}
}

func TestStepRecyclesFallingParticles(t *testing.T) {
	for _, e := range []effect.Type{effect.Rain, effect.Snow} {
		t.Run(string(e), func(t *testing.T) {
			p := Particle{
				Effect:   e,
				Origin:   Vec3{1, 0, 1},
				Position: Vec3{1, BoundsYBottom - 0.5, 1},
			}
			got := Step(&p, motion(1, 0.016))

			if got.Y != BoundsYTop {
				t.Errorf("Expected y reset to %v, got %v", BoundsYTop, got.Y)
			}
			if !DefaultBounds().Contains(got) {
				t.Errorf("Expected recycled particle inside bounds, got %+v", got)
			}
		})
	}
}

func TestStepRainFalls(t *testing.T) {
	p := Particle{Effect: effect.Rain, Position: Vec3{0, 10, 0}}
	m := motion(1, 0.1)
	m.SpeedFactor = 1.3

	got := Step(&p, m)
	want := 10 - RainFallRate*0.1*1.3*FallBoost
	if math.Abs(got.Y-want) > 1e-9 {
		t.Errorf("Expected y %v, got %v", want, got.Y)
	}
	if got.X != 0 || got.Z != 0 {
		t.Errorf("Expected rain to fall straight down, got %+v", got)
	}
}

func TestStepSnowFallsSlowerThanRain(t *testing.T) {
	rain := Particle{Effect: effect.Rain, Position: Vec3{0, 10, 0}}
	snow := Particle{Effect: effect.Snow, Position: Vec3{0, 10, 0}}
	m := motion(1, 0.1)

	Step(&rain, m)
	Step(&snow, m)

	if 10-snow.Position.Y >= 10-rain.Position.Y {
		t.Errorf("Expected snow (%v) to fall less than rain (%v)", snow.Position.Y, rain.Position.Y)
	}
}

func TestStepStormMovesOnAllAxes(t *testing.T) {
	p := Particle{Effect: effect.Storm, Phase: 0.3}

	got := Step(&p, motion(1.7, 0.016))
	if got.X == 0 || got.Y == 0 || got.Z == 0 {
		t.Errorf("Expected nonzero displacement on every axis, got %+v", got)
	}
}

func TestStepStormLowPowerDamps(t *testing.T) {
	full := Particle{Effect: effect.Storm, Phase: 0.3}
	damped := Particle{Effect: effect.Storm, Phase: 0.3}

	m := motion(1.7, 0.016)
	Step(&full, m)
	m.LowPower = true
	Step(&damped, m)

	if math.Abs(damped.Position.X-full.Position.X*StormLowPower) > 1e-9 {
		t.Errorf("Expected x damped by %v, got %v vs %v", StormLowPower, damped.Position.X, full.Position.X)
	}
}

func TestStepFogStaysNearOrigin(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 12))
	for i := 0; i < 50; i++ {
		origin := Vec3{rng.Float64()*40 - 20, rng.Float64()*30 - 15, 0}
		p := Particle{Effect: effect.Fog, Origin: origin, Position: origin, Phase: rng.Float64() * 2 * math.Pi}

		for step := 0; step <= 600; step++ {
			got := Step(&p, motion(float64(step)*0.1, 0.1))
			d := got.Sub(origin)
			if math.Abs(d.X) >= 2 || math.Abs(d.Y) >= 2 {
				t.Fatalf("Expected fog to stay within 2 units, got offset %+v", d)
			}
		}
	}
}

func TestStepDefaultMovesOnAllAxes(t *testing.T) {
	for _, e := range []effect.Type{effect.Default, effect.Type("aurora")} {
		p := Particle{Effect: e, Phase: 0.1}
		got := Step(&p, motion(2, 0.016))
		if got.X == 0 || got.Y == 0 || got.Z == 0 {
			t.Errorf("%s: expected nonzero displacement on every axis, got %+v", e, got)
		}
	}
}

func TestStepIsDeterministic(t *testing.T) {
	for _, e := range []effect.Type{effect.Sun, effect.Wind, effect.Storm, effect.Fog, effect.Cloud, effect.Default} {
		t.Run(string(e), func(t *testing.T) {
			a := Particle{Effect: e, Origin: Vec3{1, 2, 3}, Position: Vec3{1, 2, 3}, Phase: 1}
			b := a

			// b takes a detour through other times first.
			Step(&b, motion(9, 0.5))
			Step(&b, motion(0.2, 0.5))

			if Step(&a, motion(4, 0.016)) != Step(&b, motion(4, 0.016)) {
				t.Errorf("Expected identical positions for identical time")
			}
		})
	}
}

func TestStepOscillationAmplitudes(t *testing.T) {
	tests := []struct {
		effect effect.Type
		maxX   float64
		maxY   float64
	}{
		{effect.Sun, SunAmplitudeX, SunAmplitudeY},
		{effect.Wind, WindAmplitudeX, WindAmplitudeY},
		{effect.Cloud, FloatAmplitude, CloudAmplitudeY},
		{effect.Storm, StormAmplitudeX, StormAmplitudeY},
	}

	for _, tt := range tests {
		t.Run(string(tt.effect), func(t *testing.T) {
			p := Particle{Effect: tt.effect, Phase: 2}
			for step := 0; step < 500; step++ {
				got := Step(&p, motion(float64(step)*0.05, 0.05))
				if math.Abs(got.X) > tt.maxX+1e-9 || math.Abs(got.Y) > tt.maxY+1e-9 {
					t.Fatalf("Amplitude exceeded at step %d: %+v", step, got)
				}
			}
		})
	}
}

func TestThrottle(t *testing.T) {
	th := Throttle{Interval: 50 * time.Millisecond}

	steps := []struct {
		at   time.Duration
		want bool
	}{
		{0, true},
		{16 * time.Millisecond, false},
		{49 * time.Millisecond, false},
		{50 * time.Millisecond, true},
		{80 * time.Millisecond, false},
		{100 * time.Millisecond, true},
	}

	for _, s := range steps {
		if got := th.Allow(s.at); got != s.want {
			t.Errorf("Allow(%v): expected %v, got %v", s.at, s.want, got)
		}
	}

	var open Throttle
	if !open.Allow(0) || !open.Allow(time.Nanosecond) {
		t.Error("Expected zero interval never to throttle")
	}
}

func TestFieldRebuildsOnChange(t *testing.T) {
	field := NewField(newTestFactory(8))

	if !field.Configure(effect.Rain, governor.Medium, DefaultBounds(), false) {
		t.Fatal("Expected first configure to build a batch")
	}
	if field.Len() != 150 {
		t.Errorf("Expected 150 particles, got %d", field.Len())
	}
	if field.Configure(effect.Rain, governor.Medium, DefaultBounds(), false) {
		t.Error("Expected no rebuild without changes")
	}
	if !field.Configure(effect.Rain, governor.Low, DefaultBounds(), false) {
		t.Error("Expected rebuild on tier change")
	}
	if !field.Configure(effect.Sun, governor.Low, DefaultBounds(), false) {
		t.Error("Expected rebuild on effect change")
	}
	if !field.Configure(effect.Sun, governor.Low, DefaultBounds().Compact(), false) {
		t.Error("Expected rebuild on bounds change")
	}
	if field.Len() != 60 {
		t.Errorf("Expected 60 particles, got %d", field.Len())
	}
}

func TestFieldAdvanceThrottlesLowPower(t *testing.T) {
	field := NewField(newTestFactory(9))
	field.Configure(effect.Sun, governor.Low, DefaultBounds(), true)

	if !field.Advance(0) {
		t.Fatal("Expected first advance to run")
	}
	before := field.Snapshot()

	if field.Advance(10 * time.Millisecond) {
		t.Error("Expected advance inside the update interval to be skipped")
	}
	after := field.Snapshot()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("Expected skipped frame to leave particle %d unchanged", i)
		}
	}

	if !field.Advance(governor.Low.Profile().UpdateInterval) {
		t.Error("Expected advance after the update interval to run")
	}
}

func TestFieldSnapshotIsCopy(t *testing.T) {
	field := NewField(newTestFactory(10))
	field.Configure(effect.Storm, governor.Low, DefaultBounds(), false)

	snap := field.Snapshot()
	snap[0].Position.X = 999

	field.Each(func(p *Particle) {
		if p.Position.X == 999 {
			t.Fatal("Expected snapshot not to alias the live batch")
		}
	})
}
