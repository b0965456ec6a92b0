package ambience

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/Brawl345/matrixweather/effect"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

// noise is endless low-passed white noise. smooth is the one-pole filter
// coefficient in (0, 1]; lower is darker. gust modulates the amplitude at
// that frequency in Hz.
type noise struct {
	rng    *rand.Rand
	sr     beep.SampleRate
	smooth float64
	gust   float64
	gain   float64
	last   float64
	pos    int
}

func (n *noise) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		white := n.rng.Float64()*2 - 1
		n.last += n.smooth * (white - n.last)

		amp := n.gain
		if n.gust > 0 {
			t := float64(n.pos) / float64(n.sr)
			amp *= 0.6 + 0.4*math.Sin(2*math.Pi*n.gust*t)
		}

		s := amp * n.last
		samples[i][0] = s
		samples[i][1] = s
		n.pos++
	}
	return len(samples), true
}

func (n *noise) Err() error {
	return nil
}

// thunder is silence broken by rumbling claps at random intervals.
type thunder struct {
	rng   *rand.Rand
	sr    beep.SampleRate
	pos   int
	next  int
	env   float64
	decay float64
	last  float64
}

func newThunder(rng *rand.Rand, sr beep.SampleRate) *thunder {
	th := &thunder{
		rng:   rng,
		sr:    sr,
		decay: math.Exp(-1 / (float64(sr) * 0.8)),
	}
	th.schedule()
	return th
}

func (th *thunder) schedule() {
	wait := 4*time.Second + time.Duration(th.rng.Int64N(int64(8*time.Second)))
	th.next = th.pos + th.sr.N(wait)
}

func (th *thunder) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		if th.pos >= th.next {
			th.env = 1
			th.schedule()
		}
		white := th.rng.Float64()*2 - 1
		th.last += 0.08 * (white - th.last)

		s := 0.8 * th.env * th.last
		samples[i][0] = s
		samples[i][1] = s

		th.env *= th.decay
		th.pos++
	}
	return len(samples), true
}

func (th *thunder) Err() error {
	return nil
}

// tremolo modulates the volume of a streamer with a sine at rate Hz.
type tremolo struct {
	beep.Streamer
	sr    beep.SampleRate
	rate  float64
	depth float64
	pos   int
}

func (tr *tremolo) Stream(samples [][2]float64) (int, bool) {
	n, ok := tr.Streamer.Stream(samples)
	for i := 0; i < n; i++ {
		t := float64(tr.pos) / float64(tr.sr)
		vol := 1 - tr.depth*(0.5+0.5*math.Sin(2*math.Pi*tr.rate*t))
		samples[i][0] *= vol
		samples[i][1] *= vol
		tr.pos++
	}
	return n, ok
}

// newVolume scales s linearly; math.Log2(0) is -Inf so zero is silence.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// tones mixes sine tones at equal volume.
func tones(sr beep.SampleRate, gain float64, freqs ...float64) beep.Streamer {
	streamers := make([]beep.Streamer, 0, len(freqs))
	for _, f := range freqs {
		s, err := generators.SineTone(sr, f)
		if err != nil {
			log.Err(err).Float64("freq", f).Msg("Failed to create tone")
			continue
		}
		streamers = append(streamers, s)
	}
	if len(streamers) == 0 {
		return beep.Silence(-1)
	}
	return newVolume(beep.Mix(streamers...), gain/float64(len(streamers)))
}

// newStreamer returns the endless ambient loop for an effect.
func newStreamer(t effect.Type, sr beep.SampleRate, rng *rand.Rand) beep.Streamer {
	switch t {
	case effect.Rain:
		return &noise{rng: rng, sr: sr, smooth: 0.6, gain: 0.2}
	case effect.Storm:
		return beep.Mix(
			&noise{rng: rng, sr: sr, smooth: 0.5, gain: 0.15},
			newThunder(rng, sr),
		)
	case effect.Snow:
		return &noise{rng: rng, sr: sr, smooth: 0.05, gain: 0.15}
	case effect.Wind:
		return &noise{rng: rng, sr: sr, smooth: 0.1, gust: 0.2, gain: 0.35}
	case effect.Sun:
		return &tremolo{Streamer: tones(sr, 0.15, 220, 277.18, 329.63), sr: sr, rate: 0.1, depth: 0.3}
	case effect.Cloud:
		return &tremolo{Streamer: tones(sr, 0.15, 110, 164.81), sr: sr, rate: 0.05, depth: 0.4}
	case effect.Fog:
		return tones(sr, 0.2, 55, 82.41)
	default:
		return &tremolo{Streamer: tones(sr, 0.08, 880), sr: sr, rate: 2, depth: 1}
	}
}
