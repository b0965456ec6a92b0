// Package ambience plays a synthesized ambient loop that follows the effect.
package ambience

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/Brawl345/matrixweather/effect"
	"github.com/Brawl345/matrixweather/logger"
	"github.com/Brawl345/matrixweather/utils"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(44100)
	// DefaultVolume is the master volume, linear in [0, 1].
	DefaultVolume = 0.5
)

var log = logger.New("ambience")

type Soundscape struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	current     *beep.Ctrl
	effect      effect.Type
	volume      float64
	rng         *rand.Rand
	initialized bool
}

// New returns a silent soundscape; Init opens the device. A nil rng is
// seeded randomly.
func New(volume float64, rng *rand.Rand) *Soundscape {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Soundscape{
		mixer:  &beep.Mixer{},
		volume: utils.Clamp(volume, 0, 1),
		rng:    rng,
	}
}

// Init opens the audio device. Without it SetEffect only tracks the effect.
func (s *Soundscape) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	if s.effect != "" {
		s.swap(s.effect)
	}
	speaker.Play(s.mixer)
	s.initialized = true
	return nil
}

// SetEffect replaces the running loop with the one for t.
func (s *Soundscape) SetEffect(t effect.Type) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t == s.effect {
		return
	}
	s.effect = t
	if !s.initialized {
		return
	}

	speaker.Lock()
	s.swap(t)
	speaker.Unlock()

	log.Debug().Str("effect", string(t)).Msg("Ambience changed")
}

func (s *Soundscape) swap(t effect.Type) {
	if s.current != nil {
		s.current.Paused = true
	}
	s.mixer.Clear()

	s.current = &beep.Ctrl{Streamer: newVolume(newStreamer(t, sampleRate, s.rng), s.volume)}
	s.mixer.Add(s.current)
}

func (s *Soundscape) Effect() effect.Type {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.effect
}

// Close stops playback and releases the audio device.
func (s *Soundscape) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	speaker.Clear()
	s.mixer.Clear()
	s.current = nil
	speaker.Close()
	s.initialized = false
}
