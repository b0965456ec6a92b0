// Package governor picks and adjusts the performance tier from measured frame rate.
package governor

import (
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/Brawl345/matrixweather/logger"
)

const (
	// HistorySize is the number of one-second FPS samples averaged.
	HistorySize = 10
	// MeasureWindow is the minimum wall time between FPS samples.
	MeasureWindow = time.Second

	demoteRatio  = 0.7
	promoteRatio = 1.2
)

var log = logger.New("governor")

type (
	Metrics struct {
		FPS       int     `json:"fps"`
		FrameTime float64 `json:"frame_time_ms"`
		MemoryMB  uint64  `json:"memory_mb"`
		Tier      Tier    `json:"tier"`
	}

	ChangeFunc func(from, to Tier)

	Governor struct {
		mu          sync.Mutex
		tier        Tier
		frames      int
		windowStart time.Time
		history     []float64
		metrics     Metrics
		listeners   []ChangeFunc
	}
)

func New(initial Tier) *Governor {
	initial = initial.clamp()
	return &Governor{
		tier:    initial,
		history: make([]float64, 0, HistorySize),
		metrics: Metrics{Tier: initial},
	}
}

func (g *Governor) Tier() Tier {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.tier
}

// OnChange registers fn to be called after every tier change. fn runs on the
// goroutine that triggered the change and must not call back into g.
func (g *Governor) OnChange(fn ChangeFunc) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listeners = append(g.listeners, fn)
}

// Frame records a rendered frame at now. Once a measurement window has passed
// it samples the frame rate and adjusts the tier from the rolling average.
func (g *Governor) Frame(now time.Time) {
	g.mu.Lock()

	if g.windowStart.IsZero() {
		g.windowStart = now
	}
	g.frames++

	elapsed := now.Sub(g.windowStart)
	if elapsed < MeasureWindow {
		g.mu.Unlock()
		return
	}

	fps := math.Round(float64(g.frames) / elapsed.Seconds())
	frameTime := float64(elapsed) / float64(time.Millisecond) / float64(g.frames)

	g.history = append(g.history, fps)
	if len(g.history) > HistorySize {
		g.history = g.history[len(g.history)-HistorySize:]
	}
	avg := average(g.history)

	g.metrics.FPS = int(math.Round(avg))
	g.metrics.FrameTime = math.Round(frameTime*100) / 100
	g.metrics.MemoryMB = heapMB()

	g.frames = 0
	g.windowStart = now
	g.mu.Unlock()

	g.Adjust(avg)
}

// Adjust moves the tier by at most one step for the given average FPS and
// reports whether it changed.
func (g *Governor) Adjust(avgFPS float64) (Tier, bool) {
	g.mu.Lock()
	from := g.tier
	target := float64(from.Profile().TargetFPS)

	to := from
	switch {
	case avgFPS < target*demoteRatio:
		if from > Low {
			to = from - 1
		}
	case avgFPS > target*promoteRatio && from != High:
		to = from + 1
	}

	if to == from {
		g.mu.Unlock()
		return from, false
	}

	g.tier = to
	g.metrics.Tier = to
	listeners := append([]ChangeFunc(nil), g.listeners...)
	g.mu.Unlock()

	if to < from {
		log.Warn().
			Stringer("from", from).
			Stringer("to", to).
			Float64("avg_fps", avgFPS).
			Msg("Performance downgraded")
	} else {
		log.Info().
			Stringer("from", from).
			Stringer("to", to).
			Float64("avg_fps", avgFPS).
			Msg("Performance upgraded")
	}

	for _, fn := range listeners {
		fn(from, to)
	}
	return to, true
}

func (g *Governor) Metrics() Metrics {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.metrics
}

// Measured reports whether any frame rate sample has been taken.
func (g *Governor) Measured() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.history) > 0
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func heapMB() uint64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.HeapAlloc / 1024 / 1024
}
