// Package tui renders the particle field and the weather card in a terminal.
package tui

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/Brawl345/matrixweather/app"
	"github.com/Brawl345/matrixweather/effect"
	"github.com/Brawl345/matrixweather/governor"
	"github.com/Brawl345/matrixweather/logger"
	"github.com/Brawl345/matrixweather/model"
	"github.com/Brawl345/matrixweather/particle"
	"github.com/gdamore/tcell/v2"
)

const (
	// hudRows are reserved at the bottom for the status line and key help.
	hudRows = 2
	// compactWidth is the width below which the field uses compact bounds.
	compactWidth = 80
	// refreshInterval paces frames independent of the tier so the governor
	// can measure headroom above the tier's target.
	refreshInterval = time.Second / 60
)

var log = logger.New("tui")

type (
	// Soundscape follows the rendered effect with ambient sound.
	Soundscape interface {
		SetEffect(t effect.Type)
	}

	Options struct {
		Screen     tcell.Screen
		Controller *app.Controller
		Factory    *particle.Factory
		Governor   *governor.Governor
		Sound      Soundscape
		// LowPower throttles particle updates and damps storm motion.
		LowPower bool
		// Tier pins the tier instead of following the governor.
		Tier *governor.Tier
	}

	View struct {
		screen     tcell.Screen
		controller *app.Controller
		state      *app.State
		governor   *governor.Governor
		field      *particle.Field
		palette    *palette
		sound      Soundscape
		lowPower   bool
		tier       *governor.Tier

		width, height int
		start         time.Time
		soundEffect   effect.Type
		locating      atomic.Bool
	}
)

func New(opts Options) *View {
	v := &View{
		screen:     opts.Screen,
		controller: opts.Controller,
		state:      opts.Controller.State(),
		governor:   opts.Governor,
		field:      particle.NewField(opts.Factory),
		palette:    newPalette(opts.Factory.Catalog()),
		sound:      opts.Sound,
		lowPower:   opts.LowPower,
		tier:       opts.Tier,
	}
	v.width, v.height = v.screen.Size()
	return v
}

func (v *View) currentTier() governor.Tier {
	if v.tier != nil {
		return *v.tier
	}
	return v.governor.Tier()
}

func (v *View) bounds() particle.Bounds {
	if v.width < compactWidth {
		return particle.DefaultBounds().Compact()
	}
	return particle.DefaultBounds()
}

// Run draws frames until ctx is done or the user quits.
func (v *View) Run(ctx context.Context) error {
	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				close(eventChan)
				return
			}
			eventChan <- ev
		}
	}()

	v.start = time.Now()
	v.frame(v.start)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-eventChan:
			if !ok {
				return nil
			}
			if !v.handleEvent(ctx, ev) {
				return nil
			}

		case now := <-ticker.C:
			v.frame(now)
		}
	}
}

// frame advances the field to now and redraws.
func (v *View) frame(now time.Time) {
	v.governor.Frame(now)

	e := v.state.Effect()
	if v.field.Configure(e, v.currentTier(), v.bounds(), v.lowPower) {
		log.Debug().
			Str("effect", string(e)).
			Stringer("tier", v.field.Tier()).
			Int("particles", v.field.Len()).
			Msg("New particle batch")
	}
	if v.sound != nil && e != v.soundEffect {
		v.soundEffect = e
		v.sound.SetEffect(e)
	}

	v.field.Advance(now.Sub(v.start))
	v.draw(now)
}

func (v *View) handleEvent(ctx context.Context, ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		v.width, v.height = v.screen.Size()
		v.screen.Sync()

	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}

		switch ev.Rune() {
		case 'q':
			return false
		case 'r':
			go func() {
				// failures are logged and queued as notifications
				_, _ = v.controller.Refresh(ctx)
			}()
		case 'e':
			v.cycleEffect()
		case 't':
			v.cycleTier()
		case 'u':
			v.cycleUnits(ctx)
		case 'l':
			v.locate(ctx)
		}
	}
	return true
}

// cycleEffect steps through the forced effects, ending with following the
// weather again.
func (v *View) cycleEffect() {
	types := effect.Types()

	next := types[0]
	if forced := v.state.ForcedEffect(); forced != "" {
		next = ""
		for i, t := range types {
			if t == forced && i+1 < len(types) {
				next = types[i+1]
			}
		}
	}
	v.state.ForceEffect(next)

	if next == "" {
		v.controller.Notifications().Info("Following the weather")
	} else {
		v.controller.Notifications().Info("Effect: " + string(next))
	}
}

func (v *View) cycleTier() {
	var next governor.Tier
	switch {
	case v.tier == nil:
		next = governor.Low
	case *v.tier == governor.High:
		v.tier = nil
		v.controller.Notifications().Info("Tier: automatic")
		return
	default:
		next = *v.tier + 1
	}
	v.tier = &next
	v.controller.Notifications().Info("Tier: " + next.String())
}

func (v *View) cycleUnits(ctx context.Context) {
	prefs := v.state.Preferences()
	switch prefs.Units {
	case model.Metric:
		prefs.Units = model.Imperial
	case model.Imperial:
		prefs.Units = model.Kelvin
	default:
		prefs.Units = model.Metric
	}
	if err := v.controller.SetPreferences(ctx, prefs); err != nil {
		log.Err(err).Msg("Failed to save preferences")
		return
	}
	go func() {
		_, _ = v.controller.Refresh(ctx)
	}()
}

func (v *View) locate(ctx context.Context) {
	if !v.locating.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer v.locating.Store(false)
		if _, err := v.controller.UseCurrentLocation(ctx); err != nil {
			log.Err(err).Msg("Failed to locate")
			return
		}
		_, _ = v.controller.Refresh(ctx)
	}()
}
