// Package app holds the shared application state and drives weather refreshes.
package app

import (
	"sync"
	"time"

	"github.com/Brawl345/matrixweather/effect"
	"github.com/Brawl345/matrixweather/model"
)

type (
	// Snapshot is a consistent copy of the state.
	Snapshot struct {
		Weather     *model.Weather
		Effect      effect.Type
		Location    model.Location
		HasLocation bool
		Preferences model.Preferences
		LastFetch   time.Time
		Online      bool
		Loading     bool
	}

	State struct {
		mu          sync.RWMutex
		weather     *model.Weather
		effect      effect.Type
		forced      effect.Type
		location    model.Location
		hasLocation bool
		preferences model.Preferences
		lastFetch   time.Time
		online      bool
		loading     bool

		changed chan struct{}
	}
)

func NewState(preferences model.Preferences) *State {
	return &State{
		effect:      effect.Default,
		preferences: preferences,
		changed:     make(chan struct{}, 1),
	}
}

// Changed receives a value after any update. Updates coalesce.
func (s *State) Changed() <-chan struct{} {
	return s.changed
}

func (s *State) notify() {
	select {
	case s.changed <- struct{}{}:
	default:
	}
}

func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var w *model.Weather
	if s.weather != nil {
		copied := *s.weather
		w = &copied
	}

	return Snapshot{
		Weather:     w,
		Effect:      s.currentEffect(),
		Location:    s.location,
		HasLocation: s.hasLocation,
		Preferences: s.preferences,
		LastFetch:   s.lastFetch,
		Online:      s.online,
		Loading:     s.loading,
	}
}

func (s *State) currentEffect() effect.Type {
	if s.forced != "" {
		return s.forced
	}
	return s.effect
}

// Effect is the effect to render: a forced one if set, else the one resolved
// from the current weather.
func (s *State) Effect() effect.Type {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentEffect()
}

// ForcedEffect returns the pinned effect, or "" when following the weather.
func (s *State) ForcedEffect() effect.Type {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.forced
}

// ForceEffect pins the rendered effect. An empty type follows the weather again.
func (s *State) ForceEffect(t effect.Type) {
	s.mu.Lock()
	s.forced = t
	s.mu.Unlock()
	s.notify()
}

// SetWeather stores a fetch result and resolves its effect.
func (s *State) SetWeather(w *model.Weather, fetchedAt time.Time) {
	s.mu.Lock()
	s.weather = w
	s.effect = effect.Default
	if w != nil {
		s.effect = w.Effect()
	}
	s.lastFetch = fetchedAt
	s.mu.Unlock()
	s.notify()
}

func (s *State) SetLocation(location model.Location) {
	s.mu.Lock()
	s.location = location
	s.hasLocation = true
	s.mu.Unlock()
	s.notify()
}

func (s *State) Location() (model.Location, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.location, s.hasLocation
}

func (s *State) SetPreferences(preferences model.Preferences) {
	s.mu.Lock()
	s.preferences = preferences
	s.mu.Unlock()
	s.notify()
}

func (s *State) Preferences() model.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.preferences
}

func (s *State) SetOnline(online bool) {
	s.mu.Lock()
	changed := s.online != online
	s.online = online
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

func (s *State) setLoading(loading bool) {
	s.mu.Lock()
	s.loading = loading
	s.mu.Unlock()
	s.notify()
}

// IsDataStale reports whether there is no weather yet or the last fetch is
// older than the refresh interval.
func (s *State) IsDataStale(now time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.weather == nil || s.lastFetch.IsZero() {
		return true
	}
	return now.Sub(s.lastFetch) > s.preferences.RefreshInterval
}

func (s *State) ShouldAutoRefresh(now time.Time) bool {
	return s.Preferences().AutoRefresh && s.IsDataStale(now)
}

// Reset forgets the weather, the location and the fetch time. Preferences
// are kept.
func (s *State) Reset() {
	s.mu.Lock()
	s.weather = nil
	s.effect = effect.Default
	s.location = model.Location{}
	s.hasLocation = false
	s.lastFetch = time.Time{}
	s.online = false
	s.mu.Unlock()
	s.notify()
}
