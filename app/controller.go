package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Brawl345/matrixweather/geo"
	"github.com/Brawl345/matrixweather/logger"
	"github.com/Brawl345/matrixweather/model"
	"github.com/Brawl345/matrixweather/notify"
	"github.com/Brawl345/matrixweather/utils"
	"github.com/Brawl345/matrixweather/weather"
	"github.com/rs/xid"
)

// CheckInterval is how often Run looks at the staleness of the data.
const CheckInterval = 30 * time.Second

var log = logger.New("app")

type (
	Locator interface {
		Locate(ctx context.Context) (model.Location, error)
	}

	Options struct {
		Client        *weather.Client
		Locator       Locator
		Geocoder      model.GeocodingService
		Locations     model.LocationService
		Cache         model.WeatherCacheService
		Preferences   model.PreferencesService
		Notifications *notify.Queue
		DefaultCity   string
	}

	Controller struct {
		state         *State
		client        *weather.Client
		locator       Locator
		geocoder      model.GeocodingService
		locations     model.LocationService
		cache         model.WeatherCacheService
		preferences   model.PreferencesService
		notifications *notify.Queue
		defaultCity   string
		now           func() time.Time

		// refreshMu serializes refreshes
		refreshMu sync.Mutex
		mu        sync.Mutex
		city      string
	}

	// RefreshError is a failed refresh with the id it was logged under.
	RefreshError struct {
		GUID string
		Err  error
	}
)

func (e *RefreshError) Error() string {
	return fmt.Sprintf("refresh failed (%s): %v", e.GUID, e.Err)
}

func (e *RefreshError) Unwrap() error {
	return e.Err
}

func NewController(state *State, opts Options) *Controller {
	notifications := opts.Notifications
	if notifications == nil {
		notifications = notify.NewQueue()
	}
	return &Controller{
		state:         state,
		client:        opts.Client,
		locator:       opts.Locator,
		geocoder:      opts.Geocoder,
		locations:     opts.Locations,
		cache:         opts.Cache,
		preferences:   opts.Preferences,
		notifications: notifications,
		defaultCity:   strings.TrimSpace(opts.DefaultCity),
		now:           time.Now,
	}
}

func (c *Controller) State() *State {
	return c.state
}

func (c *Controller) Notifications() *notify.Queue {
	return c.notifications
}

// SetCityOverride makes refreshes look up a city by name instead of using
// coordinates. An empty name clears the override.
func (c *Controller) SetCityOverride(city string) {
	c.mu.Lock()
	c.city = strings.TrimSpace(city)
	c.mu.Unlock()
}

func (c *Controller) cityOverride() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.city
}

// Load restores preferences, location and the cached weather from storage.
// Missing entries are not errors. Restored weather is shown as offline until
// the next successful refresh.
func (c *Controller) Load(ctx context.Context) error {
	if c.preferences != nil {
		preferences, err := c.preferences.GetPreferences(ctx)
		if err != nil {
			return fmt.Errorf("loading preferences: %w", err)
		}
		c.applyPreferences(preferences)
	}

	if c.locations != nil {
		location, err := c.locations.GetLocation(ctx)
		switch {
		case err == nil:
			c.state.SetLocation(location)
		case !errors.Is(err, model.ErrLocationNotSet):
			return fmt.Errorf("loading location: %w", err)
		}
	}

	if _, err := c.restoreCache(ctx); err != nil && !errors.Is(err, model.ErrNoCachedWeather) {
		return fmt.Errorf("loading cached weather: %w", err)
	}
	return nil
}

func (c *Controller) restoreCache(ctx context.Context) (bool, error) {
	if c.cache == nil {
		return false, model.ErrNoCachedWeather
	}
	cached, err := c.cache.GetCachedWeather(ctx)
	if err != nil {
		return false, err
	}
	w := cached.Weather
	c.state.SetWeather(&w, cached.FetchedAt)
	c.state.SetOnline(false)
	log.Debug().
		Str("location", w.Name).
		Time("fetched_at", cached.FetchedAt).
		Msg("Restored cached weather")
	return true, nil
}

// Refresh fetches the current weather, updates the state and persists the
// result. On failure the previous weather stays in place, the state is
// marked offline and an error notification carrying the log id is queued.
func (c *Controller) Refresh(ctx context.Context) (*model.Weather, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	c.state.setLoading(true)
	defer c.state.setLoading(false)

	w, err := c.fetch(ctx)
	if err != nil {
		guid := xid.New().String()
		log.Error().
			Err(err).
			Str("guid", guid).
			Msg("error refreshing weather")

		c.state.SetOnline(false)
		if c.state.Snapshot().Weather == nil {
			if _, cacheErr := c.restoreCache(ctx); cacheErr != nil && !errors.Is(cacheErr, model.ErrNoCachedWeather) {
				log.Err(cacheErr).Msg("Failed to restore cached weather")
			}
		}

		c.notifications.Error(UserMessage(err) + utils.EmbedGUID(guid))
		return nil, &RefreshError{GUID: guid, Err: err}
	}

	now := c.now()
	location := w.Location()
	c.state.SetLocation(location)
	c.state.SetWeather(w, now)
	c.state.SetOnline(true)

	log.Info().
		Str("location", location.String()).
		Str("condition", w.Condition()).
		Str("effect", string(w.Effect())).
		Msg("Weather updated")

	c.persist(ctx, w, location, now)
	c.notifications.Success(fmt.Sprintf("Weather updated for %s", location))
	return w, nil
}

func (c *Controller) fetch(ctx context.Context) (*model.Weather, error) {
	if c.client == nil {
		return nil, weather.ErrMissingAPIKey
	}
	client := c.client.WithUnits(c.state.Preferences().Units)

	if city := c.cityOverride(); city != "" {
		return client.ByCity(ctx, city)
	}

	if location, ok := c.state.Location(); ok {
		return client.ByCoords(ctx, location.Latitude, location.Longitude)
	}

	if c.locator != nil {
		location, err := c.locator.Locate(ctx)
		if err == nil {
			return client.ByCoords(ctx, location.Latitude, location.Longitude)
		}
		log.Warn().Err(err).Msg("Could not determine current location")
		if c.defaultCity == "" {
			return nil, err
		}
		c.notifications.Warning(geo.UserMessage(err) + ", using " + c.defaultCity)
	}

	if c.defaultCity == "" {
		return nil, model.ErrLocationNotSet
	}
	return client.ByCity(ctx, c.defaultCity)
}

func (c *Controller) persist(ctx context.Context, w *model.Weather, location model.Location, fetchedAt time.Time) {
	if c.locations != nil {
		if err := c.locations.SetLocation(ctx, location); err != nil {
			log.Err(err).Msg("Failed to save location")
		}
	}
	if c.cache != nil {
		err := c.cache.SetCachedWeather(ctx, model.CachedWeather{
			Weather:   *w,
			Effect:    w.Effect(),
			FetchedAt: fetchedAt,
		})
		if err != nil {
			log.Err(err).Msg("Failed to save weather cache")
		}
	}
}

// RefreshIfStale refreshes when auto refresh is on and the data is stale.
func (c *Controller) RefreshIfStale(ctx context.Context) (bool, error) {
	if !c.state.ShouldAutoRefresh(c.now()) {
		return false, nil
	}
	_, err := c.Refresh(ctx)
	return true, err
}

// Run refreshes stale data until ctx is done.
func (c *Controller) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = CheckInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		// errors are logged and surfaced as notifications by Refresh
		_, _ = c.RefreshIfStale(ctx)

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// SetCity geocodes a query and makes it the current location.
func (c *Controller) SetCity(ctx context.Context, query string) (model.Location, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return model.Location{}, weather.ErrCityRequired
	}
	if c.geocoder == nil {
		c.SetCityOverride(query)
		return model.Location{City: query}, nil
	}

	location, err := c.geocoder.Geocode(ctx, query)
	if err != nil {
		return model.Location{}, err
	}
	c.useLocation(ctx, location)
	return location, nil
}

// UseCurrentLocation asks the locator where this machine is.
func (c *Controller) UseCurrentLocation(ctx context.Context) (model.Location, error) {
	if c.locator == nil {
		return model.Location{}, geo.ErrUnavailable
	}
	location, err := c.locator.Locate(ctx)
	if err != nil {
		c.notifications.Error(geo.UserMessage(err))
		return model.Location{}, err
	}
	c.useLocation(ctx, location)
	return location, nil
}

func (c *Controller) useLocation(ctx context.Context, location model.Location) {
	c.SetCityOverride("")
	c.state.SetLocation(location)
	if c.locations != nil {
		if err := c.locations.SetLocation(ctx, location); err != nil {
			log.Err(err).Msg("Failed to save location")
		}
	}
}

// SetPreferences stores and applies new preferences.
func (c *Controller) SetPreferences(ctx context.Context, preferences model.Preferences) error {
	if preferences.RefreshInterval <= 0 {
		preferences.RefreshInterval = model.DefaultRefreshInterval
	}
	if c.preferences != nil {
		if err := c.preferences.SetPreferences(ctx, preferences); err != nil {
			return err
		}
	}
	c.applyPreferences(preferences)
	return nil
}

func (c *Controller) applyPreferences(preferences model.Preferences) {
	c.state.SetPreferences(preferences)
	c.notifications.SetEnabled(preferences.Notifications)
}

// Reset clears the stored location and cached weather.
func (c *Controller) Reset(ctx context.Context) error {
	c.SetCityOverride("")
	c.state.Reset()
	if c.locations != nil {
		if err := c.locations.DeleteLocation(ctx); err != nil {
			return err
		}
	}
	if c.cache != nil {
		if err := c.cache.DeleteCachedWeather(ctx); err != nil {
			return err
		}
	}
	return nil
}

// UserMessage is the text shown to the user for a failed refresh.
func UserMessage(err error) string {
	var apiError *weather.APIError
	switch {
	case errors.Is(err, weather.ErrMissingAPIKey), errors.Is(err, weather.ErrInvalidAPIKey):
		return "Invalid API key format"
	case errors.As(err, &apiError) && apiError.Unauthorized():
		return "Invalid API key"
	case errors.As(err, &apiError) && apiError.Message != "":
		return "Weather service: " + apiError.Message
	case errors.Is(err, geo.ErrPermissionDenied), errors.Is(err, geo.ErrUnavailable), errors.Is(err, geo.ErrTimeout):
		return geo.UserMessage(err)
	default:
		return "Failed to fetch weather"
	}
}
