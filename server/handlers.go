package server

import (
	"errors"
	"net/url"
	"time"

	"github.com/Brawl345/matrixweather/app"
	"github.com/Brawl345/matrixweather/effect"
	"github.com/Brawl345/matrixweather/governor"
	"github.com/Brawl345/matrixweather/model"
	"github.com/Brawl345/matrixweather/particle"
	"github.com/Brawl345/matrixweather/weather"
	"github.com/gofiber/fiber/v2"
	"github.com/sosodev/duration"
)

type (
	particleView struct {
		Glyph string  `json:"glyph"`
		X     float64 `json:"x"`
		Y     float64 `json:"y"`
		Z     float64 `json:"z"`
	}

	preferencesView struct {
		AutoRefresh     bool        `json:"auto_refresh"`
		RefreshInterval string      `json:"refresh_interval"`
		Units           model.Units `json:"units"`
		Notifications   bool        `json:"notifications"`
	}

	refreshRequest struct {
		City string `json:"city"`
	}
)

func newPreferencesView(p model.Preferences) preferencesView {
	return preferencesView{
		AutoRefresh:     p.AutoRefresh,
		RefreshInterval: duration.Format(p.RefreshInterval),
		Units:           p.Units,
		Notifications:   p.Notifications,
	}
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "matrixweather",
		"version": s.version,
	})
}

func (s *Server) getWeather(c *fiber.Ctx) error {
	snap := s.state.Snapshot()
	if snap.Weather == nil {
		return fiber.NewError(fiber.StatusNotFound, "No weather data yet")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"location":   snap.Location,
			"condition":  snap.Weather.Condition(),
			"effect":     snap.Effect,
			"metrics":    weather.NewMetrics(snap.Weather),
			"units":      snap.Preferences.Units,
			"online":     snap.Online,
			"stale":      s.state.IsDataStale(s.now()),
			"last_fetch": snap.LastFetch,
			"weather":    snap.Weather,
		},
	})
}

// queryTier is the tier from the query, or the governor's.
func (s *Server) queryTier(c *fiber.Ctx) (governor.Tier, error) {
	raw := c.Query("tier")
	if raw == "" {
		return s.governor.Tier(), nil
	}
	tier, err := governor.ParseTier(raw)
	if err != nil {
		return tier, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return tier, nil
}

// queryEffect is the effect from the query, or the state's.
func (s *Server) queryEffect(c *fiber.Ctx) (effect.Type, error) {
	raw := c.Query("effect")
	if raw == "" {
		return s.state.Effect(), nil
	}
	t, ok := effect.ParseType(raw)
	if !ok {
		return t, fiber.NewError(fiber.StatusBadRequest, "unknown effect "+raw)
	}
	return t, nil
}

func (s *Server) getEffect(c *fiber.Ctx) error {
	e, err := s.queryEffect(c)
	if err != nil {
		return err
	}
	tier, err := s.queryTier(c)
	if err != nil {
		return err
	}

	catalog := s.factory.Catalog()
	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"effect":   e,
			"settings": catalog.Settings(e),
			"glyphs":   string(catalog.Glyphs(e)),
			"tier":     tier,
			"count":    s.factory.Count(e, tier),
		},
	})
}

func (s *Server) getFrame(c *fiber.Ctx) error {
	e, err := s.queryEffect(c)
	if err != nil {
		return err
	}
	tier, err := s.queryTier(c)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.field.Configure(e, tier, particle.DefaultBounds(), s.lowPower)
	elapsed := s.now().Sub(s.start)
	s.field.Advance(elapsed)

	particles := make([]particleView, 0, s.field.Len())
	s.field.Each(func(p *particle.Particle) {
		particles = append(particles, particleView{
			Glyph: string(p.Glyph),
			X:     p.Position.X,
			Y:     p.Position.Y,
			Z:     p.Position.Z,
		})
	})

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"effect":    s.field.Effect(),
			"tier":      s.field.Tier(),
			"elapsed":   elapsed.Seconds(),
			"bounds":    s.field.Bounds(),
			"particles": particles,
		},
	})
}

func (s *Server) resolve(c *fiber.Ctx) error {
	condition, err := url.PathUnescape(c.Params("condition"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid condition")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"condition": condition,
			"effect":    effect.Resolve(condition),
		},
	})
}

func (s *Server) getMetrics(c *fiber.Ctx) error {
	s.mu.Lock()
	particles := s.field.Len()
	s.mu.Unlock()

	data := fiber.Map{
		"tier":      s.governor.Tier(),
		"measured":  s.governor.Measured(),
		"particles": particles,
		"low_power": s.lowPower,
	}
	// frame figures only exist while something renders
	if s.governor.Measured() {
		data["governor"] = s.governor.Metrics()
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

func (s *Server) getNotifications(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    s.controller.Notifications().Active(s.now()),
	})
}

func (s *Server) getPreferences(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    newPreferencesView(s.state.Preferences()),
	})
}

func (s *Server) putPreferences(c *fiber.Ctx) error {
	body := newPreferencesView(s.state.Preferences())
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	units, err := model.ParseUnits(string(body.Units))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	interval, err := duration.Parse(body.RefreshInterval)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "refresh_interval must be an ISO 8601 duration")
	}
	if interval.ToTimeDuration() < time.Minute {
		return fiber.NewError(fiber.StatusBadRequest, "refresh_interval must be at least one minute")
	}

	preferences := model.Preferences{
		AutoRefresh:     body.AutoRefresh,
		RefreshInterval: interval.ToTimeDuration(),
		Units:           units,
		Notifications:   body.Notifications,
	}
	if err := s.controller.SetPreferences(c.UserContext(), preferences); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    newPreferencesView(preferences),
	})
}

func (s *Server) refresh(c *fiber.Ctx) error {
	var req refreshRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
	}

	if req.City != "" {
		if _, err := s.controller.SetCity(c.UserContext(), req.City); err != nil {
			if errors.Is(err, model.ErrAddressNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "City not found")
			}
			return err
		}
	}

	w, err := s.controller.Refresh(c.UserContext())
	if err != nil {
		var refreshErr *app.RefreshError
		if errors.As(err, &refreshErr) {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error":   true,
				"message": app.UserMessage(refreshErr.Err),
				"guid":    refreshErr.GUID,
			})
		}
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"location":  w.Location(),
			"condition": w.Condition(),
			"effect":    w.Effect(),
			"metrics":   weather.NewMetrics(w),
		},
	})
}
