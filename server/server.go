// Package server exposes the weather state and the particle field over HTTP.
package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Brawl345/matrixweather/app"
	"github.com/Brawl345/matrixweather/governor"
	"github.com/Brawl345/matrixweather/logger"
	"github.com/Brawl345/matrixweather/particle"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const shutdownTimeout = 5 * time.Second

var log = logger.New("server")

type (
	Options struct {
		Controller *app.Controller
		Factory    *particle.Factory
		Governor   *governor.Governor
		LowPower   bool
		Version    string
	}

	Server struct {
		app        *fiber.App
		controller *app.Controller
		state      *app.State
		factory    *particle.Factory
		governor   *governor.Governor
		lowPower   bool
		version    string

		// mu guards field, which is advanced on demand by /frame
		mu    sync.Mutex
		field *particle.Field
		start time.Time
		now   func() time.Time
	}
)

func New(opts Options) *Server {
	s := &Server{
		controller: opts.Controller,
		state:      opts.Controller.State(),
		factory:    opts.Factory,
		governor:   opts.Governor,
		lowPower:   opts.LowPower,
		version:    opts.Version,
		field:      particle.NewField(opts.Factory),
		start:      time.Now(),
		now:        time.Now,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "matrixweather",
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          errorHandler,
		DisableStartupMessage: true,
	})

	s.app.Use(recover.New())
	s.app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${status} - ${method} ${path} (${latency})",
		Output: log,
	}))
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Get("/health", s.health)

	api := s.app.Group("/api/v1")
	{
		api.Get("/weather", s.getWeather)
		api.Get("/effect", s.getEffect)
		api.Get("/frame", s.getFrame)
		api.Get("/resolve/:condition", s.resolve)
		api.Get("/metrics", s.getMetrics)
		api.Get("/notifications", s.getNotifications)
		api.Get("/preferences", s.getPreferences)
		api.Put("/preferences", s.putPreferences)
		api.Post("/refresh", s.refresh)
	}
}

func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Listen(ctx context.Context, addr string) error {
	errChan := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("Server starting")
		errChan <- s.app.Listen(addr)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server...")
	if err := s.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return err
	}
	if err := <-errChan; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info().Msg("Server exited gracefully")
	return nil
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var fiberError *fiber.Error
	if errors.As(err, &fiberError) {
		code = fiberError.Code
		message = fiberError.Message
	} else {
		log.Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("Unhandled error")
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
