// Package api exposes the blueprint engine over a JSON REST API.
package api

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/challenge-blueprint/internal/config"
	"github.com/yourusername/challenge-blueprint/internal/logger"
	"github.com/yourusername/challenge-blueprint/internal/metrics"
	"github.com/yourusername/challenge-blueprint/internal/models"
	"github.com/yourusername/challenge-blueprint/internal/preferences"
	"github.com/yourusername/challenge-blueprint/internal/service"
)

const (
	bodyLimit         = 1 << 20
	simulationTimeout = 30 * time.Second
	requestTimeout    = 10 * time.Second
)

// EventSource supplies economic-calendar events.
type EventSource interface {
	Events(ctx context.Context) ([]models.EconomicEvent, error)
}

// Dependencies are the collaborators behind the handlers. Calendar may be nil.
type Dependencies struct {
	Simulations   *service.SimulationService
	Preferences   *preferences.Store
	Calendar      EventSource
	DefaultTrials int
	RecentLimit   int
	Logger        *logrus.Logger
}

// Server holds the handlers.
type Server struct {
	deps   Dependencies
	logger *logrus.Logger
	now    func() time.Time
}

// NewApp builds the fiber application with middleware and routes.
func NewApp(deps Dependencies, cfg config.ServerConfig) *fiber.App {
	if deps.Logger == nil {
		deps.Logger = logger.Discard()
	}
	if deps.DefaultTrials == 0 {
		deps.DefaultTrials = 1000
	}
	if deps.RecentLimit <= 0 {
		deps.RecentLimit = 50
	}
	s := &Server{deps: deps, logger: deps.Logger, now: time.Now}

	app := fiber.New(fiber.Config{
		StrictRouting:         true,
		CaseSensitive:         true,
		AppName:               "challenge-blueprint",
		ReadTimeout:           seconds(cfg.ReadTimeoutSeconds, 10),
		WriteTimeout:          seconds(cfg.WriteTimeoutSeconds, 30),
		BodyLimit:             bodyLimit,
		ErrorHandler:          CustomErrorHandler,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(s.requestLogger())
	if cfg.AllowedOrigins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins: cfg.AllowedOrigins,
			AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
			AllowHeaders: "Origin,Content-Type,Accept",
			MaxAge:       3600,
		}))
	}
	if cfg.RateLimitPerMinute > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimitPerMinute,
			Expiration: time.Minute,
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(ErrorResponse{
					Error:   errRateLimited,
					Message: "Rate limit exceeded. Please try again later.",
					Code:    fiber.StatusTooManyRequests,
				})
			},
		}))
	}

	s.routes(app)
	return app
}

func (s *Server) routes(app *fiber.App) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"service": "challenge-blueprint", "status": "running"})
	})

	v1 := app.Group("/v1")
	v1.Post("/metrics", s.computeMetrics)
	v1.Post("/metrics/curve", s.metricsCurve)
	v1.Post("/summary", s.summary)
	v1.Post("/goal", s.planGoal)
	v1.Post("/simulations", s.simulate)
	v1.Get("/simulations/runs", s.recentRuns)
	v1.Get("/simulations/cache", s.cacheStats)
	v1.Delete("/simulations/cache", s.clearCache)

	v1.Delete("/preferences", s.resetPreferences)
	prefs := v1.Group("/preferences")
	prefs.Get("/profile", s.getProfile)
	prefs.Put("/profile", s.putProfile)
	prefs.Get("/style", s.getStyle)
	prefs.Put("/style", s.putStyle)
	prefs.Get("/goal", s.getGoalInput)
	prefs.Put("/goal", s.putGoalInput)
	prefs.Get("/calendar", s.getCalendarPreferences)
	prefs.Put("/calendar", s.putCalendarPreferences)

	v1.Get("/calendar", s.calendarEvents)

	calc := v1.Group("/calculators")
	calc.Post("/lot-size", s.lotSize)
	calc.Post("/lot-size-table", s.lotSizeTable)
	calc.Post("/compound-interest", s.compoundInterest)
	calc.Post("/risk-reward", s.riskReward)

	tools := v1.Group("/tools")
	tools.Post("/convert", s.convert)
	tools.Post("/password", s.generatePassword)
	tools.Post("/password/score", s.scorePassword)
	tools.Post("/text-stats", s.textStats)
	tools.Post("/grades", s.grades)
	tools.Post("/usernames", s.usernames)
	tools.Post("/qr", s.qrCode)
	tools.Post("/countdown", s.countdown)
}

// requestLogger logs each request and records it in the HTTP metrics.
func (s *Server) requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// Let the error handler set the status before it is recorded.
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		status := c.Response().StatusCode()
		metrics.RecordHTTPRequest(c.Route().Path, strconv.Itoa(status))
		s.logger.WithFields(logrus.Fields{
			"request_id": c.GetRespHeader(fiber.HeaderXRequestID),
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     status,
			"latency_ms": time.Since(start).Milliseconds(),
		}).Debug("HTTP request")
		return nil
	}
}

func seconds(n, fallback int) time.Duration {
	if n <= 0 {
		n = fallback
	}
	return time.Duration(n) * time.Second
}
