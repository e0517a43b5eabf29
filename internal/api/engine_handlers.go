package api

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/yourusername/challenge-blueprint/internal/challenge"
	"github.com/yourusername/challenge-blueprint/internal/models"
)

// ProfileRequest carries a profile and the style to evaluate it under.
type ProfileRequest struct {
	Profile models.TraderProfile `json:"profile"`
	Style   models.RiskStyle     `json:"style"`
}

func (r ProfileRequest) style() models.RiskStyle {
	if r.Style == "" {
		return models.DefaultRiskStyle
	}
	return r.Style
}

// MetricsResponse is the tagged calculator result.
type MetricsResponse struct {
	Status  models.MetricsStatus   `json:"status"`
	Metrics models.StrategyMetrics `json:"metrics"`
}

// SimulationRequest is the body of POST /v1/simulations. Trials defaults to
// the configured trial count when omitted.
type SimulationRequest struct {
	Profile models.TraderProfile `json:"profile"`
	Style   models.RiskStyle     `json:"style"`
	Trials  *int                 `json:"trials"`
	Seed    int64                `json:"seed"`
}

// computeMetrics handles POST /v1/metrics
func (s *Server) computeMetrics(c *fiber.Ctx) error {
	var req ProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}
	m, err := s.deps.Simulations.Metrics(req.Profile, req.style())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(MetricsResponse{Status: models.StatusOK, Metrics: m})
}

// summary handles POST /v1/summary and returns the plain-text clipboard export.
func (s *Server) summary(c *fiber.Ctx) error {
	var req ProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}
	m, err := s.deps.Simulations.Metrics(req.Profile, req.style())
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(challenge.FormatSummary(req.Profile, req.style(), m))
}

// metricsCurve handles POST /v1/metrics/curve?band=worst&format=csv and
// exports one illustrative equity band as JSON (default) or CSV.
func (s *Server) metricsCurve(c *fiber.Ctx) error {
	var req ProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}
	m, err := s.deps.Simulations.Metrics(req.Profile, req.style())
	if err != nil {
		return writeError(c, err)
	}
	curve, err := challenge.Band(m.EquityCurveData, c.Query("band"))
	if err != nil {
		return writeError(c, err)
	}

	switch c.Query("format", "json") {
	case "csv":
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		return c.SendString(curve.ToCSV())
	case "json":
		data, err := curve.ToJSON()
		if err != nil {
			return writeError(c, err)
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(data)
	default:
		return writeError(c, &models.ValidationError{Field: "format", Reason: "must be json or csv"})
	}
}

// planGoal handles POST /v1/goal
func (s *Server) planGoal(c *fiber.Ctx) error {
	var input models.GoalInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}
	plan, err := s.deps.Simulations.Goal(input)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(plan)
}

// simulate handles POST /v1/simulations
func (s *Server) simulate(c *fiber.Ctx) error {
	var body SimulationRequest
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}
	req := models.SimulationRequest{
		Profile: body.Profile,
		Style:   body.Style,
		Trials:  s.deps.DefaultTrials,
		Seed:    body.Seed,
	}
	if req.Style == "" {
		req.Style = models.DefaultRiskStyle
	}
	if body.Trials != nil {
		req.Trials = *body.Trials
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), simulationTimeout)
	defer cancel()

	res, err := s.deps.Simulations.Simulate(ctx, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// recentRuns handles GET /v1/simulations/runs?limit=N
func (s *Server) recentRuns(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", s.deps.RecentLimit)
	if limit < 1 || limit > 500 {
		return writeError(c, &models.ValidationError{Field: "limit", Reason: "must be between 1 and 500"})
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
	defer cancel()

	runs, err := s.deps.Simulations.RecentRuns(ctx, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"runs": runs, "count": len(runs)})
}

// cacheStats handles GET /v1/simulations/cache
func (s *Server) cacheStats(c *fiber.Ctx) error {
	return c.JSON(s.deps.Simulations.CacheStats())
}

// clearCache handles DELETE /v1/simulations/cache
func (s *Server) clearCache(c *fiber.Ctx) error {
	s.deps.Simulations.ClearCache()
	return c.SendStatus(fiber.StatusNoContent)
}
