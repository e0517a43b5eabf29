package api

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/yourusername/challenge-blueprint/internal/calendar"
	"github.com/yourusername/challenge-blueprint/internal/models"
)

func (s *Server) requestContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), requestTimeout)
}

// getProfile handles GET /v1/preferences/profile
func (s *Server) getProfile(c *fiber.Ctx) error {
	ctx, cancel := s.requestContext(c)
	defer cancel()
	profile, err := s.deps.Preferences.LoadProfile(ctx)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(profile)
}

// putProfile handles PUT /v1/preferences/profile
func (s *Server) putProfile(c *fiber.Ctx) error {
	var profile models.TraderProfile
	if err := c.BodyParser(&profile); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}
	ctx, cancel := s.requestContext(c)
	defer cancel()
	if err := s.deps.Preferences.SaveProfile(ctx, profile); err != nil {
		return writeError(c, err)
	}
	return c.JSON(profile)
}

// getStyle handles GET /v1/preferences/style
func (s *Server) getStyle(c *fiber.Ctx) error {
	ctx, cancel := s.requestContext(c)
	defer cancel()
	style, err := s.deps.Preferences.LoadRiskStyle(ctx)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"style": style, "riskPerTrade": style.PresetRiskPerTrade()})
}

// putStyle handles PUT /v1/preferences/style
func (s *Server) putStyle(c *fiber.Ctx) error {
	var body struct {
		Style string `json:"style"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}
	style, err := models.ParseRiskStyle(body.Style)
	if err != nil {
		return writeError(c, err)
	}
	ctx, cancel := s.requestContext(c)
	defer cancel()
	if err := s.deps.Preferences.SaveRiskStyle(ctx, style); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"style": style, "riskPerTrade": style.PresetRiskPerTrade()})
}

// getGoalInput handles GET /v1/preferences/goal
func (s *Server) getGoalInput(c *fiber.Ctx) error {
	ctx, cancel := s.requestContext(c)
	defer cancel()
	input, err := s.deps.Preferences.LoadGoalInput(ctx)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(input)
}

// putGoalInput handles PUT /v1/preferences/goal
func (s *Server) putGoalInput(c *fiber.Ctx) error {
	var input models.GoalInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}
	ctx, cancel := s.requestContext(c)
	defer cancel()
	if err := s.deps.Preferences.SaveGoalInput(ctx, input); err != nil {
		return writeError(c, err)
	}
	return c.JSON(input)
}

// getCalendarPreferences handles GET /v1/preferences/calendar
func (s *Server) getCalendarPreferences(c *fiber.Ctx) error {
	ctx, cancel := s.requestContext(c)
	defer cancel()
	prefs, err := s.deps.Preferences.LoadCalendarPreferences(ctx)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(prefs)
}

// putCalendarPreferences handles PUT /v1/preferences/calendar
func (s *Server) putCalendarPreferences(c *fiber.Ctx) error {
	var prefs models.CalendarPreferences
	if err := c.BodyParser(&prefs); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}
	if prefs.Currencies == nil {
		prefs.Currencies = []string{}
	}
	ctx, cancel := s.requestContext(c)
	defer cancel()
	if err := s.deps.Preferences.SaveCalendarPreferences(ctx, prefs); err != nil {
		return writeError(c, err)
	}
	return c.JSON(prefs)
}

// resetPreferences handles DELETE /v1/preferences
func (s *Server) resetPreferences(c *fiber.Ctx) error {
	ctx, cancel := s.requestContext(c)
	defer cancel()
	if err := s.deps.Preferences.Reset(ctx); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// calendarEvents handles GET /v1/calendar. Events are filtered by the stored
// calendar preferences unless ?all=true.
func (s *Server) calendarEvents(c *fiber.Ctx) error {
	if s.deps.Calendar == nil {
		return writeError(c, calendar.ErrDisabled)
	}
	ctx, cancel := s.requestContext(c)
	defer cancel()

	events, err := s.deps.Calendar.Events(ctx)
	if err != nil {
		return writeError(c, err)
	}
	if c.QueryBool("all", false) {
		return c.JSON(fiber.Map{"events": events, "count": len(events)})
	}

	prefs, err := s.deps.Preferences.LoadCalendarPreferences(ctx)
	if err != nil {
		return writeError(c, err)
	}
	filtered := calendar.Filter(events, prefs, s.now())
	return c.JSON(fiber.Map{"events": filtered, "count": len(filtered), "preferences": prefs})
}
