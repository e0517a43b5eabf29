package api

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/yourusername/challenge-blueprint/internal/calendar"
	"github.com/yourusername/challenge-blueprint/internal/models"
	"github.com/yourusername/challenge-blueprint/internal/service"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`
	Code    int    `json:"code"`
}

// Error tags beyond models.MetricsStatus.
const (
	errBadRequest   = "bad_request"
	errRateLimited  = "rate_limited"
	errUnavailable  = "unavailable"
	errTimeout      = "timeout"
	errInternal     = "internal_error"
	errRequestError = "request_failed"
)

// errorResponse maps a domain error onto its HTTP status and body.
func errorResponse(err error) ErrorResponse {
	var verr *models.ValidationError
	var ferr *fiber.Error
	switch {
	case errors.As(err, &verr):
		return ErrorResponse{Error: string(models.StatusInvalidInput), Message: verr.Error(), Field: verr.Field, Code: fiber.StatusBadRequest}
	case errors.Is(err, models.ErrInvalidTrials):
		return ErrorResponse{Error: string(models.StatusInvalidInput), Message: err.Error(), Field: "trials", Code: fiber.StatusBadRequest}
	case errors.Is(err, models.ErrUnreachableTarget):
		return ErrorResponse{Error: string(models.StatusUnreachable), Message: err.Error(), Code: fiber.StatusUnprocessableEntity}
	case errors.Is(err, service.ErrRateLimited):
		return ErrorResponse{Error: errRateLimited, Message: err.Error(), Code: fiber.StatusTooManyRequests}
	case errors.Is(err, calendar.ErrDisabled):
		return ErrorResponse{Error: errUnavailable, Message: err.Error(), Code: fiber.StatusServiceUnavailable}
	case errors.Is(err, context.DeadlineExceeded):
		return ErrorResponse{Error: errTimeout, Message: "request timed out", Code: fiber.StatusGatewayTimeout}
	case errors.As(err, &ferr):
		return ErrorResponse{Error: errRequestError, Message: ferr.Message, Code: ferr.Code}
	}
	return ErrorResponse{Error: errInternal, Message: err.Error(), Code: fiber.StatusInternalServerError}
}

func writeError(c *fiber.Ctx, err error) error {
	resp := errorResponse(err)
	return c.Status(resp.Code).JSON(resp)
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   errBadRequest,
		Message: message,
		Code:    fiber.StatusBadRequest,
	})
}

// CustomErrorHandler handles errors returned from handlers and middleware.
func CustomErrorHandler(c *fiber.Ctx, err error) error {
	return writeError(c, err)
}
