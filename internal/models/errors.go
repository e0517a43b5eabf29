package models

import (
	"errors"
	"fmt"
)

// Custom errors
var (
	ErrUnreachableTarget = errors.New("profit target is unreachable: expected value per trade is not positive")
	ErrInvalidTrials     = errors.New("trials must be one of 100, 1000, 5000, 10000")
	ErrNotFound          = errors.New("record not found")
)

// ValidationError names the input field that failed a range or format check.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// MetricsStatus tags a calculator outcome for serialization.
type MetricsStatus string

const (
	StatusOK           MetricsStatus = "ok"
	StatusUnreachable  MetricsStatus = "unreachable"
	StatusInvalidInput MetricsStatus = "invalid_input"
)

// ClassifyError maps a calculator error onto its status tag and, for invalid
// input, the offending field. Unknown errors are reported as invalid input.
func ClassifyError(err error) (MetricsStatus, string) {
	if err == nil {
		return StatusOK, ""
	}
	if errors.Is(err, ErrUnreachableTarget) {
		return StatusUnreachable, ""
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		return StatusInvalidInput, verr.Field
	}
	return StatusInvalidInput, ""
}
