package models

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = v.RegisterValidation("finite", validateFinite)
		_ = v.RegisterValidation("impact", validateImpact)
		validate = v
	})
	return validate
}

// validateFinite rejects NaN and infinities, which pass ordinary numeric comparisons.
func validateFinite(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Float32, reflect.Float64:
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	default:
		return true
	}
}

func validateImpact(fl validator.FieldLevel) bool {
	_, ok := impactRanks[Impact(fl.Field().String())]
	return ok
}

// validateStruct runs the struct tags and converts the first failure into a ValidationError.
func validateStruct(s interface{}) error {
	err := structValidator().Struct(s)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		return fieldError(validationErrors[0])
	}
	return fmt.Errorf("validation failed: %w", err)
}

func fieldError(fe validator.FieldError) *ValidationError {
	field := fe.Field()
	var reason string
	switch fe.Tag() {
	case "finite":
		reason = "must be a finite number"
	case "required":
		reason = "is required"
	case "gt":
		reason = fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		reason = fmt.Sprintf("must be at least %s", fe.Param())
	case "lt":
		reason = fmt.Sprintf("must be less than %s", fe.Param())
	case "lte":
		reason = fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		reason = fmt.Sprintf("must be one of [%s]", fe.Param())
	case "impact":
		reason = "must be one of low, medium, high"
	default:
		reason = fmt.Sprintf("failed %s check", fe.Tag())
	}
	return &ValidationError{Field: field, Reason: reason}
}
