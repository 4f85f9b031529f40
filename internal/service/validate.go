package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the only accepted release_date format.
const DateLayout = "2006-01-02"

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// getValidator returns the shared validator.  It reports JSON parameter
// names as field names so errors match the tool contract.
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		_ = validate.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
			return isISODate(fl.Field().String())
		})
	})
	return validate
}

func isISODate(s string) bool {
	if len(s) != len(DateLayout) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// validateRequest runs the struct tags of req and converts the first
// failure into a field-level ValidationError.
func validateRequest(req any) error {
	err := getValidator().Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return validationError("", "invalid request: %v", err)
	}
	fe := fieldErrs[0]
	return validationError(fe.Field(), "%s", describe(fe))
}

func describe(fe validator.FieldError) string {
	f := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", f)
	case "notblank":
		return fmt.Sprintf("%s must not be empty", f)
	case "isodate":
		return fmt.Sprintf("%s must be in YYYY-MM-DD format", f)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", f, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", f, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", f, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", f, fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", f, fe.Tag())
}
