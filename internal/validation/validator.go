// Similia - Content-Based Media Recommendation Service
// Copyright 2026 Similia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/similia-io/similia

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// singleton validator instance
var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// posterSizeRe matches TMDB image size segments: "original" or a width
// segment like w185 / w500.
var posterSizeRe = regexp.MustCompile(`^(original|w\d{2,4})$`)

// FieldError represents a single field validation failure.
type FieldError struct {
	field  string
	tag    string
	param  string
	value  interface{}
	reason string
}

// Field returns the failed field as a dotted koanf path, e.g.
// "recommend.max_k". Fields without a koanf tag fall back to the Go
// field name.
func (e *FieldError) Field() string {
	return e.field
}

// Tag returns the validation tag that failed.
func (e *FieldError) Tag() string {
	return e.tag
}

// Param returns the parameter for the validation tag (e.g. "100" for "max=100").
func (e *FieldError) Param() string {
	return e.param
}

// Value returns the actual value that failed validation.
func (e *FieldError) Value() interface{} {
	return e.value
}

// Reason returns the failure description without the field name, e.g.
// "must be at least 1".
func (e *FieldError) Reason() string {
	return e.reason
}

// Error returns a human-readable error message.
func (e *FieldError) Error() string {
	return e.field + " " + e.reason
}

// StructError is a collection of field validation failures.
type StructError struct {
	errors []FieldError
}

// Errors returns the individual field errors.
func (se *StructError) Errors() []FieldError {
	return se.errors
}

// Error implements the error interface, returning a combined message.
func (se *StructError) Error() string {
	if len(se.errors) == 0 {
		return "validation failed"
	}

	messages := make([]string, len(se.errors))
	for i := range se.errors {
		messages[i] = se.errors[i].Error()
	}
	return strings.Join(messages, "; ")
}

// Get returns the singleton validator instance. The validator is
// initialized once with Similia's naming and custom validators.
// This function is thread-safe.
func Get() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Report fields under their koanf names so errors line up with
		// config keys rather than Go identifiers.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			tag := strings.SplitN(fld.Tag.Get("koanf"), ",", 2)[0]
			if tag == "" || tag == "-" {
				return fld.Name
			}
			return tag
		})

		// postersize: a TMDB image size segment ("original", w185, w500...)
		_ = validate.RegisterValidation("postersize", func(fl validator.FieldLevel) bool {
			return posterSizeRe.MatchString(fl.Field().String())
		})
	})

	return validate
}

// ValidateStruct validates a struct using the singleton validator.
// Returns nil if validation passes, or a *StructError listing every
// failed field.
func ValidateStruct(s interface{}) *StructError {
	err := Get().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		// Unexpected error type (e.g. a non-struct argument) - wrap it
		return &StructError{
			errors: []FieldError{{
				field:  "unknown",
				tag:    "unknown",
				reason: err.Error(),
			}},
		}
	}

	fieldErrors := make([]FieldError, len(validationErrs))
	for i, fieldErr := range validationErrs {
		fieldErrors[i] = FieldError{
			field:  namespacePath(fieldErr),
			tag:    fieldErr.Tag(),
			param:  fieldErr.Param(),
			value:  fieldErr.Value(),
			reason: translateReason(fieldErr),
		}
	}

	return &StructError{errors: fieldErrors}
}

// namespacePath returns the dotted field path with the root struct
// name stripped: "Config.recommend.max_k" becomes "recommend.max_k".
func namespacePath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// reasonTemplates maps validation tags to reason templates without params.
var reasonTemplates = map[string]string{
	"required":   "is required",
	"url":        "must be a valid URL",
	"http_url":   "must be a valid http or https URL",
	"postersize": "must be \"original\" or a TMDB width segment like w500",
}

// reasonWithParam maps validation tags to templates taking the param.
var reasonWithParam = map[string]string{
	"oneof":    "must be one of: %s",
	"gte":      "must be greater than or equal to %s",
	"lte":      "must be less than or equal to %s",
	"gt":       "must be greater than %s",
	"lt":       "must be less than %s",
	"gtefield": "must be greater than or equal to %s",
	"ltefield": "must be less than or equal to %s",
	"eq":       "must equal %s",
}

// translateReason converts a validator.FieldError into a human-readable
// description of the failed constraint, without the field name.
func translateReason(fe validator.FieldError) string {
	tag := fe.Tag()
	param := fe.Param()

	if template, ok := reasonTemplates[tag]; ok {
		return template
	}
	if template, ok := reasonWithParam[tag]; ok {
		return fmt.Sprintf(template, param)
	}

	// min/max read differently for strings (length) and numbers
	isString := fe.Kind() == reflect.String
	switch tag {
	case "min":
		if isString {
			return fmt.Sprintf("must be at least %s characters", param)
		}
		return fmt.Sprintf("must be at least %s", param)
	case "max":
		if isString {
			return fmt.Sprintf("must be at most %s characters", param)
		}
		return fmt.Sprintf("must be at most %s", param)
	default:
		return fmt.Sprintf("failed %s validation", tag)
	}
}
