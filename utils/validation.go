package utils

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

const maxSlugLength = 50

var (
	// category, genre and group slugs
	slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

	// Django's UnicodeUsernameValidator charset, ASCII only
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
)

var validatorInstance = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	mustRegisterPattern(v, "slug", slugPattern)
	mustRegisterPattern(v, "username", usernamePattern)
	return v
})

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return fld.Name
	}
	return name
}

func mustRegisterPattern(v *validator.Validate, tag string, re *regexp.Regexp) {
	if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("register %q validation: %v", tag, err))
	}
}

// fieldMessages maps a validator tag to a message format. Formats take the
// field name and, where they carry a second verb, the tag parameter.
var fieldMessages = map[string]string{
	"required": "%s is required",
	"email":    "%s must be a valid email",
	"uuid":     "%s must be a valid UUID",
	"min":      "%s must be at least %s",
	"max":      "%s must be at most %s",
	"gt":       "%s must be greater than %s",
	"gte":      "%s must be greater than or equal to %s",
	"lt":       "%s must be less than %s",
	"lte":      "%s must be less than or equal to %s",
	"oneof":    "%s must be one of: %s",
	"slug":     "%s may contain only letters, digits, hyphens and underscores",
	"username": "%s may contain only letters, digits and @/./+/-/_",
}

func describe(fe validator.FieldError) string {
	format, ok := fieldMessages[fe.Tag()]
	if !ok {
		return fmt.Sprintf("%s validation failed on '%s' tag", fe.Field(), fe.Tag())
	}
	if strings.Count(format, "%s") == 2 {
		return fmt.Sprintf(format, fe.Field(), fe.Param())
	}
	return fmt.Sprintf(format, fe.Field())
}

// ValidationError carries one message per offending field, keyed by JSON name.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(errs validator.ValidationErrors) *ValidationError {
	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		if _, seen := fields[fe.Field()]; !seen {
			fields[fe.Field()] = describe(fe)
		}
	}
	return &ValidationError{Message: "Validation failed", Fields: fields}
}

// ValidateStruct runs the `validate` tags on s.
func ValidateStruct(s any) error {
	err := validatorInstance().Struct(s)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return NewValidationError(verrs)
	}
	return err
}

func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// GetValidationFields returns nil unless err is a *ValidationError.
func GetValidationFields(err error) map[string]string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Fields
	}
	return nil
}

// ValidateSlug checks a slug taken from the URL path.
func ValidateSlug(slug string) error {
	if slug == "" || len(slug) > maxSlugLength || !slugPattern.MatchString(slug) {
		return fmt.Errorf("invalid slug format: %s", slug)
	}
	return nil
}
