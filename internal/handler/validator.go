package handler

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/domain"
)

// Validator wraps the validator instance
type Validator struct {
	validate *validator.Validate
}

var (
	validate     *Validator
	validateOnce sync.Once
)

// platformKeyPattern bounds the keys accepted for generic platforms
var platformKeyPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,32}$`)

// InitValidator initializes the global validator
func InitValidator() {
	v := validator.New()

	// platform: one of the platforms with a dedicated sub-record
	_ = v.RegisterValidation("platform", validatePlatform)
	// platform_key: any well-formed platform key, known or generic
	_ = v.RegisterValidation("platform_key", validatePlatformKey)

	validate = &Validator{validate: v}
}

// GetValidator returns the global validator instance
func GetValidator() *Validator {
	validateOnce.Do(func() {
		if validate == nil {
			InitValidator()
		}
	})
	return validate
}

// ValidateStruct validates a struct using tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// FormatValidationError formats validation errors into a user-friendly map
// keyed by lowercased field name
func FormatValidationError(err error) map[string]string {
	if err == nil {
		return nil
	}

	errs := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errs["error"] = "Invalid request format"
		return errs
	}

	for _, e := range validationErrors {
		field := strings.ToLower(e.Field())
		if ns := e.Namespace(); strings.Count(ns, ".") > 1 {
			// Nested fields keep their parent, e.g. "target.username"
			parts := strings.Split(ns, ".")
			field = strings.ToLower(strings.Join(parts[len(parts)-2:], "."))
		}
		switch e.Tag() {
		case "required":
			errs[field] = "This field is required"
		case "platform", "platform_key":
			errs[field] = "Invalid platform"
		case "max":
			errs[field] = fmt.Sprintf("Must be at most %s characters", e.Param())
		case "min":
			errs[field] = fmt.Sprintf("Must be at least %s characters", e.Param())
		case "excludesall":
			errs[field] = "Contains invalid characters"
		default:
			errs[field] = "Invalid value"
		}
	}

	return errs
}

func validatePlatform(fl validator.FieldLevel) bool {
	platform := fl.Field().String()
	// Empty is left to the required tag
	if platform == "" {
		return true
	}
	return domain.IsKnownPlatform(strings.ToLower(platform))
}

func validatePlatformKey(fl validator.FieldLevel) bool {
	platform := fl.Field().String()
	if platform == "" {
		return true
	}
	return platformKeyPattern.MatchString(platform)
}
