package sanitize

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pressforge/core/internal/schema"
)

// Result is the outcome of validating one field value.
type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

func invalid(errs ...string) Result { return Result{Valid: false, Errors: errs} }

var validResult = Result{Valid: true}

// Validate checks value against the field's constraints. A custom Validate
// func short-circuits the built-in checks. Group and repeater children are not
// visited: only the composite value itself is checked for requiredness.
func Validate(value any, f *schema.Field) Result {
	if f == nil {
		return validResult
	}
	if f.Validate != nil {
		ok, msg := f.Validate(value, f)
		if ok {
			return validResult
		}
		if msg == "" {
			msg = fmt.Sprintf("%s is invalid", fieldName(f))
		}
		return invalid(msg)
	}

	if f.Required && schema.IsEmpty(value) {
		return invalid(fmt.Sprintf("%s is required", fieldName(f)))
	}
	if schema.IsEmpty(value) {
		return validResult
	}

	var errs []string
	s := toString(value)

	switch f.Type {
	case schema.TypeEmail:
		if !emailPattern.MatchString(strings.TrimSpace(s)) {
			errs = append(errs, fmt.Sprintf("%s must be a valid email address", fieldName(f)))
		}
	case schema.TypeURL:
		if !urlPattern.MatchString(strings.TrimSpace(s)) {
			errs = append(errs, fmt.Sprintf("%s must be a valid URL", fieldName(f)))
		}
	case schema.TypeNumber, schema.TypeRange:
		n, ok := toNumber(value)
		if !ok {
			errs = append(errs, fmt.Sprintf("%s must be a number", fieldName(f)))
			break
		}
		if f.Min != nil && n < *f.Min {
			errs = append(errs, fmt.Sprintf("%s must be at least %v", fieldName(f), *f.Min))
		}
		if f.Max != nil && n > *f.Max {
			errs = append(errs, fmt.Sprintf("%s must be at most %v", fieldName(f), *f.Max))
		}
	}

	if f.Pattern != "" {
		if re, err := regexp.Compile(f.Pattern); err == nil && !re.MatchString(s) {
			errs = append(errs, fmt.Sprintf("%s does not match the expected format", fieldName(f)))
		}
	}
	if f.MinLength != nil && utf8.RuneCountInString(s) < *f.MinLength {
		errs = append(errs, fmt.Sprintf("%s must be at least %d characters", fieldName(f), *f.MinLength))
	}
	if f.MaxLength != nil && utf8.RuneCountInString(s) > *f.MaxLength {
		errs = append(errs, fmt.Sprintf("%s must be at most %d characters", fieldName(f), *f.MaxLength))
	}

	if len(errs) > 0 {
		return invalid(errs...)
	}
	return validResult
}

func fieldName(f *schema.Field) string {
	if f.Label != "" {
		return f.Label
	}
	return f.ID
}
