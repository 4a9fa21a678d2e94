// Package validation turns request structs into either a clean value or the
// full list of field errors.
package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Normalizer is implemented by requests that trim or lowercase fields
// before validation runs.
type Normalizer interface {
	Normalize()
}

// Defaulter is implemented by requests with optional fields that have
// default values.
type Defaulter interface {
	ApplyDefaults()
}

// FieldChecker is implemented by requests with rules spanning several
// fields. It returns one message per broken rule.
type FieldChecker interface {
	CheckFields() []string
}

var phonePattern = regexp.MustCompile(`^(?:\+62|62|0)8[1-9][0-9]{6,10}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})

	// decimal.Decimal is validated as a number so gt=0 and friends work.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		var hasLetter, hasDigit bool
		for _, r := range fl.Field().String() {
			switch {
			case unicode.IsLetter(r):
				hasLetter = true
			case unicode.IsDigit(r):
				hasDigit = true
			}
		}
		return hasLetter && hasDigit
	})

	// maxbytes bounds the UTF-8 encoded length rather than the rune count.
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len(fl.Field().String()) <= limit
	})

	_ = v.RegisterValidation("phone_id", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})

	return v
}

// Struct normalizes, defaults and validates req in place. It returns every
// problem found, or nil when req is valid.
func Struct(req any) []string {
	if n, ok := req.(Normalizer); ok {
		n.Normalize()
	}
	if d, ok := req.(Defaulter); ok {
		d.ApplyDefaults()
	}

	var problems []string
	if err := validate.Struct(req); err != nil {
		fieldErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return []string{err.Error()}
		}
		for _, fe := range fieldErrs {
			problems = append(problems, message(fe))
		}
	}

	if c, ok := req.(FieldChecker); ok {
		problems = append(problems, c.CheckFields()...)
	}

	return problems
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "required_with":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be %s or more", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be %s or less", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "maxbytes":
		return fmt.Sprintf("%s must be at most %s bytes", field, fe.Param())
	case "password":
		return fmt.Sprintf("%s must contain at least one letter and one digit", field)
	case "phone_id":
		return fmt.Sprintf("%s must be a valid Indonesian phone number", field)
	case "uuid", "uuid4":
		return fmt.Sprintf("%s must be a valid id", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
