// Package validate wraps go-playground/validator with the project's custom
// tags and turns failures into apperr.ErrInvalidInput.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/georgemunganga/fuelnow-backend/internal/apperr"
	"github.com/go-playground/validator/v10"
)

var (
	handleRE = regexp.MustCompile(`^[a-z0-9_]+$`)
	phoneRE  = regexp.MustCompile(`^[0-9]{10}$`)

	once sync.Once
	v    *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		v.RegisterValidation("handle", func(fl validator.FieldLevel) bool {
			return handleRE.MatchString(fl.Field().String())
		})
		v.RegisterValidation("phone10", func(fl validator.FieldLevel) bool {
			return phoneRE.MatchString(fl.Field().String())
		})
		v.RegisterValidation("trimmin", func(fl validator.FieldLevel) bool {
			var n int
			fmt.Sscan(fl.Param(), &n)
			return len([]rune(strings.TrimSpace(fl.Field().String()))) >= n
		})
	})
	return v
}

// Struct validates s and reports the first failing field.
func Struct(s any) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", apperr.ErrInvalidInput, err)
	}
	return fmt.Errorf("%w: %s", apperr.ErrInvalidInput, message(verrs[0]))
}

func message(fe validator.FieldError) string {
	f := fe.Field()
	switch fe.Tag() {
	case "required":
		return f + " is required"
	case "email":
		return f + " must be a valid email address"
	case "min", "trimmin":
		return fmt.Sprintf("%s must be at least %s characters", f, fe.Param())
	case "handle":
		return f + " may only contain lowercase letters, digits and underscores"
	case "phone10":
		return f + " must be exactly 10 digits"
	default:
		return fmt.Sprintf("%s failed %q", f, fe.Tag())
	}
}
