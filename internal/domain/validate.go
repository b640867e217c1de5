package domain

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalid  = errors.New("invalid record")
	ErrNotFound = errors.New("not found")
)

var yearMonthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	if err := val.RegisterValidation("yearmonth", func(fl validator.FieldLevel) bool {
		return IsYearMonth(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return val
}

// IsYearMonth reports whether s has the form YYYY-MM with a valid month.
func IsYearMonth(s string) bool {
	return yearMonthPattern.MatchString(s)
}

// Validate checks struct tags on any domain record. Failures wrap ErrInvalid.
func Validate(record any) error {
	if err := v.Struct(record); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s failed on %q", ErrInvalid, fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}
