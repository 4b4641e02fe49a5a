// Валидация запросов через go-playground/validator.
package techblog

import (
	"regexp"
	"unicode/utf8"

	"github.com/go-playground/validator"
)

var (
	slugRegexp  = regexp.MustCompile(`^[a-z0-9-]+$`)
	yearRegexp  = regexp.MustCompile(`^[0-9]{4}$`)
	monthRegexp = regexp.MustCompile(`^(0[1-9]|1[0-2])$`)
)

type RequestValidator struct {
	validator *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New()
	if err := v.RegisterValidation("slug", slugValidator); err != nil {
		return nil
	}
	if err := v.RegisterValidation("year", yearValidator); err != nil {
		return nil
	}
	if err := v.RegisterValidation("month", monthValidator); err != nil {
		return nil
	}
	return &RequestValidator{v}
}

func (rv *RequestValidator) Validate(i interface{}) error {
	if err := rv.validator.Struct(i); err != nil {
		_, ok := err.(validator.ValidationErrors)
		if !ok {
			return nil
		}
		return err
	}
	return nil
}

func slugValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	lenStr := utf8.RuneCountInString(value)
	return slugRegexp.MatchString(value) && lenStr >= 1 && lenStr <= 100
}

func yearValidator(fl validator.FieldLevel) bool {
	return yearRegexp.MatchString(fl.Field().String())
}

func monthValidator(fl validator.FieldLevel) bool {
	return monthRegexp.MatchString(fl.Field().String())
}
