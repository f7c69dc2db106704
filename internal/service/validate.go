package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"registrar/internal/domain"
)

const notBlankTag = "notblank"

// newValidator builds the input validator. Field names in error
// reports come from json tags so they match the wire format.
func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation(notBlankTag, func(fl validator.FieldLevel) bool {
		if str, ok := fl.Field().Interface().(string); ok {
			return strings.TrimSpace(str) != ""
		}
		return false
	})

	return v
}

// check validates an input struct and converts violations into a
// domain.ValidationError listing every violated field, not just the
// first.
func (s *School) check(input any) error {
	err := s.validate.Struct(input)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	ve := &domain.ValidationError{}
	for _, fe := range verrs {
		ve.Fields = append(ve.Fields, domain.FieldError{
			Field:  fe.Field(),
			Reason: reason(fe),
		})
	}
	return ve
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case notBlankTag:
		return "cannot be blank"
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "gt":
		return "must be greater than " + fe.Param()
	default:
		return "is invalid"
	}
}
