// Package validation wraps a shared go-playground validator with the
// catalog-aware tags used by request and service structs.
//
//	type prefsInput struct {
//	    Assets []models.Asset `json:"assets" validate:"required,min=1,dive,asset"`
//	}
//
//	if err := validation.Struct(&in); err != nil {
//	    // err is *apperr.ValidationError
//	}
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"coinpulse/internal/apperr"
	"coinpulse/internal/models"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Get returns the shared validator, registering custom tags on first use.
func Get() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonName)
		mustRegister(v, "asset", func(fl validator.FieldLevel) bool {
			return models.Asset(fl.Field().String()).Valid()
		})
		mustRegister(v, "investor_type", func(fl validator.FieldLevel) bool {
			return models.InvestorType(fl.Field().String()).Valid()
		})
		mustRegister(v, "content_type", func(fl validator.FieldLevel) bool {
			return models.ContentType(fl.Field().String()).Valid()
		})
		mustRegister(v, "feedback_type", func(fl validator.FieldLevel) bool {
			return models.FeedbackType(fl.Field().String()).Valid()
		})
		mustRegister(v, "item_id", func(fl validator.FieldLevel) bool {
			return utf8.RuneCountInString(fl.Field().String()) <= models.MaxItemIDLength
		})
		mustRegister(v, "vote_value", func(fl validator.FieldLevel) bool {
			n := fl.Field().Int()
			return n == models.VoteUp || n == models.VoteDown
		})
		validate = v
	})
	return validate
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %q: %v", tag, err))
	}
}

func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// Struct validates s and reports the first failing field as
// *apperr.ValidationError. Errors other than field failures are returned as is.
func Struct(s any) error {
	err := Get().Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	return Translate(fieldErrs[0])
}

// Translate turns one field failure into the API's validation error.
func Translate(fe validator.FieldError) *apperr.ValidationError {
	field := fe.Field()
	if i := strings.IndexByte(field, '['); i >= 0 {
		field = field[:i]
	}
	return apperr.Invalid(field, message(fe))
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.Slice || fe.Kind() == reflect.Array {
			return fmt.Sprintf("must contain at least %s entry", fe.Param())
		}
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "email":
		return "must be a valid email address"
	case "asset":
		return fmt.Sprintf("unsupported asset %q", fe.Value())
	case "investor_type":
		return fmt.Sprintf("unsupported investor type %q", fe.Value())
	case "content_type":
		return fmt.Sprintf("unsupported content type %q", fe.Value())
	case "feedback_type":
		return fmt.Sprintf("unsupported feedback type %q", fe.Value())
	case "item_id":
		return fmt.Sprintf("must be at most %d characters", models.MaxItemIDLength)
	case "vote_value":
		return "must be 1 or -1"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
