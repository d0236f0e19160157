// Package validation wraps go-playground/validator with the rules shared by the services.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/financeflow/internal/period"
)

var (
	once     sync.Once
	instance *validator.Validate
)

func get() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		// Decimals are validated as their float value so gt/gte/lte tags apply.
		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				f, _ := d.Float64()
				return f
			}

			return nil
		}, decimal.Decimal{})

		_ = v.RegisterValidation("month", func(fl validator.FieldLevel) bool {
			return period.Month(fl.Field().String()).Valid()
		})

		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})

		instance = v
	})

	return instance
}

// Struct validates s and wraps any violation in sentinel so callers can match it with errors.Is.
func Struct(sentinel error, s any) error {
	err := get().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", sentinel, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}

	return fmt.Errorf("%w: %s", sentinel, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())

	switch fe.Tag() {
	case "required", "notblank":
		return field + " is required"
	case "gt":
		return field + " must be greater than " + fe.Param()
	case "gte":
		return field + " must be at least " + fe.Param()
	case "oneof":
		return field + " must be one of: " + fe.Param()
	case "month":
		return field + " must be formatted as YYYY-MM"
	case "max":
		return field + " is too long"
	}

	return field + " is invalid"
}
