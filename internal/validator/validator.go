// Package validator registers the planner's custom binding tags and type
// adapters on Gin's validator engine.
package validator

import (
	"reflect"
	"regexp"

	"homeplanner/internal/nullable"
	"homeplanner/internal/planner"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterOn(v)
	}
}

// RegisterOn installs the custom tags and type adapters on v.
func RegisterOn(v *validator.Validate) {
	_ = v.RegisterValidation("iso4217", validateISO4217)
	_ = v.RegisterValidation("hex_color", validateHexColor)
	_ = v.RegisterValidation("priority", validatePriority)
	_ = v.RegisterValidation("sort_field", validateSortField)
	_ = v.RegisterValidation("sort_order", validateSortOrder)

	// Money is validated as a number so gte/lte work on it.
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})

	// Patch fields expose their value, or nothing when absent or null.
	v.RegisterCustomTypeFunc(nullableValue[string], nullable.Field[string]{})
	v.RegisterCustomTypeFunc(nullableValue[int], nullable.Field[int]{})
	v.RegisterCustomTypeFunc(nullableValue[bool], nullable.Field[bool]{})
	v.RegisterCustomTypeFunc(nullableDecimalValue, nullable.Field[decimal.Decimal]{})
}

func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.InexactFloat64()
	}
	return nil
}

func nullableValue[T any](field reflect.Value) interface{} {
	f, ok := field.Interface().(nullable.Field[T])
	if !ok {
		return nil
	}
	if v, present := f.Get(); present {
		return v
	}
	return nil
}

func nullableDecimalValue(field reflect.Value) interface{} {
	f, ok := field.Interface().(nullable.Field[decimal.Decimal])
	if !ok {
		return nil
	}
	if d, present := f.Get(); present {
		return d.InexactFloat64()
	}
	return nil
}

func validateISO4217(fl validator.FieldLevel) bool {
	_, err := currency.ParseISO(fl.Field().String())
	return err == nil
}

func validateHexColor(fl validator.FieldLevel) bool {
	return hexColorRegex.MatchString(fl.Field().String())
}

func validatePriority(fl validator.FieldLevel) bool {
	p := fl.Field().Int()
	return p >= 1 && p <= 3
}

func validateSortField(fl validator.FieldLevel) bool {
	return planner.SortField(fl.Field().String()).Valid()
}

func validateSortOrder(fl validator.FieldLevel) bool {
	return planner.SortOrder(fl.Field().String()).Valid()
}
