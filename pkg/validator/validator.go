package validator

import (
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// CustomValidator plugs go-playground/validator into echo.Context.Validate.
type CustomValidator struct {
	validator *validator.Validate
}

func CreateNewValidator() *CustomValidator {
	v := validator.New()
	// decimals are validated by their numeric value, so gte/lte tags apply to prices
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})

	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func decimalValue(field reflect.Value) interface{} {
	amount, ok := field.Interface().(decimal.Decimal)
	if !ok {
		return nil
	}

	value, _ := amount.Float64()
	return value
}
