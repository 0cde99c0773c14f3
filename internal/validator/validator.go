// Package validator registers custom validation rules with Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// iso4217 is the set of currency codes accepted for user accounts.
var iso4217 = map[string]bool{
	"USD": true, "EUR": true, "GBP": true, "JPY": true, "CNY": true,
	"AUD": true, "CAD": true, "CHF": true, "HKD": true, "SGD": true,
	"SEK": true, "NOK": true, "DKK": true, "NZD": true, "INR": true,
	"KRW": true, "BRL": true, "MXN": true, "ZAR": true, "PLN": true,
	"MYR": true, "THB": true, "IDR": true, "PHP": true, "VND": true,
}

// Register installs the custom rules into Gin's validator engine.
// Must be called once before the router starts serving.
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	if err := v.RegisterValidation("transaction_type", validateOneOf("income", "expense")); err != nil {
		return err
	}
	if err := v.RegisterValidation("budget_period", validateOneOf("weekly", "monthly", "yearly")); err != nil {
		return err
	}
	if err := v.RegisterValidation("recurring_frequency", validateOneOf("daily", "weekly", "monthly", "yearly")); err != nil {
		return err
	}
	if err := v.RegisterValidation("hex_color", validateHexColor); err != nil {
		return err
	}
	if err := v.RegisterValidation("iso4217", validateISO4217); err != nil {
		return err
	}

	return nil
}

func validateOneOf(allowed ...string) validator.Func {
	set := make(map[string]bool, len(allowed))
	for _, a := range allowed {
		set[a] = true
	}
	return func(fl validator.FieldLevel) bool {
		return set[fl.Field().String()]
	}
}

func validateHexColor(fl validator.FieldLevel) bool {
	return hexColorPattern.MatchString(fl.Field().String())
}

func validateISO4217(fl validator.FieldLevel) bool {
	return iso4217[fl.Field().String()]
}
