package controllers

import (
	"fmt"

	"checkout-service/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the domain tags used in request bindings to
// gin's validator engine.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	if err := v.RegisterValidation("service_type", validServiceType); err != nil {
		return fmt.Errorf("register service_type: %w", err)
	}
	if err := v.RegisterValidation("currency_code", validCurrencyCode); err != nil {
		return fmt.Errorf("register currency_code: %w", err)
	}
	return nil
}

func validServiceType(fl validator.FieldLevel) bool {
	return models.ServiceType(fl.Field().String()).Valid()
}

// Codes are three ASCII letters in either case; unknown codes are allowed
// and rendered with the code as label.
func validCurrencyCode(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) != 3 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i] | 0x20
		if c < 'a' || c > 'z' {
			return false
		}
	}
	return true
}
