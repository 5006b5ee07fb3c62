package pricing

import (
	"math"
	"slices"

	"checkout-service/models"

	"github.com/shopspring/decimal"
)

// FallbackPaymentCurrency is charged when the display currency is not
// accepted by the payment provider.
const FallbackPaymentCurrency models.CurrencyCode = "USD"

// Rate returns the multiplier for target. A missing, non-positive or
// non-finite entry counts as 1 (same as base).
func Rate(target models.CurrencyCode, rates models.RateTable) float64 {
	r, ok := rates[target]
	if !ok || r <= 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		return 1
	}
	return r
}

// Convert turns a base-currency amount into target, rounded half-up to two
// decimal places.
func Convert(amountBase float64, target models.CurrencyCode, rates models.RateTable) float64 {
	amount := decimal.NewFromFloat(finite(amountBase))
	rate := decimal.NewFromFloat(Rate(target, rates))
	return Round(amount.Mul(rate), 2)
}

// ToBase turns an amount expressed in from back into the base currency.
func ToBase(amount float64, from models.CurrencyCode, rates models.RateTable) float64 {
	if from == models.BaseCurrency || from == "" {
		return Round(decimal.NewFromFloat(finite(amount)), 2)
	}
	a := decimal.NewFromFloat(finite(amount))
	rate := decimal.NewFromFloat(Rate(from, rates))
	return Round(a.DivRound(rate, 8), 2)
}

// Round rounds d half away from zero to places and returns it as float64.
// For the non-negative amounts handled here that is round-half-up.
func Round(d decimal.Decimal, places int32) float64 {
	f, _ := d.Round(places).Float64()
	return f
}

// RoundFloat is Round for plain floats.
func RoundFloat(f float64, places int32) float64 {
	return Round(decimal.NewFromFloat(finite(f)), places)
}

// PaymentCurrency returns code when the payment provider accepts it and
// FallbackPaymentCurrency otherwise.
func PaymentCurrency(code models.CurrencyCode, supported []models.CurrencyCode) models.CurrencyCode {
	if slices.Contains(supported, code) {
		return code
	}
	return FallbackPaymentCurrency
}
