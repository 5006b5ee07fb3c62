package pricing

import (
	"checkout-service/models"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// ISO 4217 currencies without minor units.
var zeroDecimalCurrencies = map[models.CurrencyCode]bool{
	"JPY": true,
	"KRW": true,
	"VND": true,
	"CLP": true,
	"ISK": true,
	"UGX": true,
	"PYG": true,
	"XAF": true,
	"XOF": true,
}

// FractionDigits returns how many decimals code is displayed with.
func FractionDigits(code models.CurrencyCode) int {
	if zeroDecimalCurrencies[code] {
		return 0
	}
	return 2
}

// Format converts amountBase into target and renders it with the target's
// symbol and English digit grouping, e.g. "$29.99" or "¥150,000". A code
// missing from symbols is rendered with the code itself: "XYZ 100.00".
func Format(amountBase float64, target models.CurrencyCode, rates models.RateTable, symbols models.SymbolTable) string {
	return FormatAmount(Convert(amountBase, target, rates), target, symbols)
}

// FormatAmount renders an amount already expressed in code.
func FormatAmount(amount float64, code models.CurrencyCode, symbols models.SymbolTable) string {
	digits := FractionDigits(code)
	text := groupDigits(amount, digits)
	if symbol, ok := symbols[code]; ok && symbol != "" {
		return symbol + text
	}
	return string(code) + " " + text
}

func groupDigits(amount float64, digits int) string {
	// x/text rounds half-to-even; settle the digits half-up first.
	rounded, _ := decimal.NewFromFloat(finite(amount)).Round(int32(digits)).Float64()
	p := message.NewPrinter(language.English)
	return p.Sprintf("%v", number.Decimal(rounded, number.Scale(digits)))
}
