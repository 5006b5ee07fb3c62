package pricing_test

import (
	"encoding/json"
	"math"
	"testing"

	"checkout-service/models"
	"checkout-service/pricing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// ---- extraction ----

func TestExtractString_Formatted(t *testing.T) {
	cases := map[string]float64{
		"₹2,499.00":    2499,
		"$29.99":       29.99,
		"¥150,000":     150000,
		" 1 234.5 ":    1234.5,
		"AED 1,000.25": 1000.25,
		"CN¥12":        12,
		".5":           0.5,
	}
	for in, want := range cases {
		assert.InDelta(t, want, pricing.ExtractString(in), 1e-9, in)
	}
}

func TestExtractString_GarbageIsZero(t *testing.T) {
	assert.Equal(t, 0.0, pricing.ExtractString("not a price"))
	assert.Equal(t, 0.0, pricing.ExtractString(""))
	assert.Equal(t, 0.0, pricing.ExtractString("."))
	assert.Equal(t, 0.0, pricing.ExtractString("1.2.3"))
}

func TestExtract_Numbers(t *testing.T) {
	assert.Equal(t, 12.5, pricing.Extract(12.5))
	assert.Equal(t, 7.0, pricing.Extract(7))
	assert.Equal(t, 3.0, pricing.Extract(int64(3)))
	assert.InDelta(t, 1.25, pricing.Extract(float32(1.25)), 1e-9)
	assert.Equal(t, 99.5, pricing.Extract(json.Number("99.5")))
	assert.Equal(t, 10.1, pricing.Extract(decimal.RequireFromString("10.1")))
	assert.Equal(t, 2499.0, pricing.Extract("₹2,499"))
}

func TestExtract_NonFiniteAndUnknownAreZero(t *testing.T) {
	assert.Equal(t, 0.0, pricing.Extract(math.NaN()))
	assert.Equal(t, 0.0, pricing.Extract(math.Inf(1)))
	assert.Equal(t, 0.0, pricing.Extract(nil))
	assert.Equal(t, 0.0, pricing.Extract([]int{1}))
}

// extract(format(a, c)) returns a for every supported symbol.
func TestExtract_RoundTripsFormat(t *testing.T) {
	catalog := pricing.DefaultCurrencies()
	symbols := catalog.Symbols()
	amounts := []float64{0, 0.01, 9.99, 29.99, 1234.56, 2499, 987654.32}

	for code := range catalog {
		rates := models.RateTable{code: 1}
		tolerance := 0.005
		if pricing.FractionDigits(code) == 0 {
			tolerance = 0.5
		}
		for _, a := range amounts {
			formatted := pricing.Format(a, code, rates, symbols)
			assert.InDelta(t, a, pricing.ExtractString(formatted), tolerance, "%s %s", code, formatted)
		}
	}
}

// ---- conversion ----

func TestConvert_RoundsHalfUp(t *testing.T) {
	rates := models.RateTable{"USD": 0.012}
	assert.Equal(t, 29.99, pricing.Convert(2499, "USD", rates))
	assert.Equal(t, 0.01, pricing.Convert(0.5, "USD", rates)) // 0.006
	assert.Equal(t, 1.01, pricing.Convert(1.005, "INR", models.RateTable{}))
}

func TestConvert_MissingRateDefaultsToOne(t *testing.T) {
	assert.Equal(t, 100.0, pricing.Convert(100, "XYZ", models.RateTable{}))
	assert.Equal(t, 100.0, pricing.Convert(100, "XYZ", nil))
	assert.Equal(t, 100.0, pricing.Convert(100, "USD", models.RateTable{"USD": 0}))
	assert.Equal(t, 100.0, pricing.Convert(100, "USD", models.RateTable{"USD": math.NaN()}))
}

func TestConvert_Monotonic(t *testing.T) {
	amounts := []float64{0, 0.01, 0.5, 1, 9.99, 10, 250.75, 2499, 100000}

	for _, r := range []float64{1, 1.8, 83.3, 150} {
		rates := models.RateTable{"X": r}
		for i := 1; i < len(amounts); i++ {
			assert.Less(t, pricing.Convert(amounts[i-1], "X", rates), pricing.Convert(amounts[i], "X", rates), "rate %v", r)
		}
	}

	// Below 1 the rounding grid can merge neighbours, order is still kept.
	rates := models.RateTable{"USD": 0.012}
	for i := 1; i < len(amounts); i++ {
		assert.LessOrEqual(t, pricing.Convert(amounts[i-1], "USD", rates), pricing.Convert(amounts[i], "USD", rates))
	}
	assert.Less(t, pricing.Convert(10, "USD", rates), pricing.Convert(2499, "USD", rates))
}

func TestToBase(t *testing.T) {
	rates := models.RateTable{"USD": 0.0125}
	assert.Equal(t, 8000.0, pricing.ToBase(100, "USD", rates))
	assert.Equal(t, 450.0, pricing.ToBase(450, "INR", rates))
	assert.Equal(t, 12.0, pricing.ToBase(12, "XYZ", rates))
}

func TestPaymentCurrency(t *testing.T) {
	supported := pricing.DefaultPaymentCurrencies()
	assert.Equal(t, models.CurrencyCode("EUR"), pricing.PaymentCurrency("EUR", supported))
	assert.Equal(t, models.CurrencyCode("USD"), pricing.PaymentCurrency("INR", supported))
	assert.Equal(t, models.CurrencyCode("USD"), pricing.PaymentCurrency("XYZ", supported))
}

// ---- formatting ----

func TestFormat_EndToEndUSD(t *testing.T) {
	rates := models.RateTable{"USD": 0.012}
	symbols := models.SymbolTable{"USD": "$"}

	assert.Equal(t, 29.99, pricing.Convert(2499.00, "USD", rates))
	assert.Equal(t, "$29.99", pricing.Format(2499.00, "USD", rates, symbols))
}

func TestFormat_JPYHasNoDecimals(t *testing.T) {
	got := pricing.Format(1000, "JPY", models.RateTable{"JPY": 150}, models.SymbolTable{"JPY": "¥"})
	assert.Equal(t, "¥150,000", got)
}

func TestFormat_Grouping(t *testing.T) {
	symbols := models.SymbolTable{"INR": "₹"}
	assert.Equal(t, "₹1,234,567.80", pricing.Format(1234567.8, "INR", models.RateTable{"INR": 1}, symbols))
	assert.Equal(t, "₹0.00", pricing.Format(0, "INR", nil, symbols))
}

func TestFormat_UnknownCodeUsesLabel(t *testing.T) {
	assert.Equal(t, "XYZ 100.00", pricing.Format(100, "XYZ", models.RateTable{}, models.SymbolTable{}))
}

func TestFormat_Deterministic(t *testing.T) {
	rates := pricing.DefaultRates()
	symbols := pricing.DefaultCurrencies().Symbols()
	first := pricing.Format(54321.09, "EUR", rates, symbols)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, pricing.Format(54321.09, "EUR", rates, symbols))
	}
}

func TestDefaultCurrencies_FractionDigits(t *testing.T) {
	catalog := pricing.DefaultCurrencies()
	assert.Equal(t, 0, catalog["JPY"].FractionDigits)
	assert.Equal(t, 0, catalog["KRW"].FractionDigits)
	assert.Equal(t, 2, catalog["USD"].FractionDigits)

	// fresh copy every call
	catalog["USD"] = models.Currency{Code: "USD", Symbol: "US$"}
	assert.Equal(t, "$", pricing.DefaultCurrencies()["USD"].Symbol)
}
