package pricing

import "checkout-service/models"

// DefaultCurrencies returns the storefront's supported display currencies.
// Each call returns a fresh catalog.
func DefaultCurrencies() models.CurrencyCatalog {
	list := []models.Currency{
		{Code: "INR", Symbol: "₹", Name: "Indian Rupee"},
		{Code: "USD", Symbol: "$", Name: "US Dollar"},
		{Code: "EUR", Symbol: "€", Name: "Euro"},
		{Code: "GBP", Symbol: "£", Name: "British Pound"},
		{Code: "JPY", Symbol: "¥", Name: "Japanese Yen"},
		{Code: "AUD", Symbol: "A$", Name: "Australian Dollar"},
		{Code: "CAD", Symbol: "C$", Name: "Canadian Dollar"},
		{Code: "SGD", Symbol: "S$", Name: "Singapore Dollar"},
		{Code: "AED", Symbol: "AED ", Name: "UAE Dirham"},
		{Code: "CHF", Symbol: "CHF ", Name: "Swiss Franc"},
		{Code: "CNY", Symbol: "CN¥", Name: "Chinese Yuan"},
		{Code: "KRW", Symbol: "₩", Name: "South Korean Won"},
	}

	catalog := make(models.CurrencyCatalog, len(list))
	for _, c := range list {
		c.FractionDigits = FractionDigits(c.Code)
		catalog[c.Code] = c
	}
	return catalog
}

// DefaultRates returns fallback multipliers relative to INR, used until a
// live rate snapshot has been fetched.
func DefaultRates() models.RateTable {
	return models.RateTable{
		"INR": 1,
		"USD": 0.012,
		"EUR": 0.011,
		"GBP": 0.0095,
		"JPY": 1.8,
		"AUD": 0.018,
		"CAD": 0.016,
		"SGD": 0.016,
		"AED": 0.044,
		"CHF": 0.0106,
		"CNY": 0.087,
		"KRW": 16.3,
	}
}

// DefaultPaymentCurrencies lists the currencies the card/PayPal checkout
// accepts for cross-border orders.
func DefaultPaymentCurrencies() []models.CurrencyCode {
	return []models.CurrencyCode{"USD", "EUR", "GBP", "AUD", "CAD", "SGD", "JPY", "CHF"}
}
