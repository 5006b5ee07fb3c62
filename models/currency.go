package models

import "time"

// CurrencyCode is an ISO 4217 code such as "USD" or "INR".
type CurrencyCode string

// BaseCurrency is the currency every stored price is denominated in.
const BaseCurrency CurrencyCode = "INR"

// Currency describes how a code is displayed.
type Currency struct {
	Code           CurrencyCode `json:"code"`
	Symbol         string       `json:"symbol"`
	Name           string       `json:"name"`
	FractionDigits int          `json:"fraction_digits"` // 0 for currencies without minor units
}

// CurrencyCatalog maps a code to its display metadata.
type CurrencyCatalog map[CurrencyCode]Currency

// SymbolTable maps a code to the prefix used when rendering amounts.
type SymbolTable map[CurrencyCode]string

// Symbols extracts the symbol table of the catalog.
func (c CurrencyCatalog) Symbols() SymbolTable {
	out := make(SymbolTable, len(c))
	for code, cur := range c {
		out[code] = cur.Symbol
	}
	return out
}

// RateTable holds multipliers relative to BaseCurrency.
type RateTable map[CurrencyCode]float64

// Clone returns an independent copy of the table.
func (t RateTable) Clone() RateTable {
	out := make(RateTable, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// ConvertRequest is the payload for POST /api/currency/convert.
type ConvertRequest struct {
	Amount   float64      `json:"amount" binding:"gte=0"`
	Currency CurrencyCode `json:"currency" binding:"required,currency_code"`
}

// ConvertResponse is returned by POST /api/currency/convert.
type ConvertResponse struct {
	Amount    float64      `json:"amount"`
	Converted float64      `json:"converted"`
	Formatted string       `json:"formatted"`
	Currency  CurrencyCode `json:"currency"`
	Rate      float64      `json:"rate"`
}

// RatesResponse is returned by GET /api/currency/rates.
type RatesResponse struct {
	Base              CurrencyCode   `json:"base"`
	Rates             RateTable      `json:"rates"`
	FetchedAt         time.Time      `json:"fetched_at"`
	Currencies        []Currency     `json:"currencies"`
	PaymentCurrencies []CurrencyCode `json:"payment_currencies"`
}
