// Package pricing turns display prices back into numbers and renders
// base-currency amounts in a display currency.
//
// Every table (rates, symbols) is passed in by the caller; the package holds
// no mutable state.
package pricing

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Extract returns the numeric amount carried by v. Numbers are returned
// unchanged, strings are cleaned with ExtractString. Anything that cannot be
// read as a finite amount yields 0.
func Extract(v interface{}) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case string:
		return ExtractString(n)
	case float64:
		return finite(n)
	case float32:
		return finite(float64(n))
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return finite(f)
		}
		return ExtractString(n.String())
	case decimal.Decimal:
		f, _ := n.Float64()
		return finite(f)
	}
	return 0
}

// ExtractString drops every character that is not an ASCII digit or '.'
// (currency symbols, group separators, whitespace) and parses the rest.
// Empty or malformed input yields 0.
func ExtractString(s string) float64 {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= '0' && c <= '9') || c == '.' {
			b.WriteByte(c)
		}
	}

	f, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return finite(f)
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
