package providers

import (
	"math"
	"strings"

	"checkout-service/models"
	"checkout-service/pricing"
)

// HeuristicName is the provider name reported on fallback estimates.
const HeuristicName = "Heuristic"

// HeuristicConfig holds the tariff used when no live quote is available.
// Amounts are in the base currency.
type HeuristicConfig struct {
	OriginCountry    string
	OceanRatePerCBM  float64
	MinOceanCBM      float64
	OceanDocumentFee float64
	AirRatePerKg     float64
	MinAirKg         float64
}

// DefaultHeuristicConfig is the exporter's published freight tariff.
func DefaultHeuristicConfig() HeuristicConfig {
	return HeuristicConfig{
		OriginCountry:    "IN",
		OceanRatePerCBM:  9500,
		MinOceanCBM:      1,
		OceanDocumentFee: 3500,
		AirRatePerKg:     650,
		MinAirKg:         5,
	}
}

// Fallback is a heuristic base estimate.
type Fallback struct {
	Amount      float64
	Currency    models.CurrencyCode
	TransitDays models.TransitDays
	CarrierName string
}

// HeuristicEstimator prices a parcel from a flat tariff scaled by
// destination zone.
type HeuristicEstimator struct {
	cfg HeuristicConfig
}

func NewHeuristicEstimator(cfg HeuristicConfig) *HeuristicEstimator {
	return &HeuristicEstimator{cfg: cfg}
}

// Estimate never fails; an unknown country falls in the farthest zone.
func (h *HeuristicEstimator) Estimate(parcel models.Parcel, dest models.Destination, t models.ServiceType) Fallback {
	domestic := isDomestic(dest.Country, h.cfg.OriginCountry)
	zone := zoneMultiplier(dest.Country, domestic)

	var f Fallback
	switch t {
	case models.ServiceTypeAir:
		kg := math.Max(parcel.WeightKg, h.cfg.MinAirKg)
		f.Amount = kg * h.cfg.AirRatePerKg * zone
		f.CarrierName = "Air freight (estimated)"
		f.TransitDays = models.TransitDays{Min: 5, Max: 10}
		if domestic {
			f.TransitDays = models.TransitDays{Min: 2, Max: 4}
		}
	default:
		cbm := math.Max(parcel.VolumeCBM, h.cfg.MinOceanCBM)
		f.Amount = cbm*h.cfg.OceanRatePerCBM*zone + h.cfg.OceanDocumentFee
		f.CarrierName = "Sea freight (estimated)"
		f.TransitDays = models.TransitDays{Min: 25, Max: 40}
		if domestic {
			f.CarrierName = "Surface freight (estimated)"
			f.TransitDays = models.TransitDays{Min: 4, Max: 8}
		}
	}

	f.Amount = pricing.RoundFloat(f.Amount, 2)
	f.Currency = models.BaseCurrency
	return f
}

var (
	gulfSAARC = map[string]bool{
		"AE": true, "SA": true, "QA": true, "KW": true, "OM": true, "BH": true,
		"BD": true, "LK": true, "NP": true, "BT": true, "MV": true, "PK": true, "AF": true,
	}
	europe = map[string]bool{
		"GB": true, "UK": true, "IE": true, "FR": true, "DE": true, "NL": true, "BE": true,
		"LU": true, "IT": true, "ES": true, "PT": true, "AT": true, "CH": true, "SE": true,
		"NO": true, "DK": true, "FI": true, "PL": true, "CZ": true, "GR": true, "HU": true,
		"RO": true,
	}
	northAmerica = map[string]bool{"US": true, "CA": true, "MX": true}

	countryNames = map[string]string{
		"INDIA":                "IN",
		"UNITED STATES":        "US",
		"USA":                  "US",
		"CANADA":               "CA",
		"UNITED KINGDOM":       "GB",
		"GERMANY":              "DE",
		"FRANCE":               "FR",
		"UNITED ARAB EMIRATES": "AE",
		"UAE":                  "AE",
		"AUSTRALIA":            "AU",
		"SINGAPORE":            "SG",
	}
)

// NormalizeCountry upper-cases an ISO code or maps a common English name to
// its code.
func NormalizeCountry(country string) string {
	c := strings.ToUpper(strings.TrimSpace(country))
	if code, ok := countryNames[c]; ok {
		return code
	}
	return c
}

func isDomestic(country, origin string) bool {
	return NormalizeCountry(country) == NormalizeCountry(origin)
}

func zoneMultiplier(country string, domestic bool) float64 {
	c := NormalizeCountry(country)
	switch {
	case domestic:
		return 0.35
	case gulfSAARC[c]:
		return 0.8
	case europe[c]:
		return 1.0
	case northAmerica[c]:
		return 1.15
	}
	return 1.25
}
