package providers

import (
	"context"
	"strings"

	"checkout-service/models"
	"checkout-service/pricing"
)

// RateProvider is a live carrier-rating integration.
type RateProvider interface {
	// Name identifies the provider in estimates and logs.
	Name() string

	// GetRates returns every quote the carrier offers for parcel between
	// origin and destination, classified by service type.
	GetRates(ctx context.Context, parcel models.Parcel, origin models.Address, destination models.Destination) ([]models.CarrierQuote, error)
}

var oceanServiceLevelHints = []string{"freight", "ocean", "sea", "economy", "ground", "ltl", "cargo"}

// ClassifyServiceLevel maps a carrier service level to ocean (freight and
// economy products) or air (everything else: express, priority, courier).
func ClassifyServiceLevel(name string) models.ServiceType {
	n := strings.ToLower(name)
	for _, hint := range oceanServiceLevelHints {
		if strings.Contains(n, hint) {
			return models.ServiceTypeOcean
		}
	}
	return models.ServiceTypeAir
}

// Cheapest returns the lowest-priced quote of type t, or nil. Amounts are
// compared after folding each quote's currency into the base currency.
func Cheapest(quotes []models.CarrierQuote, t models.ServiceType, rates models.RateTable) *models.CarrierQuote {
	var best *models.CarrierQuote
	var bestBase float64
	for i := range quotes {
		q := &quotes[i]
		if q.ServiceType != t || q.Amount <= 0 {
			continue
		}
		base := pricing.ToBase(q.Amount, q.Currency, rates)
		if best == nil || base < bestBase {
			best, bestBase = q, base
		}
	}
	return best
}
