package checkout

import (
	"checkout-service/models"
	"checkout-service/pricing"
)

// Pricing bundles the tables a summary is rendered with.
type Pricing struct {
	Rates             models.RateTable
	Symbols           models.SymbolTable
	PaymentCurrencies []models.CurrencyCode
}

// Summarize prices items in currency. Each line's base amount is the
// extracted unit price times quantity; shipping, when present, is folded
// back to the base currency before it is added to the total. Without
// shipping the summary is marked ShippingPending.
func Summarize(items []models.CartLineItem, shipping *models.ShippingEstimate, currency models.CurrencyCode, p Pricing) models.CheckoutSummary {
	summary := models.CheckoutSummary{
		Currency:        currency,
		PaymentCurrency: pricing.PaymentCurrency(currency, p.PaymentCurrencies),
		Lines:           make([]models.SummaryLine, 0, len(items)),
	}

	var subtotalBase float64
	for _, it := range items {
		unit := pricing.Extract(it.Price)
		lineBase := pricing.RoundFloat(unit*float64(it.Quantity), 2)
		subtotalBase += lineBase

		lineTotal := pricing.Convert(lineBase, currency, p.Rates)
		summary.Lines = append(summary.Lines, models.SummaryLine{
			ProductID:     it.ProductID,
			Quantity:      it.Quantity,
			UnitBase:      unit,
			LineTotalBase: lineBase,
			LineTotal:     lineTotal,
			Formatted:     pricing.FormatAmount(lineTotal, currency, p.Symbols),
		})
	}

	summary.SubtotalBase = pricing.RoundFloat(subtotalBase, 2)
	summary.Subtotal = pricing.Convert(summary.SubtotalBase, currency, p.Rates)
	summary.SubtotalFormatted = pricing.FormatAmount(summary.Subtotal, currency, p.Symbols)

	totalBase := summary.SubtotalBase
	if shipping != nil {
		shipBase := pricing.ToBase(shipping.Cost, shipping.Currency, p.Rates)
		ship := pricing.Convert(shipBase, currency, p.Rates)
		summary.ShippingBase = &shipBase
		summary.Shipping = &ship
		summary.ShippingFormatted = pricing.FormatAmount(ship, currency, p.Symbols)
		totalBase += shipBase
	} else {
		summary.ShippingPending = true
	}

	summary.TotalBase = pricing.RoundFloat(totalBase, 2)
	summary.Total = pricing.Convert(summary.TotalBase, currency, p.Rates)
	summary.TotalFormatted = pricing.FormatAmount(summary.Total, currency, p.Symbols)
	return summary
}
