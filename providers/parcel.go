package providers

import (
	"math"

	"checkout-service/models"
	"checkout-service/pricing"
)

// ParcelDefaults are used for line items that carry no dimensions.
type ParcelDefaults struct {
	WeightKg  float64
	VolumeCBM float64
}

// BuildParcel sums weight and volume over items, quantity included.
func BuildParcel(items []models.CartLineItem, d ParcelDefaults) models.Parcel {
	var p models.Parcel
	for _, it := range items {
		qty := float64(it.Quantity)
		if qty < 1 {
			qty = 1
		}
		w, v := d.WeightKg, d.VolumeCBM
		if it.WeightKg != nil && *it.WeightKg >= 0 {
			w = *it.WeightKg
		}
		if it.VolumeCBM != nil && *it.VolumeCBM >= 0 {
			v = *it.VolumeCBM
		}
		p.WeightKg += w * qty
		p.VolumeCBM += v * qty
	}
	p.WeightKg = pricing.RoundFloat(p.WeightKg, 3)
	p.VolumeCBM = pricing.RoundFloat(p.VolumeCBM, 4)
	return p
}

// cubeSideCm is the edge of a cube holding volumeCBM, at least minCm.
func cubeSideCm(volumeCBM, minCm float64) float64 {
	side := math.Cbrt(volumeCBM) * 100
	if side < minCm {
		return minCm
	}
	// Cbrt of a perfect cube can land a hair above the integer.
	return math.Ceil(side - 1e-9)
}
