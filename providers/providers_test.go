package providers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"checkout-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 { return &f }

var origin = models.Address{Name: "Warehouse", Street1: "Plot 12, RIICO", City: "Jaipur", State: "RJ", PostalCode: "302013", Country: "IN"}

func TestBuildParcel(t *testing.T) {
	items := []models.CartLineItem{
		{ProductID: "a", Quantity: 2, WeightKg: ptr(40), VolumeCBM: ptr(0.25)},
		{ProductID: "b", Quantity: 1},
	}
	p := BuildParcel(items, ParcelDefaults{WeightKg: 10, VolumeCBM: 0.05})

	assert.Equal(t, 90.0, p.WeightKg)
	assert.Equal(t, 0.55, p.VolumeCBM)
}

func TestCubeSideCm(t *testing.T) {
	assert.Equal(t, 100.0, cubeSideCm(1, 10))
	assert.Equal(t, 10.0, cubeSideCm(0, 10))
	assert.Equal(t, 80.0, cubeSideCm(0.5, 10))
}

func TestClassifyServiceLevel(t *testing.T) {
	assert.Equal(t, models.ServiceTypeOcean, ClassifyServiceLevel("UPS Ground"))
	assert.Equal(t, models.ServiceTypeOcean, ClassifyServiceLevel("Economy Freight"))
	assert.Equal(t, models.ServiceTypeAir, ClassifyServiceLevel("Express Worldwide"))
	assert.Equal(t, models.ServiceTypeAir, ClassifyServiceLevel("Priority Mail International"))
}

func TestCheapest(t *testing.T) {
	quotes := []models.CarrierQuote{
		{CarrierName: "DHL", ServiceType: models.ServiceTypeAir, Amount: 120},
		{CarrierName: "FedEx", ServiceType: models.ServiceTypeAir, Amount: 95},
		{CarrierName: "Maersk", ServiceType: models.ServiceTypeOcean, Amount: 60},
		{CarrierName: "Broken", ServiceType: models.ServiceTypeAir, Amount: 0},
	}
	best := Cheapest(quotes, models.ServiceTypeAir, nil)
	require.NotNil(t, best)
	assert.Equal(t, "FedEx", best.CarrierName)
	assert.Nil(t, Cheapest(quotes[:2], models.ServiceTypeOcean, nil))
}

func TestCheapest_ComparesInBaseCurrency(t *testing.T) {
	rates := models.RateTable{"INR": 1, "USD": 0.012}
	quotes := []models.CarrierQuote{
		// 120 USD is 10000 INR.
		{CarrierName: "FedEx", ServiceType: models.ServiceTypeAir, Amount: 120, Currency: "USD"},
		{CarrierName: "DHL", ServiceType: models.ServiceTypeAir, Amount: 3000, Currency: "INR"},
	}
	best := Cheapest(quotes, models.ServiceTypeAir, rates)
	require.NotNil(t, best)
	assert.Equal(t, "DHL", best.CarrierName)

	// 20 USD is about 1666.67 INR.
	quotes[0].Amount = 20
	best = Cheapest(quotes, models.ServiceTypeAir, rates)
	require.NotNil(t, best)
	assert.Equal(t, "FedEx", best.CarrierName)
}

func TestHeuristic_Ocean(t *testing.T) {
	h := NewHeuristicEstimator(DefaultHeuristicConfig())
	f := h.Estimate(models.Parcel{WeightKg: 200, VolumeCBM: 2}, models.Destination{Country: "US", City: "Austin"}, models.ServiceTypeOcean)

	// 2 cbm * 9500 * 1.15 + 3500
	assert.Equal(t, 25350.0, f.Amount)
	assert.Equal(t, models.CurrencyCode("INR"), f.Currency)
	assert.Equal(t, models.TransitDays{Min: 25, Max: 40}, f.TransitDays)
}

func TestHeuristic_OceanMinimumVolume(t *testing.T) {
	h := NewHeuristicEstimator(DefaultHeuristicConfig())
	f := h.Estimate(models.Parcel{VolumeCBM: 0.1}, models.Destination{Country: "DE", City: "Berlin"}, models.ServiceTypeOcean)
	assert.Equal(t, 13000.0, f.Amount)
}

func TestHeuristic_AirDomestic(t *testing.T) {
	h := NewHeuristicEstimator(DefaultHeuristicConfig())
	f := h.Estimate(models.Parcel{WeightKg: 10}, models.Destination{Country: "India", City: "Mumbai"}, models.ServiceTypeAir)

	// 10 kg * 650 * 0.35
	assert.Equal(t, 2275.0, f.Amount)
	assert.Equal(t, models.TransitDays{Min: 2, Max: 4}, f.TransitDays)
}

func TestHeuristic_Zones(t *testing.T) {
	assert.Equal(t, 0.8, zoneMultiplier("AE", false))
	assert.Equal(t, 0.8, zoneMultiplier("uae", false))
	assert.Equal(t, 1.0, zoneMultiplier("United Kingdom", false))
	assert.Equal(t, 1.15, zoneMultiplier("CA", false))
	assert.Equal(t, 1.25, zoneMultiplier("BR", false))
	assert.Equal(t, 0.35, zoneMultiplier("IN", true))
}

func TestShippo_GetRates(t *testing.T) {
	var got shippoShipmentRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/shipments/", r.URL.Path)
		assert.Equal(t, "ShippoToken test-key", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))

		io.WriteString(w, `{"status":"SUCCESS","rates":[
			{"object_id":"r1","provider":"DHL Express","servicelevel":{"name":"Express Worldwide","token":"dhl_express_worldwide"},"amount":"182.40","currency":"usd","estimated_days":4},
			{"object_id":"r2","provider":"FedEx","servicelevel":{"name":"International Economy Freight","token":"fedex_ief"},"amount":"95.10","currency":"USD","estimated_days":12},
			{"object_id":"r3","provider":"Bad","servicelevel":{"name":"Broken"},"amount":"n/a","currency":"USD"}
		]}`)
	}))
	defer srv.Close()

	p := NewShippoProvider("test-key", srv.URL, 5*time.Second)
	quotes, err := p.GetRates(context.Background(), models.Parcel{WeightKg: 42, VolumeCBM: 0.125}, origin,
		models.Destination{Country: "us", City: "Austin", State: "TX", PostalCode: "73301"})

	require.NoError(t, err)
	require.Len(t, quotes, 2)
	assert.Equal(t, models.ServiceTypeAir, quotes[0].ServiceType)
	assert.Equal(t, models.CurrencyCode("USD"), quotes[0].Currency)
	assert.Equal(t, models.ServiceTypeOcean, quotes[1].ServiceType)
	assert.Equal(t, 95.10, quotes[1].Amount)
	assert.Equal(t, "Shippo", quotes[1].Provider)

	assert.Equal(t, "US", got.AddressTo.Country)
	assert.Equal(t, "73301", got.AddressTo.Zip)
	assert.Equal(t, "302013", got.AddressFrom.Zip)
	assert.Equal(t, "50", got.Parcels[0].Length)
	assert.Equal(t, "42.000", got.Parcels[0].Weight)
}

func TestShippo_Errors(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"status": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"detail":"Invalid token"}`)
		},
		"shipment error": func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{"status":"ERROR","messages":[{"text":"Invalid destination"}]}`)
		},
		"decode": func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `<html>`)
		},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(h)
			defer srv.Close()

			p := NewShippoProvider("k", srv.URL, time.Second)
			_, err := p.GetRates(context.Background(), models.Parcel{WeightKg: 1}, origin, models.Destination{Country: "US", City: "Austin"})
			assert.Error(t, err)
		})
	}
}
