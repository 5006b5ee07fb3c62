package models

import "strings"

// ServiceType selects the freight mode for a shipping estimate.
type ServiceType string

const (
	ServiceTypeOcean ServiceType = "ocean"
	ServiceTypeAir   ServiceType = "air"
)

// Valid reports whether t is a supported service type.
func (t ServiceType) Valid() bool {
	return t == ServiceTypeOcean || t == ServiceTypeAir
}

// Destination is the ship-to address entered at checkout.
type Destination struct {
	Country    string `json:"country"` // ISO 3166-1 alpha-2 or name, e.g. "US"
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
}

// Complete reports whether the destination has enough data to be quoted.
func (d Destination) Complete() bool {
	return strings.TrimSpace(d.Country) != "" && strings.TrimSpace(d.City) != ""
}

// Address is a full postal address, used for the warehouse origin.
type Address struct {
	Name       string `json:"name"`
	Street1    string `json:"street1"`
	Street2    string `json:"street2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
	Email      string `json:"email,omitempty"`
}

// EstimateRequest is the payload for POST /api/shipping/estimate.
type EstimateRequest struct {
	Items       []CartLineItem `json:"items" binding:"required,min=1,dive"`
	Destination Destination    `json:"destination"`
	ServiceType ServiceType    `json:"serviceType" binding:"required,service_type"`
}

// Parcel is the aggregate physical size of a cart.
type Parcel struct {
	WeightKg  float64
	VolumeCBM float64
}

// TransitDays is an inclusive range of days in transit.
type TransitDays struct {
	Min int `json:"min" validate:"gte=0"`
	Max int `json:"max" validate:"gtefield=Min"`
}

// Breakdown explains how the customer charge was derived.
type Breakdown struct {
	BaseEstimate   float64 `json:"baseEstimate" validate:"gte=0"`
	RangeMin       float64 `json:"rangeMin" validate:"gte=0"`
	RangeMax       float64 `json:"rangeMax" validate:"gtefield=RangeMin"`
	CustomerCharge float64 `json:"customerCharge" validate:"gte=0"`
	BufferAmount   float64 `json:"bufferAmount" validate:"gte=0"`
}

// Measure is an aggregate quantity with its unit.
type Measure struct {
	Total float64 `json:"total" validate:"gte=0"`
	Unit  string  `json:"unit" validate:"required"`
}

// CarrierQuote is a single rate returned by a carrier.
type CarrierQuote struct {
	Provider     string       `json:"provider"`
	CarrierName  string       `json:"carrierName"`
	ServiceLevel string       `json:"serviceLevel"`
	ServiceType  ServiceType  `json:"serviceType"`
	Amount       float64      `json:"amount"`
	Currency     CurrencyCode `json:"currency"`
	TransitDays  int          `json:"transitDays"`
	RateID       string       `json:"rateId,omitempty"`
}

// ShippingEstimate is the derived, non-persisted quote for one
// (cart contents, destination, service type) triple.
type ShippingEstimate struct {
	Cost        float64        `json:"cost" validate:"gte=0"`
	Currency    CurrencyCode   `json:"currency" validate:"required"`
	TransitDays TransitDays    `json:"transitDays"`
	Provider    string         `json:"provider" validate:"required"`
	ServiceType ServiceType    `json:"serviceType" validate:"oneof=ocean air"`
	CarrierName string         `json:"carrierName,omitempty"`
	IsFallback  bool           `json:"isFallback"`
	Breakdown   Breakdown      `json:"breakdown"`
	Weight      Measure        `json:"weight"`
	Volume      Measure        `json:"volume"`
	AllQuotes   []CarrierQuote `json:"allQuotes,omitempty"`
}

// EstimateResponse is the wire envelope of POST /api/shipping/estimate.
type EstimateResponse struct {
	OK       bool              `json:"ok"`
	Shipping *ShippingEstimate `json:"shipping,omitempty"`
	Error    string            `json:"error,omitempty"`
}

const (
	UnitKilogram   = "kg"
	UnitCubicMeter = "cbm"
)
