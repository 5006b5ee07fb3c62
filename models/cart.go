package models

// CartLineItem is a single product line in the checkout cart. Price is the
// display string in the base currency, e.g. "₹2,499.00".
type CartLineItem struct {
	ProductID string   `json:"productId" binding:"required"`
	Name      string   `json:"name,omitempty"`
	Price     string   `json:"price"`
	Quantity  int      `json:"quantity" binding:"required,gt=0"`
	WeightKg  *float64 `json:"weightKg,omitempty" binding:"omitempty,gte=0"`
	VolumeCBM *float64 `json:"volumeCbm,omitempty" binding:"omitempty,gte=0"`
}

// CheckoutSummaryRequest is the payload for POST /api/checkout/summary.
type CheckoutSummaryRequest struct {
	Items    []CartLineItem    `json:"items" binding:"required,min=1,dive"`
	Currency CurrencyCode      `json:"currency" binding:"omitempty,currency_code"`
	Shipping *ShippingEstimate `json:"shipping,omitempty"`
}

// SummaryLine is one priced cart line in the requested currency.
type SummaryLine struct {
	ProductID     string  `json:"productId"`
	Quantity      int     `json:"quantity"`
	UnitBase      float64 `json:"unitBase"`
	LineTotalBase float64 `json:"lineTotalBase"`
	LineTotal     float64 `json:"lineTotal"`
	Formatted     string  `json:"formatted"`
}

// CheckoutSummary is the priced checkout shown before payment submission.
type CheckoutSummary struct {
	Currency          CurrencyCode  `json:"currency"`
	PaymentCurrency   CurrencyCode  `json:"paymentCurrency"`
	Lines             []SummaryLine `json:"lines"`
	SubtotalBase      float64       `json:"subtotalBase"`
	Subtotal          float64       `json:"subtotal"`
	SubtotalFormatted string        `json:"subtotalFormatted"`
	ShippingBase      *float64      `json:"shippingBase,omitempty"`
	Shipping          *float64      `json:"shipping,omitempty"`
	ShippingFormatted string        `json:"shippingFormatted,omitempty"`
	ShippingPending   bool          `json:"shippingPending"`
	TotalBase         float64       `json:"totalBase"`
	Total             float64       `json:"total"`
	TotalFormatted    string        `json:"totalFormatted"`
}
