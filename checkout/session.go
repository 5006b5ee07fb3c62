package checkout

import (
	"sync"

	"checkout-service/models"
)

// RateSource yields the current rate table.
type RateSource interface {
	Rates() models.RateTable
}

// Session is one customer's checkout: cart, destination, service type and
// display currency. Every change that affects shipping is forwarded to the
// aggregator; changing the display currency is not.
type Session struct {
	cart    *Cart
	agg     *Aggregator
	rates   RateSource
	symbols models.SymbolTable
	payment []models.CurrencyCode

	mu          sync.Mutex
	currency    models.CurrencyCode
	destination models.Destination
	serviceType models.ServiceType
}

// NewSession starts an empty session displaying the base currency with
// ocean freight selected.
func NewSession(agg *Aggregator, rates RateSource, catalog models.CurrencyCatalog, paymentCurrencies []models.CurrencyCode) *Session {
	return &Session{
		cart:        NewCart(),
		agg:         agg,
		rates:       rates,
		symbols:     catalog.Symbols(),
		payment:     paymentCurrencies,
		currency:    models.BaseCurrency,
		serviceType: models.ServiceTypeOcean,
	}
}

// AddItem adds item to the cart, merging quantities for a known product.
func (s *Session) AddItem(item models.CartLineItem) {
	s.cart.Add(item)
	s.requote()
}

// UpdateQuantity sets a line's quantity. Zero or less removes the line.
func (s *Session) UpdateQuantity(productID string, quantity int) {
	if s.cart.UpdateQuantity(productID, quantity) {
		s.requote()
	}
}

// RemoveItem drops the line for productID.
func (s *Session) RemoveItem(productID string) {
	if s.cart.Remove(productID) {
		s.requote()
	}
}

// ClearCart empties the cart, which returns shipping to Idle.
func (s *Session) ClearCart() {
	s.cart.Clear()
	s.requote()
}

// SetDestination records where the order ships to and requotes.
func (s *Session) SetDestination(d models.Destination) {
	s.mu.Lock()
	s.destination = d
	s.mu.Unlock()
	s.requote()
}

// SetServiceType switches between ocean and air freight and requotes.
func (s *Session) SetServiceType(t models.ServiceType) {
	s.mu.Lock()
	s.serviceType = t
	s.mu.Unlock()
	s.requote()
}

// SetCurrency changes the display currency only.
func (s *Session) SetCurrency(code models.CurrencyCode) {
	s.mu.Lock()
	s.currency = code
	s.mu.Unlock()
}

// Currency returns the display currency.
func (s *Session) Currency() models.CurrencyCode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currency
}

// Items returns a copy of the cart lines.
func (s *Session) Items() []models.CartLineItem {
	return s.cart.Items()
}

// Shipping returns the aggregator's current snapshot.
func (s *Session) Shipping() Snapshot {
	return s.agg.Snapshot()
}

// OnShippingChange registers a listener on the aggregator.
func (s *Session) OnShippingChange(fn func(Snapshot)) {
	s.agg.OnChange(fn)
}

// Totals prices the cart in the display currency. Shipping is included only
// once the estimate is Ready.
func (s *Session) Totals() models.CheckoutSummary {
	var est *models.ShippingEstimate
	if snap := s.agg.Snapshot(); snap.State == StateReady {
		est = snap.Estimate
	}
	return Summarize(s.cart.Items(), est, s.Currency(), Pricing{
		Rates:             s.rates.Rates(),
		Symbols:           s.symbols,
		PaymentCurrencies: s.payment,
	})
}

// Close releases the aggregator.
func (s *Session) Close() {
	s.agg.Close()
}

// requote reads the cart and the shipping fields and hands them to the
// aggregator under one lock, so the last Update always carries the newest
// state. Update does not block.
func (s *Session) requote() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agg.Update(Input{
		Items:       s.cart.Items(),
		Destination: s.destination,
		ServiceType: s.serviceType,
	})
}
