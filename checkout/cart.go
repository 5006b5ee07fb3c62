package checkout

import (
	"sync"

	"checkout-service/models"
)

// Cart is an ordered list of line items keyed by product ID.
type Cart struct {
	mu    sync.RWMutex
	items []models.CartLineItem
}

// NewCart returns a cart holding a copy of items.
func NewCart(items ...models.CartLineItem) *Cart {
	c := &Cart{}
	for _, it := range items {
		c.Add(it)
	}
	return c
}

// Add appends item, or increases the quantity when the product is already in
// the cart. A quantity below 1 counts as 1.
func (c *Cart) Add(item models.CartLineItem) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexLocked(item.ProductID); i >= 0 {
		c.items[i].Quantity += item.Quantity
		return
	}
	c.items = append(c.items, item)
}

// UpdateQuantity sets the quantity of productID. A quantity <= 0 removes the
// line. It reports whether the product was in the cart.
func (c *Cart) UpdateQuantity(productID string, quantity int) bool {
	if quantity <= 0 {
		return c.Remove(productID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexLocked(productID)
	if i < 0 {
		return false
	}
	c.items[i].Quantity = quantity
	return true
}

// Remove deletes productID and reports whether it was present.
func (c *Cart) Remove(productID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexLocked(productID)
	if i < 0 {
		return false
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	return true
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
}

// Items returns a copy of the line items in insertion order.
func (c *Cart) Items() []models.CartLineItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneItems(c.items)
}

// Len returns the number of distinct lines.
func (c *Cart) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Cart) indexLocked(productID string) int {
	for i := range c.items {
		if c.items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func cloneItems(items []models.CartLineItem) []models.CartLineItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]models.CartLineItem, len(items))
	copy(out, items)
	return out
}
