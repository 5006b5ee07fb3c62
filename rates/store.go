// Package rates keeps the current exchange-rate snapshot used by the
// converter and refreshes it from an upstream feed.
package rates

import (
	"sync/atomic"
	"time"

	"checkout-service/models"
)

// Snapshot is an immutable rate table together with the time it was fetched.
// Callers must not mutate Rates.
type Snapshot struct {
	Base      models.CurrencyCode `json:"base"`
	Rates     models.RateTable    `json:"rates"`
	FetchedAt time.Time           `json:"fetched_at"`
	Source    string              `json:"source"`
}

// Store publishes rate snapshots to concurrent readers. Writers swap whole
// snapshots; readers never lock.
type Store struct {
	current atomic.Pointer[Snapshot]
}

// NewStore seeds the store with initial, typically the compiled-in defaults.
func NewStore(initial models.RateTable) *Store {
	s := &Store{}
	s.Replace(initial, "defaults", time.Now().UTC())
	return s
}

// Current returns the latest snapshot.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Rates is shorthand for Current().Rates.
func (s *Store) Rates() models.RateTable {
	return s.Current().Rates
}

// Replace installs a copy of table as the new snapshot. The base currency
// is always pinned to 1.
func (s *Store) Replace(table models.RateTable, source string, fetchedAt time.Time) *Snapshot {
	next := table.Clone()
	next[models.BaseCurrency] = 1

	snap := &Snapshot{
		Base:      models.BaseCurrency,
		Rates:     next,
		FetchedAt: fetchedAt,
		Source:    source,
	}
	s.current.Store(snap)
	return snap
}
