package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"checkout-service/models"

	"go.uber.org/zap"
)

// feedResponse is the upstream payload: {"base":"INR","rates":{"USD":0.012}}.
type feedResponse struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

// Refresher periodically pulls a rate table from an HTTP feed into a Store.
// A failed fetch keeps the previous snapshot.
type Refresher struct {
	url        string
	interval   time.Duration
	store      *Store
	httpClient *http.Client
	logger     *zap.Logger
}

// NewRefresher creates a Refresher for url. interval <= 0 disables the
// periodic loop; Refresh can still be called directly.
func NewRefresher(url string, interval time.Duration, store *Store, logger *zap.Logger) *Refresher {
	return &Refresher{
		url:      url,
		interval: interval,
		store:    store,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Start fetches once and then on every tick until ctx is done. It returns
// immediately; the store serves its current snapshot until the first fetch
// lands.
func (r *Refresher) Start(ctx context.Context) {
	go func() {
		if err := r.Refresh(ctx); err != nil {
			r.logger.Warn("Initial exchange rate fetch failed, using defaults", zap.Error(err))
		}
		if r.interval <= 0 {
			return
		}

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := r.Refresh(ctx); err != nil {
					r.logger.Warn("Exchange rate refresh failed, keeping previous snapshot", zap.Error(err))
				}
			}
		}
	}()
}

// Refresh fetches the feed once and replaces the snapshot on success.
func (r *Refresher) Refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("rates feed error (status %d)", resp.StatusCode)
	}

	var feed feedResponse
	if err := json.Unmarshal(body, &feed); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if base := strings.ToUpper(feed.Base); base != "" && base != string(models.BaseCurrency) {
		return fmt.Errorf("rates feed base %q, want %s", feed.Base, models.BaseCurrency)
	}

	table := make(models.RateTable, len(feed.Rates))
	for code, v := range feed.Rates {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		table[models.CurrencyCode(strings.ToUpper(code))] = v
	}
	if len(table) == 0 {
		return fmt.Errorf("rates feed returned no usable rates")
	}

	snap := r.store.Replace(table, r.url, time.Now().UTC())
	r.logger.Info("Exchange rates refreshed", zap.Int("currencies", len(snap.Rates)))
	return nil
}
