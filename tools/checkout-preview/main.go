// Command checkout-preview drives a checkout session against a running
// checkout service: it loads the current rates, fills a cart, waits for
// the shipping estimate and prints the totals.
//
//	checkout-preview -api http://localhost:8095 -country US -city Austin \
//	    -currency USD -item 'marble-table|₹2,499.00|2'
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"checkout-service/checkout"
	"checkout-service/clients"
	"checkout-service/models"
	"checkout-service/pricing"
	"checkout-service/rates"

	"go.uber.org/zap"
)

// itemFlags collects repeated -item id|price|qty values.
type itemFlags []models.CartLineItem

func (f *itemFlags) String() string { return fmt.Sprint(len(*f)) }

func (f *itemFlags) Set(v string) error {
	parts := strings.Split(v, "|")
	if len(parts) != 3 {
		return fmt.Errorf("item %q: want id|price|qty", v)
	}
	qty, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return fmt.Errorf("item %q: bad quantity: %w", v, err)
	}
	*f = append(*f, models.CartLineItem{
		ProductID: strings.TrimSpace(parts[0]),
		Price:     strings.TrimSpace(parts[1]),
		Quantity:  qty,
	})
	return nil
}

func main() {
	var (
		apiURL, country, city, service, currency string
		debounce, wait                           time.Duration
		items                                    itemFlags
		verbose                                  bool
	)
	flag.StringVar(&apiURL, "api", envOr("CHECKOUT_API_URL", "http://localhost:8095"), "checkout service base URL")
	flag.StringVar(&country, "country", "", "destination country")
	flag.StringVar(&city, "city", "", "destination city")
	flag.StringVar(&service, "service", string(models.ServiceTypeOcean), "ocean or air")
	flag.StringVar(&currency, "currency", string(models.BaseCurrency), "display currency")
	flag.DurationVar(&debounce, "debounce", checkout.DefaultDebounce, "estimate debounce window")
	flag.DurationVar(&wait, "wait", 20*time.Second, "how long to wait for the estimate")
	flag.Var(&items, "item", "cart line as id|price|qty (repeatable)")
	flag.BoolVar(&verbose, "v", false, "log aggregator activity")
	flag.Parse()

	if len(items) == 0 {
		log.Fatal("at least one -item is required")
	}

	logger := zap.NewNop()
	if verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			log.Fatalf("logger: %v", err)
		}
		logger = l
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), wait)
	defer cancel()

	store := rates.NewStore(pricing.DefaultRates())
	if resp, err := clients.NewCurrencyClient(apiURL, 10*time.Second).Rates(ctx); err != nil {
		log.Printf("rates unavailable, using built-in table: %v", err)
	} else {
		store.Replace(resp.Rates, apiURL, resp.FetchedAt)
	}

	agg := checkout.NewAggregator(
		clients.NewShippingClient(apiURL, checkout.DefaultRequestTimeout, logger),
		checkout.WithDebounce(debounce),
		checkout.WithLogger(logger),
	)
	session := checkout.NewSession(agg, store, pricing.DefaultCurrencies(), pricing.DefaultPaymentCurrencies())
	defer session.Close()

	settled := make(chan checkout.Snapshot, 1)
	session.OnShippingChange(func(s checkout.Snapshot) {
		if verbose {
			log.Printf("shipping: %s (generation %d)", s.State, s.Generation)
		}
		if s.State == checkout.StateReady || s.State == checkout.StateError {
			select {
			case settled <- s:
			default:
			}
		}
	})

	session.SetCurrency(models.CurrencyCode(strings.ToUpper(currency)))
	session.SetServiceType(models.ServiceType(service))
	for _, it := range items {
		session.AddItem(it)
	}
	session.SetDestination(models.Destination{Country: country, City: city})

	if session.Shipping().State == checkout.StateIdle {
		log.Print("destination incomplete, shipping not quoted")
	} else {
		select {
		case s := <-settled:
			if s.State == checkout.StateError {
				fmt.Fprintf(os.Stderr, "shipping: %s\n", s.Error)
			} else if s.Estimate != nil {
				printEstimate(s.Estimate)
			}
		case <-ctx.Done():
			log.Print("timed out waiting for a shipping estimate")
		}
	}

	printTotals(session.Totals())
}

func printEstimate(e *models.ShippingEstimate) {
	kind := "live"
	if e.IsFallback {
		kind = "estimated"
	}
	fmt.Printf("Shipping (%s, %s via %s): %.2f %s, %d-%d days\n",
		e.ServiceType, kind, e.CarrierName, e.Cost, e.Currency, e.TransitDays.Min, e.TransitDays.Max)
	fmt.Printf("  range %.2f - %.2f, buffer %.2f\n", e.Breakdown.RangeMin, e.Breakdown.RangeMax, e.Breakdown.BufferAmount)
}

func printTotals(s models.CheckoutSummary) {
	for _, l := range s.Lines {
		fmt.Printf("%-24s x%-3d %s\n", l.ProductID, l.Quantity, l.Formatted)
	}
	fmt.Printf("Subtotal  %s\n", s.SubtotalFormatted)
	if s.ShippingPending {
		fmt.Println("Shipping  pending")
	} else {
		fmt.Printf("Shipping  %s\n", s.ShippingFormatted)
	}
	fmt.Printf("Total     %s (charged in %s)\n", s.TotalFormatted, s.PaymentCurrency)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
