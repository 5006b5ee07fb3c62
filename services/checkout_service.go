package services

import (
	"context"
	"strings"

	"checkout-service/checkout"
	"checkout-service/models"
	aws_pkg "checkout-service/pkg/aws"

	"go.uber.org/zap"
)

// CheckoutService prices a cart for the payment step.
type CheckoutService interface {
	Summarize(ctx context.Context, req *models.CheckoutSummaryRequest) (*models.CheckoutSummary, *ServiceError)
}

type checkoutServiceImpl struct {
	rates   checkout.RateSource
	symbols models.SymbolTable
	payment []models.CurrencyCode
	metrics MetricsRecorder
	logger  *zap.Logger
}

func NewCheckoutService(rates checkout.RateSource, catalog models.CurrencyCatalog, paymentCurrencies []models.CurrencyCode, metrics MetricsRecorder, logger *zap.Logger) CheckoutService {
	return &checkoutServiceImpl{
		rates:   rates,
		symbols: catalog.Symbols(),
		payment: paymentCurrencies,
		metrics: metrics,
		logger:  logger,
	}
}

// Summarize never fails on bad price strings; such lines are priced at 0
// and logged so the upstream data can be fixed.
func (s *checkoutServiceImpl) Summarize(ctx context.Context, req *models.CheckoutSummaryRequest) (*models.CheckoutSummary, *ServiceError) {
	if req == nil || len(req.Items) == 0 {
		return nil, badRequest("at least one cart item is required")
	}
	code := models.CurrencyCode(strings.ToUpper(strings.TrimSpace(string(req.Currency))))
	if code == "" {
		code = models.BaseCurrency
	}
	if req.Shipping != nil && req.Shipping.Cost < 0 {
		return nil, badRequest("shipping cost must not be negative")
	}

	summary := checkout.Summarize(req.Items, req.Shipping, code, checkout.Pricing{
		Rates:             s.rates.Rates(),
		Symbols:           s.symbols,
		PaymentCurrencies: s.payment,
	})

	for _, line := range summary.Lines {
		if line.UnitBase == 0 {
			s.logger.Warn("Cart line priced at zero",
				zap.String("product_id", line.ProductID),
			)
		}
	}

	if s.metrics != nil {
		go func() {
			_ = s.metrics.RecordCount(context.Background(), aws_pkg.MetricCheckoutSummaries, map[string]string{"Currency": string(code)})
		}()
	}

	return &summary, nil
}
