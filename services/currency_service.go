package services

import (
	"context"
	"sort"
	"strings"

	"checkout-service/models"
	"checkout-service/pricing"
	"checkout-service/rates"

	"go.uber.org/zap"
)

// CurrencyService exposes the rate snapshot and one-off conversions.
type CurrencyService interface {
	Rates(ctx context.Context) *models.RatesResponse
	Convert(ctx context.Context, req *models.ConvertRequest) (*models.ConvertResponse, *ServiceError)
}

type currencyServiceImpl struct {
	store   *rates.Store
	catalog models.CurrencyCatalog
	symbols models.SymbolTable
	payment []models.CurrencyCode
	logger  *zap.Logger
}

func NewCurrencyService(store *rates.Store, catalog models.CurrencyCatalog, paymentCurrencies []models.CurrencyCode, logger *zap.Logger) CurrencyService {
	return &currencyServiceImpl{
		store:   store,
		catalog: catalog,
		symbols: catalog.Symbols(),
		payment: paymentCurrencies,
		logger:  logger,
	}
}

func (s *currencyServiceImpl) Rates(_ context.Context) *models.RatesResponse {
	snap := s.store.Current()

	currencies := make([]models.Currency, 0, len(s.catalog))
	for _, c := range s.catalog {
		currencies = append(currencies, c)
	}
	sort.Slice(currencies, func(i, j int) bool { return currencies[i].Code < currencies[j].Code })

	return &models.RatesResponse{
		Base:              snap.Base,
		Rates:             snap.Rates,
		FetchedAt:         snap.FetchedAt,
		Currencies:        currencies,
		PaymentCurrencies: s.payment,
	}
}

// Convert converts a base-currency amount. Codes without a rate convert 1:1
// and are labelled with the code itself.
func (s *currencyServiceImpl) Convert(_ context.Context, req *models.ConvertRequest) (*models.ConvertResponse, *ServiceError) {
	if req == nil || req.Amount < 0 {
		return nil, badRequest("amount must be a non-negative number")
	}
	code := models.CurrencyCode(strings.ToUpper(strings.TrimSpace(string(req.Currency))))
	if code == "" {
		return nil, badRequest("currency is required")
	}

	table := s.store.Rates()
	converted := pricing.Convert(req.Amount, code, table)
	return &models.ConvertResponse{
		Amount:    req.Amount,
		Converted: converted,
		Formatted: pricing.FormatAmount(converted, code, s.symbols),
		Currency:  code,
		Rate:      pricing.Rate(code, table),
	}, nil
}
