package services

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"time"

	"checkout-service/checkout"
	"checkout-service/models"
	aws_pkg "checkout-service/pkg/aws"
	"checkout-service/pricing"
	"checkout-service/providers"
	"checkout-service/repository"

	"go.uber.org/zap"
)

// ServiceError is a typed error with an HTTP status code.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string { return e.Message }

func badRequest(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusBadRequest, Message: msg}
}

// MetricsRecorder is the part of the CloudWatch client the services use.
type MetricsRecorder interface {
	RecordCount(ctx context.Context, metricName string, dimensions map[string]string) error
}

// ShippingConfig tunes how estimates are derived.
type ShippingConfig struct {
	Origin          models.Address
	BufferPercent   float64
	RangeSpread     float64
	ParcelDefaults  providers.ParcelDefaults
	ProviderTimeout time.Duration
}

// DefaultShippingConfig returns the production pricing parameters.
func DefaultShippingConfig(origin models.Address) ShippingConfig {
	return ShippingConfig{
		Origin:          origin,
		BufferPercent:   0.15,
		RangeSpread:     0.10,
		ParcelDefaults:  providers.ParcelDefaults{WeightKg: 25, VolumeCBM: 0.1},
		ProviderTimeout: 8 * time.Second,
	}
}

// ShippingService defines the business logic interface.
type ShippingService interface {
	Estimate(ctx context.Context, req *models.EstimateRequest) (*models.ShippingEstimate, *ServiceError)
}

type shippingServiceImpl struct {
	provider  providers.RateProvider
	heuristic *providers.HeuristicEstimator
	cache     repository.QuoteCache
	metrics   MetricsRecorder
	rates     checkout.RateSource
	cfg       ShippingConfig
	logger    *zap.Logger
}

// NewShippingService creates a new ShippingService. provider, cache, metrics
// and rates are optional; without a provider every estimate is a fallback.
// rates is used to compare live quotes priced in different currencies.
func NewShippingService(
	provider providers.RateProvider,
	heuristic *providers.HeuristicEstimator,
	cache repository.QuoteCache,
	metrics MetricsRecorder,
	rates checkout.RateSource,
	cfg ShippingConfig,
	logger *zap.Logger,
) ShippingService {
	return &shippingServiceImpl{
		provider:  provider,
		heuristic: heuristic,
		cache:     cache,
		metrics:   metrics,
		rates:     rates,
		cfg:       cfg,
		logger:    logger,
	}
}

// Estimate returns a live estimate when the provider has a quote of the
// requested service type and a heuristic one otherwise. Provider and cache
// failures never fail the request.
func (s *shippingServiceImpl) Estimate(ctx context.Context, req *models.EstimateRequest) (*models.ShippingEstimate, *ServiceError) {
	if svcErr := validateEstimateRequest(req); svcErr != nil {
		return nil, svcErr
	}

	key := repository.QuoteKey(req)
	if cached := s.cached(ctx, key); cached != nil {
		s.record(aws_pkg.MetricShippingCacheHits, map[string]string{"ServiceType": string(req.ServiceType)})
		return cached, nil
	}

	parcel := providers.BuildParcel(req.Items, s.cfg.ParcelDefaults)
	quotes := s.liveQuotes(ctx, parcel, req)

	table := s.rateTable()
	var est *models.ShippingEstimate
	if best := providers.Cheapest(quotes, req.ServiceType, table); best != nil {
		est = s.fromQuote(*best, req.ServiceType)
	} else {
		est = s.fromHeuristic(parcel, req)
	}
	est.Weight = models.Measure{Total: parcel.WeightKg, Unit: models.UnitKilogram}
	est.Volume = models.Measure{Total: parcel.VolumeCBM, Unit: models.UnitCubicMeter}
	if len(quotes) > 0 {
		est.AllQuotes = sortedQuotes(quotes, table)
	}

	s.logger.Info("Shipping estimate computed",
		zap.String("service_type", string(req.ServiceType)),
		zap.String("country", req.Destination.Country),
		zap.String("provider", est.Provider),
		zap.Bool("fallback", est.IsFallback),
		zap.Float64("cost", est.Cost),
		zap.String("currency", string(est.Currency)),
	)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, est); err != nil {
			s.logger.Warn("Failed to cache shipping estimate", zap.Error(err))
		}
	}

	dims := map[string]string{"ServiceType": string(req.ServiceType), "Provider": est.Provider}
	s.record(aws_pkg.MetricShippingEstimates, dims)
	if est.IsFallback {
		s.record(aws_pkg.MetricShippingFallbackEstimates, dims)
	}

	return est, nil
}

func validateEstimateRequest(req *models.EstimateRequest) *ServiceError {
	switch {
	case req == nil || len(req.Items) == 0:
		return badRequest("at least one cart item is required")
	case !req.ServiceType.Valid():
		return badRequest("serviceType must be ocean or air")
	case !req.Destination.Complete():
		return badRequest("destination country and city are required")
	}
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			return badRequest("item quantity must be positive")
		}
	}
	return nil
}

func (s *shippingServiceImpl) cached(ctx context.Context, key string) *models.ShippingEstimate {
	if s.cache == nil {
		return nil
	}
	est, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, repository.ErrCacheMiss) {
			s.logger.Warn("Shipping cache read failed", zap.Error(err))
		}
		return nil
	}
	return est
}

func (s *shippingServiceImpl) liveQuotes(ctx context.Context, parcel models.Parcel, req *models.EstimateRequest) []models.CarrierQuote {
	if s.provider == nil {
		return nil
	}

	pctx := ctx
	if s.cfg.ProviderTimeout > 0 {
		var cancel context.CancelFunc
		pctx, cancel = context.WithTimeout(ctx, s.cfg.ProviderTimeout)
		defer cancel()
	}

	quotes, err := s.provider.GetRates(pctx, parcel, s.cfg.Origin, req.Destination)
	if err != nil {
		s.logger.Warn("Live carrier rates unavailable, using heuristic estimate",
			zap.String("provider", s.provider.Name()),
			zap.Error(err),
		)
		return nil
	}
	return quotes
}

func (s *shippingServiceImpl) fromQuote(q models.CarrierQuote, t models.ServiceType) *models.ShippingEstimate {
	carrier := q.CarrierName
	if q.ServiceLevel != "" {
		carrier += " " + q.ServiceLevel
	}

	transit := models.TransitDays{Min: q.TransitDays, Max: q.TransitDays}
	if q.TransitDays > 0 {
		transit.Max = q.TransitDays + (q.TransitDays+1)/2
	}

	est := &models.ShippingEstimate{
		Currency:    q.Currency,
		TransitDays: transit,
		Provider:    q.Provider,
		ServiceType: t,
		CarrierName: carrier,
		IsFallback:  false,
	}
	s.applyBreakdown(est, q.Amount)
	return est
}

func (s *shippingServiceImpl) fromHeuristic(parcel models.Parcel, req *models.EstimateRequest) *models.ShippingEstimate {
	f := s.heuristic.Estimate(parcel, req.Destination, req.ServiceType)
	est := &models.ShippingEstimate{
		Currency:    f.Currency,
		TransitDays: f.TransitDays,
		Provider:    providers.HeuristicName,
		ServiceType: req.ServiceType,
		CarrierName: f.CarrierName,
		IsFallback:  true,
	}
	s.applyBreakdown(est, f.Amount)
	return est
}

// applyBreakdown derives the buffered customer charge and the displayed
// range from base.
func (s *shippingServiceImpl) applyBreakdown(est *models.ShippingEstimate, base float64) {
	buffer := pricing.RoundFloat(base*s.cfg.BufferPercent, 2)
	charge := pricing.RoundFloat(base+buffer, 2)

	est.Breakdown = models.Breakdown{
		BaseEstimate:   pricing.RoundFloat(base, 2),
		RangeMin:       pricing.RoundFloat(base*(1-s.cfg.RangeSpread), 2),
		RangeMax:       pricing.RoundFloat(charge*(1+s.cfg.RangeSpread), 2),
		CustomerCharge: charge,
		BufferAmount:   buffer,
	}
	est.Cost = charge
}

func (s *shippingServiceImpl) record(metric string, dims map[string]string) {
	if s.metrics == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.metrics.RecordCount(ctx, metric, dims); err != nil {
			s.logger.Debug("Failed to record metric", zap.String("metric", metric), zap.Error(err))
		}
	}()
}

func (s *shippingServiceImpl) rateTable() models.RateTable {
	if s.rates == nil {
		return nil
	}
	return s.rates.Rates()
}

// sortedQuotes orders quotes by their base-currency amount.
func sortedQuotes(quotes []models.CarrierQuote, rates models.RateTable) []models.CarrierQuote {
	out := append([]models.CarrierQuote(nil), quotes...)
	sort.SliceStable(out, func(i, j int) bool {
		return pricing.ToBase(out[i].Amount, out[i].Currency, rates) < pricing.ToBase(out[j].Amount, out[j].Currency, rates)
	})
	return out
}
