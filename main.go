package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"checkout-service/controllers"
	"checkout-service/database"
	applog "checkout-service/logger"
	"checkout-service/middleware"
	"checkout-service/models"
	aws_pkg "checkout-service/pkg/aws"
	"checkout-service/pricing"
	"checkout-service/providers"
	"checkout-service/rates"
	"checkout-service/repository"
	"checkout-service/routes"
	servicepkg "checkout-service/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	rootCtx, cancelRoot := context.WithCancel(context.Background())
	defer cancelRoot()

	// AWS clients
	awsCfg, awsErr := aws_pkg.LoadAWSConfig(rootCtx, cfg.AWSRegion, cfg.AWSEndpoint)

	var logSink io.Writer
	if awsErr == nil && cfg.CloudWatchLogs {
		cw, err := aws_pkg.NewCloudWatchLogsClient(rootCtx, awsCfg, cfg.CloudWatchLogGroup, cfg.ServiceName, true)
		if err != nil {
			log.Printf("CloudWatch Logs unavailable, logging to console only: %v", err)
		} else {
			logSink = cw
		}
	}

	logger, err := applog.New(cfg.Env, logSink)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	var (
		snsClient     aws_pkg.SNSPublisher
		metricsClient *aws_pkg.MetricsClient
		metrics       servicepkg.MetricsRecorder
	)
	if awsErr != nil {
		logger.Warn("AWS config unavailable, SNS and CloudWatch disabled", zap.Error(awsErr))
	} else {
		snsClient = aws_pkg.NewSNSClient(awsCfg)
		metricsClient = aws_pkg.NewMetricsClient(awsCfg, cfg.MetricsNamespace, cfg.MetricsEnabled)
		if metricsClient.IsEnabled() {
			metrics = metricsClient
		}
	}

	db, err := database.ConnectPostgres(cfg.Postgres, logger, &models.Lead{})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db) //nolint:errcheck

	var quoteCache repository.QuoteCache
	if cfg.Redis.Addr != "" {
		redisClient, err := database.ConnectRedis(rootCtx, cfg.Redis, 3, logger)
		if err != nil {
			logger.Warn("Redis unavailable, shipping quotes are not cached", zap.Error(err))
		} else {
			defer redisClient.Close() //nolint:errcheck
			quoteCache = repository.NewRedisQuoteCache(redisClient, cfg.QuoteCacheTTL)
		}
	}

	// Exchange rates
	rateStore := rates.NewStore(pricing.DefaultRates())
	if cfg.RatesURL != "" {
		rates.NewRefresher(cfg.RatesURL, cfg.RatesRefreshInterval, rateStore, logger).Start(rootCtx)
	}
	catalog := pricing.DefaultCurrencies()
	paymentCurrencies := pricing.DefaultPaymentCurrencies()

	// Providers and DI chain
	var rateProvider providers.RateProvider
	if cfg.ShippoAPIKey != "" {
		rateProvider = providers.NewShippoProvider(cfg.ShippoAPIKey, cfg.ShippoBaseURL, cfg.ProviderTimeout)
	} else {
		logger.Info("SHIPPO_API_KEY not set, shipping estimates use the heuristic tariff")
	}
	heuristicCfg := providers.DefaultHeuristicConfig()
	heuristicCfg.OriginCountry = cfg.OriginCountry

	shipCfg := servicepkg.DefaultShippingConfig(cfg.OriginAddress())
	shipCfg.BufferPercent = cfg.BufferPercent
	shipCfg.RangeSpread = cfg.RangeSpread
	shipCfg.ProviderTimeout = cfg.ProviderTimeout

	shippingService := servicepkg.NewShippingService(
		rateProvider,
		providers.NewHeuristicEstimator(heuristicCfg),
		quoteCache,
		metrics,
		rateStore,
		shipCfg,
		logger,
	)
	checkoutService := servicepkg.NewCheckoutService(rateStore, catalog, paymentCurrencies, metrics, logger)
	currencyService := servicepkg.NewCurrencyService(rateStore, catalog, paymentCurrencies, logger)
	leadService := servicepkg.NewLeadService(
		repository.NewGormLeadRepository(db),
		snsClient,
		cfg.LeadSNSTopicARN,
		metrics,
		logger,
	)

	if err := controllers.RegisterValidators(); err != nil {
		logger.Fatal("Failed to register validators", zap.Error(err))
	}
	shippingController := controllers.NewShippingController(shippingService)
	checkoutController := controllers.NewCheckoutController(checkoutService, currencyService)
	leadController := controllers.NewLeadController(leadService)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET not set, admin lead routes will reject every request")
	}

	limiter := middleware.NewRateLimiter(middleware.PerMinute(cfg.RateLimitPerMinute), cfg.RateLimitBurst, 5*time.Minute)
	defer limiter.Stop()

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		middleware.Timeout(30*time.Second),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.AllowedOrigins),
		middleware.RateLimit(limiter),
		middleware.Metrics(metricsClient, cfg.ServiceName),
	)

	r.GET("/health", func(c *gin.Context) {
		snap := rateStore.Current()
		c.JSON(http.StatusOK, gin.H{
			"status":           "healthy",
			"service":          cfg.ServiceName,
			"rates_source":     snap.Source,
			"rates_fetched_at": snap.FetchedAt,
			"live_shipping":    rateProvider != nil,
		})
	})

	routes.RegisterRoutes(r, shippingController, checkoutController, leadController, []byte(cfg.JWTSecret))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	logger.Info("Checkout service started", zap.String("port", cfg.Port))
	<-quit
	logger.Info("Shutting down checkout service...")
	cancelRoot()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server exited cleanly")
}
