package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"checkout-service/database"
	"checkout-service/models"
	aws_pkg "checkout-service/pkg/aws"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the checkout service.
type Config struct {
	Port        string
	Env         string
	ServiceName string

	Postgres database.PostgresConfig
	Redis    database.RedisConfig

	ShippoAPIKey    string
	ShippoBaseURL   string
	ProviderTimeout time.Duration
	BufferPercent   float64
	RangeSpread     float64
	QuoteCacheTTL   time.Duration

	RatesURL             string
	RatesRefreshInterval time.Duration

	AllowedOrigins     []string
	JWTSecret          string
	RateLimitPerMinute int
	RateLimitBurst     int

	AWSRegion          string
	AWSEndpoint        string
	AWSUseSecrets      bool
	LeadSNSTopicARN    string
	MetricsEnabled     bool
	MetricsNamespace   string
	CloudWatchLogs     bool
	CloudWatchLogGroup string

	// Warehouse / origin address
	OriginName       string
	OriginStreet1    string
	OriginCity       string
	OriginState      string
	OriginPostalCode string
	OriginCountry    string
	OriginPhone      string
}

// OriginAddress builds an Address struct from origin config values.
func (c *Config) OriginAddress() models.Address {
	return models.Address{
		Name:       c.OriginName,
		Street1:    c.OriginStreet1,
		City:       c.OriginCity,
		State:      c.OriginState,
		PostalCode: c.OriginPostalCode,
		Country:    c.OriginCountry,
		Phone:      c.OriginPhone,
	}
}

// LoadConfig reads configuration from the environment (and a .env file when
// present) with optional Secrets Manager override.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8095"),
		Env:         getEnv("APP_ENV", "development"),
		ServiceName: getEnv("SERVICE_NAME", "checkout-service"),
		Postgres: database.PostgresConfig{
			Host:     os.Getenv("POSTGRES_HOST"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			User:     os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			DBName:   os.Getenv("POSTGRES_DB"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
			TimeZone: getEnv("POSTGRES_TIMEZONE", "Asia/Kolkata"),
		},
		Redis: database.RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvInt("REDIS_DB", 0),
		},

		ShippoAPIKey:    os.Getenv("SHIPPO_API_KEY"),
		ShippoBaseURL:   os.Getenv("SHIPPO_BASE_URL"),
		ProviderTimeout: getEnvDuration("PROVIDER_TIMEOUT", 8*time.Second),
		BufferPercent:   getEnvFloat("SHIPPING_BUFFER_PERCENT", 0.15),
		RangeSpread:     getEnvFloat("SHIPPING_RANGE_SPREAD", 0.10),
		QuoteCacheTTL:   getEnvDuration("QUOTE_CACHE_TTL", 10*time.Minute),

		RatesURL:             os.Getenv("RATES_URL"),
		RatesRefreshInterval: getEnvDuration("RATES_REFRESH_INTERVAL", time.Hour),

		AllowedOrigins:     splitCSV(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		JWTSecret:          strings.TrimSpace(os.Getenv("JWT_SECRET")),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		RateLimitBurst:     getEnvInt("RATE_LIMIT_BURST", 30),

		AWSRegion:          getEnv("AWS_REGION", "ap-south-1"),
		AWSEndpoint:        os.Getenv("AWS_ENDPOINT"),
		AWSUseSecrets:      os.Getenv("AWS_USE_SECRETS") == "true",
		LeadSNSTopicARN:    os.Getenv("LEAD_SNS_TOPIC_ARN"),
		MetricsEnabled:     os.Getenv("CLOUDWATCH_METRICS_ENABLED") == "true",
		MetricsNamespace:   getEnv("CLOUDWATCH_NAMESPACE", "Checkout"),
		CloudWatchLogs:     os.Getenv("CLOUDWATCH_LOGS_ENABLED") == "true",
		CloudWatchLogGroup: getEnv("CLOUDWATCH_LOG_GROUP", "/checkout/services"),

		OriginName:       getEnv("ORIGIN_NAME", "Stone Export Warehouse"),
		OriginStreet1:    getEnv("ORIGIN_STREET1", "RIICO Industrial Area, Sitapura"),
		OriginCity:       getEnv("ORIGIN_CITY", "Jaipur"),
		OriginState:      getEnv("ORIGIN_STATE", "RJ"),
		OriginPostalCode: getEnv("ORIGIN_POSTAL_CODE", "302022"),
		OriginCountry:    getEnv("ORIGIN_COUNTRY", "IN"),
		OriginPhone:      getEnv("ORIGIN_PHONE", "+911412770000"),
	}

	// Override DB credentials and the Shippo key from Secrets Manager when
	// running on AWS
	if cfg.AWSUseSecrets {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if awsCfg, err := aws_pkg.LoadAWSConfig(ctx, cfg.AWSRegion, cfg.AWSEndpoint); err == nil {
			sm := aws_pkg.NewSecretsClient(awsCfg)
			if m, err := sm.GetSecretMap(ctx, "checkout/DB_CREDENTIALS"); err == nil {
				applyDBSecret(&cfg.Postgres, m)
			}
			if v, err := sm.GetSecret(ctx, "checkout/SHIPPO_API_KEY"); err == nil && v != "" {
				cfg.ShippoAPIKey = v
			}
			if v, err := sm.GetSecret(ctx, "checkout/JWT_SECRET"); err == nil && v != "" {
				cfg.JWTSecret = v
			}
		}
	}

	if err := cfg.Postgres.Validate(); err != nil {
		return nil, fmt.Errorf("database config incomplete: %w", err)
	}
	if cfg.BufferPercent < 0 || cfg.RangeSpread < 0 || cfg.RangeSpread >= 1 {
		return nil, fmt.Errorf("invalid shipping pricing parameters: buffer=%v spread=%v", cfg.BufferPercent, cfg.RangeSpread)
	}
	return cfg, nil
}

func applyDBSecret(pg *database.PostgresConfig, m map[string]string) {
	if v := m["POSTGRES_USER"]; v != "" {
		pg.User = v
	}
	if v := m["POSTGRES_PASSWORD"]; v != "" {
		pg.Password = v
	}
	if v := m["POSTGRES_DB"]; v != "" {
		pg.DBName = v
	}
	if v := m["POSTGRES_HOST"]; v != "" {
		pg.Host = v
	}
	if v := m["POSTGRES_PORT"]; v != "" {
		pg.Port = v
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
