package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains all runtime settings for the medical query service.
type Config struct {
	BindAddr         string
	ShutdownTimeout  time.Duration
	MetricsNamespace string

	AllowAnyOrigin bool

	DatabaseURL string

	// Quota policy. Free users get a small daily allowance; subscribers a larger one.
	QuotaFreeLimit       int
	QuotaSubscriberLimit int
	QuotaResetInterval   time.Duration

	// MemoryWindow is the number of prior question/answer turns kept per conversation.
	MemoryWindow int

	RetrieverMode  string
	RetrieverURL   string
	RetrieverTopK  int
	RetrieverIndex string

	GeneratorMode    string
	GeneratorURL     string
	GeneratorModel   string
	GeneratorTimeout time.Duration

	GoogleClientID   string
	OAuthRedirectURI string

	BillingAPIURL        string
	BillingAPIKey        string
	BillingWebhookSecret string
	BillingPriceID       string
	BillingSuccessURL    string
	BillingCancelURL     string
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:             envOrDefault("APP_BIND_ADDR", ":8080"),
		MetricsNamespace:     envOrDefault("APP_METRICS_NAMESPACE", "medquery"),
		AllowAnyOrigin:       false,
		DatabaseURL:          stringsTrimSpace("DATABASE_URL"),
		QuotaFreeLimit:       3,
		QuotaSubscriberLimit: 70,
		QuotaResetInterval:   24 * time.Hour,
		MemoryWindow:         3,
		RetrieverMode:        envOrDefault("RETRIEVER_MODE", "auto"),
		RetrieverURL:         stringsTrimSpace("RETRIEVER_URL"),
		RetrieverTopK:        4,
		RetrieverIndex:       envOrDefault("RETRIEVER_INDEX", "medicalcorpus-v5"),
		GeneratorMode:        envOrDefault("GENERATOR_MODE", "auto"),
		GeneratorURL:         stringsTrimSpace("GENERATOR_URL"),
		GeneratorModel:       envOrDefault("GENERATOR_MODEL", "gpt-4o-mini"),
		GeneratorTimeout:     60 * time.Second,
		GoogleClientID:       stringsTrimSpace("GOOGLE_CLIENT_ID"),
		OAuthRedirectURI:     stringsTrimSpace("OAUTH_REDIRECT_URI"),
		BillingAPIURL:        envOrDefault("BILLING_API_URL", "https://api.stripe.com"),
		BillingAPIKey:        stringsTrimSpace("BILLING_API_KEY"),
		BillingWebhookSecret: stringsTrimSpace("BILLING_WEBHOOK_SECRET"),
		BillingPriceID:       stringsTrimSpace("BILLING_PRICE_ID"),
		BillingSuccessURL:    envOrDefault("BILLING_SUCCESS_URL", "https://medquery.example/success"),
		BillingCancelURL:     envOrDefault("BILLING_CANCEL_URL", "https://medquery.example/cancel"),
		ShutdownTimeout:      15 * time.Second,
	}

	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.QuotaResetInterval, err = durationFromEnv("QUOTA_RESET_INTERVAL", cfg.QuotaResetInterval)
	if err != nil {
		return Config{}, err
	}
	cfg.GeneratorTimeout, err = durationFromEnv("GENERATOR_TIMEOUT", cfg.GeneratorTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.QuotaFreeLimit, err = intFromEnv("QUOTA_FREE_LIMIT", cfg.QuotaFreeLimit)
	if err != nil {
		return Config{}, err
	}
	cfg.QuotaSubscriberLimit, err = intFromEnv("QUOTA_SUBSCRIBER_LIMIT", cfg.QuotaSubscriberLimit)
	if err != nil {
		return Config{}, err
	}
	cfg.MemoryWindow, err = intFromEnv("MEMORY_WINDOW", cfg.MemoryWindow)
	if err != nil {
		return Config{}, err
	}
	cfg.RetrieverTopK, err = intFromEnv("RETRIEVER_TOP_K", cfg.RetrieverTopK)
	if err != nil {
		return Config{}, err
	}
	cfg.AllowAnyOrigin, err = boolFromEnv("APP_ALLOW_ANY_ORIGIN", cfg.AllowAnyOrigin)
	if err != nil {
		return Config{}, err
	}

	if cfg.QuotaFreeLimit <= 0 {
		return Config{}, fmt.Errorf("QUOTA_FREE_LIMIT must be positive")
	}
	if cfg.QuotaSubscriberLimit < cfg.QuotaFreeLimit {
		return Config{}, fmt.Errorf("QUOTA_SUBSCRIBER_LIMIT must be >= QUOTA_FREE_LIMIT")
	}
	if cfg.QuotaResetInterval < time.Minute {
		return Config{}, fmt.Errorf("QUOTA_RESET_INTERVAL must be at least 1m")
	}
	if cfg.MemoryWindow <= 0 {
		return Config{}, fmt.Errorf("MEMORY_WINDOW must be positive")
	}
	if cfg.RetrieverTopK <= 0 {
		return Config{}, fmt.Errorf("RETRIEVER_TOP_K must be positive")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func stringsTrimSpace(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(stringsTrimSpace(key))
	if v == "" {
		return fallback, nil
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}
