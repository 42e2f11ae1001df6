package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress  string
	DatabaseURI string
	LogLevel    string

	StripeSecretKey     string
	StripeWebhookSecret string
	BaseCurrency        string
	PaymentAPIURL       string
	PaymentTimeout      time.Duration
	PaymentMaxRetries   int

	AdminLogin    string
	AdminPassword string
	TokenSecret   string
	TokenTTL      time.Duration

	ReconcileInterval time.Duration
	ReconcileGrace    time.Duration
	ReconcileBatch    int
	WorkerPoolSize    int
	ShutdownTimeout   time.Duration
}

const (
	defaultRunAddress        = ":8080"
	defaultLogLevel          = "info"
	defaultBaseCurrency      = "usd"
	defaultPaymentTimeout    = 15 * time.Second
	defaultPaymentMaxRetries = 2
	defaultTokenSecret       = "change-me-in-production"
	defaultTokenTTL          = 12 * time.Hour
	defaultReconcileGrace    = 10 * time.Minute
	defaultReconcileBatch    = 20
	defaultWorkerPoolSize    = 2
	defaultShutdownTimeout   = 10 * time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:          getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:         getString(lookup, "DATABASE_URI", ""),
		LogLevel:            getString(lookup, "LOG_LEVEL", defaultLogLevel),
		StripeSecretKey:     getString(lookup, "STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: getString(lookup, "STRIPE_WEBHOOK_SECRET", ""),
		BaseCurrency:        getString(lookup, "BASE_CURRENCY", defaultBaseCurrency),
		PaymentAPIURL:       getString(lookup, "PAYMENT_API_URL", ""),
		PaymentTimeout:      getDuration(lookup, "PAYMENT_TIMEOUT", defaultPaymentTimeout),
		PaymentMaxRetries:   getInt(lookup, "PAYMENT_MAX_RETRIES", defaultPaymentMaxRetries),
		AdminLogin:          getString(lookup, "ADMIN_LOGIN", ""),
		AdminPassword:       getString(lookup, "ADMIN_PASSWORD", ""),
		TokenSecret:         getString(lookup, "TOKEN_SECRET", defaultTokenSecret),
		TokenTTL:            getDuration(lookup, "TOKEN_TTL", defaultTokenTTL),
		ReconcileInterval:   getDuration(lookup, "RECONCILE_INTERVAL", 0),
		ReconcileGrace:      getDuration(lookup, "RECONCILE_GRACE", defaultReconcileGrace),
		ReconcileBatch:      getInt(lookup, "RECONCILE_BATCH", defaultReconcileBatch),
		WorkerPoolSize:      getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		ShutdownTimeout:     getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("studiodesk", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		paymentTimeoutStr    = cfg.PaymentTimeout.String()
		tokenTTLStr          = cfg.TokenTTL.String()
		reconcileIntervalStr = cfg.ReconcileInterval.String()
		reconcileGraceStr    = cfg.ReconcileGrace.String()
		shutdownTimeoutStr   = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.BaseCurrency, "currency", cfg.BaseCurrency, "Base currency for payment intents")
	fs.StringVar(&cfg.PaymentAPIURL, "payment-url", cfg.PaymentAPIURL, "Override payment processor API URL")
	fs.StringVar(&paymentTimeoutStr, "payment-timeout", paymentTimeoutStr, "Payment processor request timeout")
	fs.IntVar(&cfg.PaymentMaxRetries, "payment-retries", cfg.PaymentMaxRetries, "Payment processor network retries")
	fs.StringVar(&cfg.AdminLogin, "admin-login", cfg.AdminLogin, "Admin account seeded on start")
	fs.StringVar(&cfg.TokenSecret, "token-secret", cfg.TokenSecret, "Secret for signing admin tokens")
	fs.StringVar(&tokenTTLStr, "token-ttl", tokenTTLStr, "Admin token lifetime")
	fs.StringVar(&reconcileIntervalStr, "reconcile-interval", reconcileIntervalStr, "Payment reconciliation interval, 0 disables")
	fs.StringVar(&reconcileGraceStr, "reconcile-grace", reconcileGraceStr, "Age of pending orders eligible for reconciliation")
	fs.IntVar(&cfg.ReconcileBatch, "reconcile-batch", cfg.ReconcileBatch, "Maximum orders per reconciliation batch")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent reconciliation workers")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.PaymentTimeout, err = time.ParseDuration(paymentTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid payment timeout: %w", err)
	}
	if cfg.TokenTTL, err = time.ParseDuration(tokenTTLStr); err != nil {
		return nil, fmt.Errorf("invalid token ttl: %w", err)
	}
	if cfg.ReconcileInterval, err = time.ParseDuration(reconcileIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid reconcile interval: %w", err)
	}
	if cfg.ReconcileGrace, err = time.ParseDuration(reconcileGraceStr); err != nil {
		return nil, fmt.Errorf("invalid reconcile grace: %w", err)
	}
	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	secrets := []struct {
		env    string
		target *string
	}{
		{"STRIPE_SECRET_KEY_FILE", &cfg.StripeSecretKey},
		{"STRIPE_WEBHOOK_SECRET_FILE", &cfg.StripeWebhookSecret},
		{"TOKEN_SECRET_FILE", &cfg.TokenSecret},
	}
	for _, s := range secrets {
		if err := readSecretFile(lookup, s.env, s.target); err != nil {
			return nil, err
		}
	}

	cfg.BaseCurrency = strings.ToLower(strings.TrimSpace(cfg.BaseCurrency))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	if cfg.PaymentTimeout <= 0 {
		cfg.PaymentTimeout = defaultPaymentTimeout
	}
	if cfg.PaymentMaxRetries < 0 {
		cfg.PaymentMaxRetries = defaultPaymentMaxRetries
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}
	if cfg.ReconcileGrace <= 0 {
		cfg.ReconcileGrace = defaultReconcileGrace
	}
	if cfg.ReconcileBatch <= 0 {
		cfg.ReconcileBatch = defaultReconcileBatch
	}
	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}
	if cfg.StripeSecretKey == "" {
		return nil, fmt.Errorf("stripe secret key must be provided")
	}
	if cfg.StripeWebhookSecret == "" {
		return nil, fmt.Errorf("stripe webhook secret must be provided")
	}
	if len(cfg.BaseCurrency) != 3 {
		return nil, fmt.Errorf("invalid base currency %q", cfg.BaseCurrency)
	}
	if (cfg.AdminLogin == "") != (cfg.AdminPassword == "") {
		return nil, fmt.Errorf("admin login and password must be provided together")
	}
	if cfg.AdminLogin != "" && (cfg.TokenSecret == "" || cfg.TokenSecret == defaultTokenSecret) {
		return nil, fmt.Errorf("token secret must be set when an admin account is configured")
	}

	return cfg, nil
}

// ReconcileEnabled reports whether the background payment reconciler should run.
func (c *Config) ReconcileEnabled() bool {
	return c.ReconcileInterval > 0
}

func readSecretFile(lookup envLookup, key string, target *string) error {
	path, ok := lookup(key)
	if !ok || path == "" {
		return nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", strings.ToLower(key), err)
	}
	*target = strings.TrimSpace(string(content))
	return nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
