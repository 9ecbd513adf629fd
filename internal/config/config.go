package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Sequence backends.
const (
	SequenceBackendPostgres = "postgres"
	SequenceBackendRedis    = "redis"
)

// Tracking column modes.
const (
	TrackingColumnsAuto     = "auto"
	TrackingColumnsEnabled  = "enabled"
	TrackingColumnsDisabled = "disabled"
)

// Price sources.
const (
	PriceSourceMenu   = "menu"
	PriceSourceClient = "client"
)

// DefaultJWTSecret signs admin tokens when no secret is configured.
const DefaultJWTSecret = "change-me-in-production"

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress             string
	DatabaseURI            string
	RedisURL               string
	SequenceBackend        string
	JWTSecret              string
	AdminTokenTTL          time.Duration
	PasswordHashCost       int
	TrackingColumns        string
	TrackingTokenTTL       time.Duration
	TrackingRetention      time.Duration
	TrackingSweepInterval  time.Duration
	TrackingSweepBatch     int
	StoreLocation          *time.Location
	PriceSource            string
	DeliveryFee            decimal.Decimal
	AllowStatusCorrections bool
	AutoMigrate            bool
	RequestTimeout         time.Duration
	ShutdownTimeout        time.Duration
	CORSAllowedOrigins     []string
	LogLevel               string
	BootstrapAdminEmail    string
	BootstrapAdminPassword string
	BootstrapAdminName     string
}

const (
	defaultRunAddress            = ":8080"
	defaultAdminTokenTTL         = 12 * time.Hour
	defaultTrackingTokenTTL      = 30 * time.Minute
	defaultTrackingRetention     = 24 * time.Hour
	defaultTrackingSweepInterval = 5 * time.Minute
	defaultTrackingSweepBatch    = 100
	defaultStoreTimezone         = "UTC"
	defaultRequestTimeout        = 10 * time.Second
	defaultShutdownTimeout       = 10 * time.Second
	defaultLogLevel              = "info"
	defaultBootstrapAdminName    = "Store Admin"
)

// Load parses configuration from .env, environment variables and flags.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:             getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:            getString(lookup, "DATABASE_URI", ""),
		RedisURL:               getString(lookup, "REDIS_URL", ""),
		SequenceBackend:        getString(lookup, "SEQUENCE_BACKEND", SequenceBackendPostgres),
		JWTSecret:              getString(lookup, "JWT_SECRET", DefaultJWTSecret),
		AdminTokenTTL:          getDuration(lookup, "ADMIN_TOKEN_TTL", defaultAdminTokenTTL),
		PasswordHashCost:       getInt(lookup, "ADMIN_PASSWORD_COST", 0),
		TrackingColumns:        getString(lookup, "TRACKING_COLUMNS", TrackingColumnsAuto),
		TrackingTokenTTL:       getDuration(lookup, "TRACKING_TOKEN_TTL", defaultTrackingTokenTTL),
		TrackingRetention:      getDuration(lookup, "TRACKING_RETENTION", defaultTrackingRetention),
		TrackingSweepInterval:  getDuration(lookup, "TRACKING_SWEEP_INTERVAL", defaultTrackingSweepInterval),
		TrackingSweepBatch:     getInt(lookup, "TRACKING_SWEEP_BATCH", defaultTrackingSweepBatch),
		PriceSource:            getString(lookup, "PRICE_SOURCE", PriceSourceMenu),
		AllowStatusCorrections: getBool(lookup, "ALLOW_STATUS_CORRECTIONS", false),
		AutoMigrate:            getBool(lookup, "AUTO_MIGRATE", true),
		RequestTimeout:         getDuration(lookup, "REQUEST_TIMEOUT", defaultRequestTimeout),
		ShutdownTimeout:        getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		CORSAllowedOrigins:     getList(lookup, "CORS_ALLOWED_ORIGINS", []string{"*"}),
		LogLevel:               getString(lookup, "LOG_LEVEL", defaultLogLevel),
		BootstrapAdminEmail:    getString(lookup, "ADMIN_BOOTSTRAP_EMAIL", ""),
		BootstrapAdminPassword: getString(lookup, "ADMIN_BOOTSTRAP_PASSWORD", ""),
		BootstrapAdminName:     getString(lookup, "ADMIN_BOOTSTRAP_NAME", defaultBootstrapAdminName),
	}
	timezone := getString(lookup, "STORE_TIMEZONE", defaultStoreTimezone)
	deliveryFee := getString(lookup, "DELIVERY_FEE", "0")

	fs := flag.NewFlagSet("ordertrack", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		sweepIntervalStr   = cfg.TrackingSweepInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.RedisURL, "redis", cfg.RedisURL, "Redis URL for the sequence backend")
	fs.StringVar(&cfg.SequenceBackend, "sequence", cfg.SequenceBackend, "Daily number backend: postgres or redis")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing admin tokens")
	fs.StringVar(&cfg.TrackingColumns, "tracking", cfg.TrackingColumns, "Tracking columns: auto, enabled or disabled")
	fs.StringVar(&sweepIntervalStr, "sweep-interval", sweepIntervalStr, "Interval between expired tracking sweeps")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error
	if cfg.TrackingSweepInterval, err = time.ParseDuration(sweepIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid sweep interval: %w", err)
	}
	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("JWT_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt secret file: %w", err)
		}
		cfg.JWTSecret = strings.TrimSpace(string(content))
	}

	if cfg.StoreLocation, err = time.LoadLocation(timezone); err != nil {
		return nil, fmt.Errorf("invalid store timezone: %w", err)
	}
	if cfg.DeliveryFee, err = decimal.NewFromString(deliveryFee); err != nil {
		return nil, fmt.Errorf("invalid delivery fee: %w", err)
	}
	if cfg.DeliveryFee.IsNegative() {
		return nil, fmt.Errorf("invalid delivery fee: must not be negative")
	}

	if cfg.TrackingTokenTTL <= 0 {
		cfg.TrackingTokenTTL = defaultTrackingTokenTTL
	}
	if cfg.TrackingSweepInterval <= 0 {
		cfg.TrackingSweepInterval = defaultTrackingSweepInterval
	}
	if cfg.TrackingSweepBatch <= 0 {
		cfg.TrackingSweepBatch = defaultTrackingSweepBatch
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}
	if cfg.AdminTokenTTL <= 0 {
		cfg.AdminTokenTTL = defaultAdminTokenTTL
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}
	switch cfg.SequenceBackend {
	case SequenceBackendPostgres:
	case SequenceBackendRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("redis URL must be provided for redis sequence backend")
		}
	default:
		return nil, fmt.Errorf("unknown sequence backend %q", cfg.SequenceBackend)
	}
	switch cfg.TrackingColumns {
	case TrackingColumnsAuto, TrackingColumnsEnabled, TrackingColumnsDisabled:
	default:
		return nil, fmt.Errorf("unknown tracking columns mode %q", cfg.TrackingColumns)
	}
	switch cfg.PriceSource {
	case PriceSourceMenu, PriceSourceClient:
	default:
		return nil, fmt.Errorf("unknown price source %q", cfg.PriceSource)
	}

	return cfg, nil
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

func getBool(lookup envLookup, key string, def bool) bool {
	if v, ok := lookup(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
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

func getList(lookup envLookup, key string, def []string) []string {
	v, ok := lookup(key)
	if !ok || strings.TrimSpace(v) == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
