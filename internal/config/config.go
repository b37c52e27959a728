package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAppName       = "Quayside"
	defaultAppEnv        = "development"
	defaultPort          = "8080"
	defaultLogLevel      = "info"
	defaultShutdownDelay = 10 * time.Second
	defaultQuoteCacheTTL = 5 * time.Second

	defaultNodeURL       = "https://nodes.wavesnodes.com"
	defaultMatcherURL    = "https://matcher.waves.exchange"
	defaultMarketDataURL = "https://marketdata.wavesplatform.com/api"

	quoteTTLSecondsEnvVar  = "QUOTE_CACHE_TTL_SECONDS"
	quoteTTLDurEnvVar      = "QUOTE_CACHE_TTL"
	shutdownSecondsEnvVar  = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurationEnvVar = "SHUTDOWN_TIMEOUT"
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName        string
	AppEnv         string
	Port           string
	LogLevel       string
	NodeURL        string
	MatcherURL     string
	MarketDataURL  string
	WalletAddress  string
	DatabaseURL    string
	RedisURL       string
	ShutdownPeriod time.Duration
	QuoteCacheTTL  time.Duration
}

// Load reads configuration values from the environment and populates a Config
// instance. DATABASE_URL and REDIS_URL are optional; without them pending
// transfers live in memory and quote responses are not cached.
func Load() (Config, error) {
	cfg := Config{
		AppName:        getEnv("APP_NAME", defaultAppName),
		AppEnv:         getEnv("APP_ENV", defaultAppEnv),
		Port:           getEnv("PORT", defaultPort),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		NodeURL:        getEnv("NODE_URL", defaultNodeURL),
		MatcherURL:     getEnv("MATCHER_URL", defaultMatcherURL),
		MarketDataURL:  getEnv("MARKET_DATA_URL", defaultMarketDataURL),
		WalletAddress:  os.Getenv("WALLET_ADDRESS"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		ShutdownPeriod: defaultShutdownDelay,
		QuoteCacheTTL:  defaultQuoteCacheTTL,
	}

	if v := os.Getenv(shutdownSecondsEnvVar); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", shutdownSecondsEnvVar, err)
		}
		cfg.ShutdownPeriod = time.Duration(seconds) * time.Second
	} else if v := os.Getenv(shutdownDurationEnvVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", shutdownDurationEnvVar, err)
		}
		cfg.ShutdownPeriod = d
	}

	if v := os.Getenv(quoteTTLSecondsEnvVar); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", quoteTTLSecondsEnvVar, err)
		}
		cfg.QuoteCacheTTL = time.Duration(seconds) * time.Second
	} else if v := os.Getenv(quoteTTLDurEnvVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", quoteTTLDurEnvVar, err)
		}
		cfg.QuoteCacheTTL = d
	}

	if cfg.WalletAddress == "" {
		return Config{}, fmt.Errorf("WALLET_ADDRESS must be set")
	}

	return cfg, nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
