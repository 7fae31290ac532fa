// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
}

// SearchConfig provides settings for the search session engine and its mock backend.
type SearchConfig interface {
	GetPageSize() int
	GetSearchLatency() time.Duration
	GetUploadLatency() time.Duration
	GetRandomSeed() uint64
}

// LightboxConfig provides settings for the promotional lightbox trigger.
type LightboxConfig interface {
	GetAppHost() string
	GetPromoHosts() []string
	GetPromoItems() []string
}

// RateLimitConfig provides settings for the per-IP request limiter.
type RateLimitConfig interface {
	GetRateLimitPerSecond() float64
	GetRateLimitBurst() int
}

// =============================================================================
// Main Config Struct (implements all interfaces above)
// =============================================================================

var defaultPromoItems = []string{
	"/promo/premium-background-check.png",
	"/promo/unlimited-searches.png",
	"/promo/family-tree-report.png",
}

type Config struct {
	Env            string
	HTTPAddr       string
	CORSAllowAll   bool
	CORSOrigins    []string
	PageSize       int
	SearchLatency  time.Duration
	UploadLatency  time.Duration
	RandomSeed     uint64
	AppHost        string
	PromoHosts     []string
	PromoItems     []string
	RateLimitRPS   float64
	RateLimitBurst int
}

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }

// SearchConfig implementation
func (c *Config) GetPageSize() int                 { return c.PageSize }
func (c *Config) GetSearchLatency() time.Duration { return c.SearchLatency }
func (c *Config) GetUploadLatency() time.Duration { return c.UploadLatency }
func (c *Config) GetRandomSeed() uint64           { return c.RandomSeed }

// LightboxConfig implementation
func (c *Config) GetAppHost() string      { return c.AppHost }
func (c *Config) GetPromoHosts() []string { return c.PromoHosts }
func (c *Config) GetPromoItems() []string { return c.PromoItems }

// RateLimitConfig implementation
func (c *Config) GetRateLimitPerSecond() float64 { return c.RateLimitRPS }
func (c *Config) GetRateLimitBurst() int         { return c.RateLimitBurst }

// IsDevelopment reports whether the app runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	promoItems := splitCSV(getEnv("PROMO_ITEMS", ""))
	if len(promoItems) == 0 {
		promoItems = append([]string(nil), defaultPromoItems...)
	}

	cfg := &Config{
		Env:            getEnv("APP_ENV", "development"),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		CORSAllowAll:   corsAllowAll,
		CORSOrigins:    corsOrigins,
		PageSize:       mustInt(getEnv("SEARCH_PAGE_SIZE", "10")),
		SearchLatency:  mustDuration(getEnv("SEARCH_LATENCY", "500ms")),
		UploadLatency:  mustDuration(getEnv("UPLOAD_LATENCY", "1s")),
		RandomSeed:     mustUint64(getEnv("RANDOM_SEED", "0")),
		AppHost:        getEnv("APP_HOST", "localhost"),
		PromoHosts:     splitCSV(getEnv("PROMO_HOSTS", "localhost,127.0.0.1")),
		PromoItems:     promoItems,
		RateLimitRPS:   mustFloat(getEnv("RATE_LIMIT_RPS", "10")),
		RateLimitBurst: mustInt(getEnv("RATE_LIMIT_BURST", "20")),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.PageSize < 1 || c.PageSize > 100 {
		return fmt.Errorf("SEARCH_PAGE_SIZE must be between 1 and 100, got %d", c.PageSize)
	}
	if c.SearchLatency < 0 || c.UploadLatency < 0 {
		return fmt.Errorf("SEARCH_LATENCY and UPLOAD_LATENCY must not be negative")
	}
	if !c.CORSAllowAll && len(c.CORSOrigins) == 0 {
		return fmt.Errorf("CORS_ORIGINS must list at least one origin unless CORS_ALLOW_ALL is set")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst < 1 {
		return fmt.Errorf("RATE_LIMIT_RPS must be positive and RATE_LIMIT_BURST at least 1")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return -1
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return result
}

func mustUint64(value string) uint64 {
	result, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
