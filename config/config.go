package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Site
	BaseURL string

	// Catalogs
	SellersFile    string
	CategoriesFile string

	// Persistence
	DBPath        string
	AutoSave      bool
	QueueCapacity int
	BatchSize     int

	// Crawl limits
	MaxConcurrent  int
	MaxPages       int // aggregate mode page cap
	MaxSellerPages int // per-seller page cap in fan-out mode
	FullPageSize   int // a page with fewer entries than this is the last one
	MaxResults     int // fan-out accumulator cap
	PageDelay      time.Duration

	// Politeness
	RespectRobots bool
	DelayProfile  string // "cautious", "normal", "aggressive"
	RatePerSecond float64
	RateBurst     int
	ProxyFile     string

	// HTTP server
	HTTPPort string
	APIKey   string
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:        "https://www.nadirkitap.com",
		SellersFile:    "sahaflar.json",
		CategoriesFile: "kategoriler.json",
		DBPath:         "kitaplar.db",
		QueueCapacity:  1000,
		BatchSize:      50,
		MaxConcurrent:  8,
		MaxPages:       1000,
		MaxSellerPages: 100,
		FullPageSize:   25,
		MaxResults:     10000,
		PageDelay:      200 * time.Millisecond,
		RespectRobots:  true,
		DelayProfile:   "aggressive",
		RatePerSecond:  5.0,
		RateBurst:      5,
		HTTPPort:       "8080",
	}
}

// LoadFromEnv loads .env file (if present) then overrides config from environment variables.
func (c *Config) LoadFromEnv() {
	// Auto-load .env file; silently ignored if missing
	_ = godotenv.Load()

	if v := os.Getenv("KITAPARA_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("KITAPARA_SELLERS"); v != "" {
		c.SellersFile = v
	}
	if v := os.Getenv("KITAPARA_CATEGORIES"); v != "" {
		c.CategoriesFile = v
	}
	if v := os.Getenv("KITAPARA_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("KITAPARA_AUTOSAVE"); v == "true" || v == "1" {
		c.AutoSave = true
	}
	if v := os.Getenv("KITAPARA_QUEUE_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.QueueCapacity = n
		}
	}
	if v := os.Getenv("KITAPARA_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.BatchSize = n
		}
	}
	if v := os.Getenv("KITAPARA_MAX_CONCURRENT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.MaxConcurrent = n
		}
	}
	if v := os.Getenv("KITAPARA_MAX_PAGES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.MaxPages = n
		}
	}
	if v := os.Getenv("KITAPARA_MAX_SELLER_PAGES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.MaxSellerPages = n
		}
	}
	if v := os.Getenv("KITAPARA_MAX_RESULTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.MaxResults = n
		}
	}
	if v := os.Getenv("KITAPARA_PAGE_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d >= 0 {
			c.PageDelay = d
		}
	}
	if v := os.Getenv("KITAPARA_DELAY_PROFILE"); v != "" {
		c.DelayProfile = v
	}
	if v := os.Getenv("KITAPARA_RATE_PER_SECOND"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.RatePerSecond = f
		}
	}
	if v := os.Getenv("KITAPARA_RATE_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RateBurst = n
		}
	}
	if v := os.Getenv("KITAPARA_PROXIES"); v != "" {
		c.ProxyFile = v
	}
	if v := os.Getenv("KITAPARA_RESPECT_ROBOTS"); v == "false" {
		c.RespectRobots = false
	}
	if v := os.Getenv("PORT"); v != "" {
		c.HTTPPort = v
	}
	if v := os.Getenv("KITAPARA_API_KEY"); v != "" {
		c.APIKey = v
	}
}
