package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Scraper ScraperConfig
	Proxy   ProxyConfig
	API     APIConfig
}

// ScraperConfig drives the snapshot collection loop.
type ScraperConfig struct {
	Cron           string
	RunOnStart     bool
	DefaultDays    int
	MaxDays        int
	ItaloEnabled   bool
	OutboundPause  time.Duration
	AnchorPause    time.Duration
	DatePause      time.Duration
	RestrictedFare []string
}

// ProxyConfig controls the rotating outbound proxy credentials.
type ProxyConfig struct {
	APIKey   string
	ListURL  string
	CacheTTL time.Duration
}

type APIConfig struct {
	Listen      string
	ScrapeKey   string
	CalendarTTL time.Duration
}

func Load() *Config {
	return &Config{
		Scraper: ScraperConfig{
			Cron:           getEnv("SCRAPE_CRON", "0 6 * * *"),
			RunOnStart:     getBoolEnv("RUN_ON_START", false),
			DefaultDays:    getIntEnv("SCRAPE_DAYS", 60),
			MaxDays:        getIntEnv("SCRAPE_MAX_DAYS", 120),
			ItaloEnabled:   getBoolEnv("ITALO_ENABLED", false),
			OutboundPause:  getDurationEnv("SCRAPE_OUTBOUND_PAUSE", 1500*time.Millisecond),
			AnchorPause:    getDurationEnv("SCRAPE_ANCHOR_PAUSE", time.Second),
			DatePause:      getDurationEnv("SCRAPE_DATE_PAUSE", 1500*time.Millisecond),
			RestrictedFare: getListEnv("RESTRICTED_FARE_TOKENS", []string{"young", "giovani", "youth", "senior"}),
		},
		Proxy: ProxyConfig{
			APIKey:   getEnv("WEBSHARE_API_KEY", ""),
			ListURL:  getEnv("WEBSHARE_LIST_URL", "https://proxy.webshare.io/api/v2/proxy/list/?mode=direct&page=1&page_size=100"),
			CacheTTL: getDurationEnv("PROXY_CACHE_TTL", 5*time.Minute),
		},
		API: APIConfig{
			Listen:      getEnv("API_LISTEN", ":3000"),
			ScrapeKey:   getEnv("SCRAPER_API_KEY", ""),
			CalendarTTL: getDurationEnv("CALENDAR_CACHE_TTL", 5*time.Minute),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true"
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getListEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
