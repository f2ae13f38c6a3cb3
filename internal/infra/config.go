package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv             string
	Port               string
	DefaultLocale      string
	CORSAllowedOrigins []string
	GeoIPDBPath        string
	CatalogPath        string
	TogetherAPIKey     string
	TogetherBaseURL    string
	TogetherChatModel  string
	TogetherImageModel string
	TogetherRPM        int
	ImageCacheTTL      time.Duration
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
	RateLimitPerMin    int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
// The Together API key has no default: without TOGETHER_API_KEY the AI endpoints answer 503.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               getEnv("PORT", "8080"),
		DefaultLocale:      strings.ToLower(getEnv("DEFAULT_LOCALE", "pt")),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		GeoIPDBPath:        os.Getenv("GEOIP_DB_PATH"),
		CatalogPath:        os.Getenv("CATALOG_PATH"),
		TogetherAPIKey:     strings.TrimSpace(os.Getenv("TOGETHER_API_KEY")),
		TogetherBaseURL:    getEnv("TOGETHER_BASE_URL", "https://api.together.xyz/v1"),
		TogetherChatModel:  getEnv("TOGETHER_CHAT_MODEL", "ServiceNow-AI/Apriel-1.5-15b-Thinker"),
		TogetherImageModel: getEnv("TOGETHER_IMAGE_MODEL", "black-forest-labs/FLUX.1-schnell-Free"),
		TogetherRPM:        getEnvInt("TOGETHER_REQUESTS_PER_MINUTE", 6),
		ImageCacheTTL:      time.Second * time.Duration(getEnvInt("IMAGE_CACHE_TTL_SECONDS", 600)),
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 0)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:    getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}

	if cfg.DefaultLocale != "pt" && cfg.DefaultLocale != "en" {
		return nil, fmt.Errorf("DEFAULT_LOCALE must be pt or en, got %q", cfg.DefaultLocale)
	}

	if cfg.RateLimitPerMin <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}

	return cfg, nil
}

// HasTogetherKey reports whether the AI collaborators can be reached.
func (c *Config) HasTogetherKey() bool {
	return c != nil && c.TogetherAPIKey != ""
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
