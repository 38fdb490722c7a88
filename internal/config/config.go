package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// GHLConfig holds the GoHighLevel API connection defaults shared by every per-profile client.
type GHLConfig struct {
	BaseURL    string
	APIVersion string
	Timeout    time.Duration
}

// PhotoConfig bounds the best-effort photo fetch performed while rendering vCards.
type PhotoConfig struct {
	Timeout  time.Duration
	MaxBytes int64
}

// Config aggregates application-wide configuration values.
type Config struct {
	DatabaseURL        string
	JWTSecret          string
	JWTAudience        string
	Port               string
	LogLevel           string
	LogFormat          string
	DefaultPhoneRegion string
	GHL                GHLConfig
	Photo              PhotoConfig
	RateLimitContacts  RateLimitConfig
	TrustedProxies     []*net.IPNet
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		JWTSecret:          getEnv("JWT_SECRET", "dev-secret"),
		JWTAudience:        getEnv("JWT_AUDIENCE", "authenticated"),
		Port:               getEnv("PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
		DefaultPhoneRegion: strings.ToUpper(getEnv("DEFAULT_PHONE_REGION", "US")),
		GHL: GHLConfig{
			BaseURL:    strings.TrimRight(getEnv("GHL_BASE_URL", "https://services.leadconnectorhq.com"), "/"),
			APIVersion: getEnv("GHL_API_VERSION", "2021-07-28"),
			Timeout:    parseDuration(getEnv("GHL_TIMEOUT", "15s"), 15*time.Second),
		},
		Photo: PhotoConfig{
			Timeout: parseDuration(getEnv("PHOTO_FETCH_TIMEOUT", "10s"), 10*time.Second),
		},
	}

	maxBytes, err := strconv.ParseInt(getEnv("PHOTO_MAX_BYTES", "5242880"), 10, 64)
	if err != nil || maxBytes <= 0 {
		return nil, fmt.Errorf("invalid PHOTO_MAX_BYTES value: %q", os.Getenv("PHOTO_MAX_BYTES"))
	}
	cfg.Photo.MaxBytes = maxBytes

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_CONTACTS", "10/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_CONTACTS value: %w", err)
	}
	cfg.RateLimitContacts = rl

	proxies, err := parseCIDRs(os.Getenv("TRUSTED_PROXIES"))
	if err != nil {
		return nil, fmt.Errorf("invalid TRUSTED_PROXIES value: %w", err)
	}
	cfg.TrustedProxies = proxies

	return cfg, nil
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

// parseCIDRs reads a comma separated list of CIDR ranges; bare IPs are treated as single hosts.
func parseCIDRs(value string) ([]*net.IPNet, error) {
	var ranges []*net.IPNet
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !strings.Contains(part, "/") {
			ip := net.ParseIP(part)
			if ip == nil {
				return nil, fmt.Errorf("invalid ip: %s", part)
			}
			bits := 32
			if ip.To4() == nil {
				bits = 128
			}
			part = fmt.Sprintf("%s/%d", part, bits)
		}
		_, ipNet, err := net.ParseCIDR(part)
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, ipNet)
	}
	return ranges, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseDuration(input string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
