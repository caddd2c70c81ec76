package config

import (
	"fmt"
	"log/slog"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"

	SessionBackendMemory   = "memory"
	SessionBackendFile     = "file"
	SessionBackendPostgres = "postgres"
)

type Config struct {
	Addr                string
	Environment         string
	LogLevel            string
	FrontendDir         string
	APIBaseURL          string
	APITimeout          time.Duration
	QueryRetries        int
	CacheBackend        string
	CacheTTL            time.Duration
	RedisAddr           string
	RedisPassword       string
	RedisDB             int
	SessionBackend      string
	SessionDir          string
	DatabaseURL         string
	SessionSealKey      string
	SessionTTL          time.Duration
	SignInRatePerMinute int
	NotificationPoll    time.Duration
	SessionSweep        time.Duration
	MaxBodyBytes        int64
	TrustedProxies      []netip.Prefix
	trustedProxiesErr   error
}

// Load reads an optional .env file and then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("dotenv load failed", "err", err)
	}
	proxies, proxiesErr := parsePrefixes(getEnv("TRUSTED_PROXIES", ""))
	return Config{
		Addr:                getEnv("APP_ADDR", ":8080"),
		Environment:         getEnv("APP_ENV", "development"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		FrontendDir:         getEnv("FRONTEND_DIR", "frontend/dist"),
		APIBaseURL:          getEnv("HRHUB_API_URL", "http://localhost:4000"),
		APITimeout:          getEnvDuration("HRHUB_API_TIMEOUT", 15*time.Second),
		QueryRetries:        getEnvInt("QUERY_RETRIES", 3),
		CacheBackend:        getEnv("CACHE_BACKEND", CacheBackendMemory),
		CacheTTL:            getEnvDuration("CACHE_TTL", 5*time.Minute),
		RedisAddr:           getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		RedisDB:             getEnvInt("REDIS_DB", 0),
		SessionBackend:      getEnv("SESSION_BACKEND", SessionBackendMemory),
		SessionDir:          getEnv("SESSION_DIR", "var/sessions"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		SessionSealKey:      getEnv("SESSION_SEAL_KEY", ""),
		SessionTTL:          getEnvDuration("SESSION_TTL", 12*time.Hour),
		SignInRatePerMinute: getEnvInt("SIGNIN_RATE_PER_MINUTE", 10),
		NotificationPoll:    getEnvDuration("NOTIFICATION_POLL", 30*time.Second),
		SessionSweep:        getEnvDuration("SESSION_SWEEP", 10*time.Minute),
		MaxBodyBytes:        int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		TrustedProxies:      proxies,
		trustedProxiesErr:   proxiesErr,
	}
}

// parsePrefixes reads a comma separated list of CIDRs or single addresses.
func parsePrefixes(raw string) ([]netip.Prefix, error) {
	var out []netip.Prefix
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.Contains(part, "/") {
			prefix, err := netip.ParsePrefix(part)
			if err != nil {
				return nil, fmt.Errorf("TRUSTED_PROXIES: %w", err)
			}
			out = append(out, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(part)
		if err != nil {
			return nil, fmt.Errorf("TRUSTED_PROXIES: %w", err)
		}
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIBaseURL) == "" {
		return fmt.Errorf("HRHUB_API_URL is required")
	}
	switch c.CacheBackend {
	case CacheBackendMemory:
	case CacheBackendRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			return fmt.Errorf("REDIS_ADDR must be set when CACHE_BACKEND is redis")
		}
	default:
		return fmt.Errorf("CACHE_BACKEND must be one of memory, redis")
	}
	switch c.SessionBackend {
	case SessionBackendMemory:
	case SessionBackendFile:
		if strings.TrimSpace(c.SessionDir) == "" {
			return fmt.Errorf("SESSION_DIR must be set when SESSION_BACKEND is file")
		}
	case SessionBackendPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL must be set when SESSION_BACKEND is postgres")
		}
	default:
		return fmt.Errorf("SESSION_BACKEND must be one of memory, file, postgres")
	}
	if c.IsProduction() && c.SessionBackend != SessionBackendMemory && strings.TrimSpace(c.SessionSealKey) == "" {
		return fmt.Errorf("SESSION_SEAL_KEY must be set in production for persisted sessions")
	}
	if c.QueryRetries < 0 {
		return fmt.Errorf("QUERY_RETRIES must not be negative")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.trustedProxiesErr != nil {
		return c.trustedProxiesErr
	}
	if c.SignInRatePerMinute <= 0 {
		return fmt.Errorf("SIGNIN_RATE_PER_MINUTE must be positive")
	}
	return nil
}
