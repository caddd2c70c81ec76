package config

import (
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		APIBaseURL:          "http://backend.local",
		CacheBackend:        CacheBackendMemory,
		SessionBackend:      SessionBackendMemory,
		QueryRetries:        3,
		MaxBodyBytes:        4096,
		SignInRatePerMinute: 10,
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateRejectsBadBackends(t *testing.T) {
	cfg := validConfig()
	cfg.CacheBackend = "memcached"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown cache backend")
	}

	cfg = validConfig()
	cfg.SessionBackend = SessionBackendPostgres
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for postgres sessions without DATABASE_URL")
	}

	cfg = validConfig()
	cfg.Environment = "production"
	cfg.SessionBackend = SessionBackendFile
	cfg.SessionDir = "/tmp/sessions"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unsealed persisted sessions in production")
	}
}

func TestEnvGetters(t *testing.T) {
	t.Setenv("QUERY_RETRIES", "5")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := Load()
	if cfg.QueryRetries != 5 {
		t.Fatalf("expected 5 retries, got %d", cfg.QueryRetries)
	}
	if cfg.CacheTTL != 90*time.Second {
		t.Fatalf("expected 90s ttl, got %v", cfg.CacheTTL)
	}
	if cfg.RedisDB != 0 {
		t.Fatalf("expected fallback redis db 0, got %d", cfg.RedisDB)
	}
}

func TestTrustedProxies(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.168.1.4")
	cfg := Load()
	if len(cfg.TrustedProxies) != 2 || cfg.TrustedProxies[1].Bits() != 32 {
		t.Fatalf("unexpected proxies: %v", cfg.TrustedProxies)
	}

	t.Setenv("TRUSTED_PROXIES", "not-an-ip")
	cfg = Load()
	cfg.APIBaseURL = "http://backend.local"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for malformed TRUSTED_PROXIES")
	}
}
