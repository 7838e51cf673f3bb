package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

var allKeys = []string{
	"APP_ENV", "APP_HTTP_ADDR", "METRICS_ADDR", "STORE_TYPE", "DB_DSN",
	"REDIS_URL", "ADMIN_API_KEY", "RATE_LIMIT_PER_IP", "LOG_LEVEL", "LOG_FORMAT",
	"AUDIT_SINK", "AUDIT_REDIS_MAX",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allKeys {
		if old, ok := os.LookupEnv(key); ok {
			os.Unsetenv(key)
			t.Cleanup(func() { os.Setenv(key, old) })
		}
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	clearEnv(t)

	cfg, err := load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.AppEnv != "dev" {
		t.Errorf("Expected AppEnv='dev', got '%s'", cfg.AppEnv)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("Expected HTTPAddr=':8080', got '%s'", cfg.HTTPAddr)
	}
	if cfg.MetricsAddr != ":9090" {
		t.Errorf("Expected MetricsAddr=':9090', got '%s'", cfg.MetricsAddr)
	}
	if cfg.StoreType != StoreMemory {
		t.Errorf("Expected StoreType='memory', got '%s'", cfg.StoreType)
	}
	if cfg.AdminAPIKey != "admin-123" {
		t.Errorf("Expected AdminAPIKey='admin-123', got '%s'", cfg.AdminAPIKey)
	}
	if cfg.RateLimitPerIP != 600 {
		t.Errorf("Expected RateLimitPerIP=600, got %d", cfg.RateLimitPerIP)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "json" {
		t.Errorf("Expected info/json logging, got %s/%s", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.AuditSink != AuditLog || cfg.AuditRedisMax != 10000 {
		t.Errorf("Expected log audit sink keeping 10000 events, got %s/%d", cfg.AuditSink, cfg.AuditRedisMax)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "test")
	t.Setenv("APP_HTTP_ADDR", ":9999")
	t.Setenv("STORE_TYPE", "redis")
	t.Setenv("REDIS_URL", "redis://cache:6379/1")
	t.Setenv("RATE_LIMIT_PER_IP", "42")
	t.Setenv("LOG_FORMAT", "console")

	cfg, err := load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.AppEnv != "test" {
		t.Errorf("Expected AppEnv='test', got '%s'", cfg.AppEnv)
	}
	if cfg.HTTPAddr != ":9999" {
		t.Errorf("Expected HTTPAddr=':9999', got '%s'", cfg.HTTPAddr)
	}
	if cfg.StoreType != StoreRedis {
		t.Errorf("Expected StoreType='redis', got '%s'", cfg.StoreType)
	}
	if cfg.RedisURL != "redis://cache:6379/1" {
		t.Errorf("Expected RedisURL override, got '%s'", cfg.RedisURL)
	}
	if cfg.RateLimitPerIP != 42 {
		t.Errorf("Expected RateLimitPerIP=42, got %d", cfg.RateLimitPerIP)
	}
	if cfg.LogFormat != "console" {
		t.Errorf("Expected LogFormat='console', got '%s'", cfg.LogFormat)
	}
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("STORE_TYPE=postgres\nDB_DSN=postgres://u:p@db/x\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	cfg, err := load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.StoreType != StorePostgres {
		t.Errorf("Expected StoreType='postgres', got '%s'", cfg.StoreType)
	}
	if cfg.DatabaseDSN != "postgres://u:p@db/x" {
		t.Errorf("Expected DSN from file, got '%s'", cfg.DatabaseDSN)
	}
}

func validConfig() Config {
	return Config{
		AppEnv:         "dev",
		HTTPAddr:       ":8080",
		MetricsAddr:    ":9090",
		StoreType:      StoreMemory,
		AdminAPIKey:    "secret",
		RateLimitPerIP: 10,
		AuditSink:      AuditLog,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantField string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "unknown store", mutate: func(c *Config) { c.StoreType = "sqlite" }, wantField: "STORE_TYPE"},
		{name: "postgres without dsn", mutate: func(c *Config) { c.StoreType = StorePostgres }, wantField: "DB_DSN"},
		{name: "redis without url", mutate: func(c *Config) { c.StoreType = StoreRedis }, wantField: "REDIS_URL"},
		{name: "redis with url", mutate: func(c *Config) { c.StoreType = StoreRedis; c.RedisURL = "redis://x:6379" }},
		{name: "empty http addr", mutate: func(c *Config) { c.HTTPAddr = "" }, wantField: "APP_HTTP_ADDR"},
		{name: "empty metrics addr", mutate: func(c *Config) { c.MetricsAddr = "" }, wantField: "METRICS_ADDR"},
		{name: "zero rate limit", mutate: func(c *Config) { c.RateLimitPerIP = 0 }, wantField: "RATE_LIMIT_PER_IP"},
		{name: "empty admin key", mutate: func(c *Config) { c.AdminAPIKey = "" }, wantField: "ADMIN_API_KEY"},
		{name: "default key in dev", mutate: func(c *Config) { c.AdminAPIKey = "admin-123" }},
		{name: "audit disabled", mutate: func(c *Config) { c.AuditSink = AuditNone }},
		{name: "unknown audit sink", mutate: func(c *Config) { c.AuditSink = "kafka" }, wantField: "AUDIT_SINK"},
		{name: "redis audit without url", mutate: func(c *Config) { c.AuditSink = AuditRedis }, wantField: "REDIS_URL"},
		{name: "redis audit with url", mutate: func(c *Config) { c.AuditSink = AuditRedis; c.RedisURL = "redis://x:6379" }},
		{name: "default key in prod", mutate: func(c *Config) { c.AppEnv = "production"; c.AdminAPIKey = "admin-123" }, wantField: "ADMIN_API_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()

			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			var ve ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Validate() = %v, want ValidationError", err)
			}
			if ve.Field != tt.wantField {
				t.Fatalf("Field = %s, want %s", ve.Field, tt.wantField)
			}
		})
	}
}
