package config

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"PORT", "STORAGE_TYPE", "LOCAL_STORAGE_PATH", "DATA_SOURCE_NAME", "S3_BUCKET_NAME",
		"DEFAULT_PROVIDER", "OPENAI_API_KEY", "OPENAI_BASE_URL", "GEMINI_API_KEY",
		"GEMINI_MODEL", "PROVIDER_TIMEOUT", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != "3001" {
		t.Errorf("Port mismatch: got %q, want %q", cfg.Server.Port, "3001")
	}
	if cfg.Storage.Type != "filesystem" {
		t.Errorf("Storage type mismatch: got %q, want %q", cfg.Storage.Type, "filesystem")
	}
	if cfg.Storage.LocalPath != "./designs" {
		t.Errorf("Local path mismatch: got %q", cfg.Storage.LocalPath)
	}
	if cfg.Providers.Default != "openai" {
		t.Errorf("Default provider mismatch: got %q, want %q", cfg.Providers.Default, "openai")
	}
	if cfg.Providers.Timeout != 5*time.Minute {
		t.Errorf("Timeout mismatch: got %s", cfg.Providers.Timeout)
	}
	if cfg.Providers.GeminiModel != "gemini-3-pro-image-preview" {
		t.Errorf("Gemini model mismatch: got %q", cfg.Providers.GeminiModel)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "8080")
	t.Setenv("STORAGE_TYPE", "SQLite")
	t.Setenv("DEFAULT_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("PROVIDER_TIMEOUT", "30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Port mismatch: got %q", cfg.Server.Port)
	}
	if cfg.Storage.Type != "sqlite" {
		t.Errorf("Storage type should be lower-cased: got %q", cfg.Storage.Type)
	}
	if cfg.Providers.Default != "gemini" || cfg.Providers.GeminiAPIKey != "g-key" {
		t.Errorf("Provider config mismatch: %+v", cfg.Providers)
	}
	if cfg.Providers.Timeout != 30*time.Second {
		t.Errorf("Timeout mismatch: got %s", cfg.Providers.Timeout)
	}
}

func TestLoad_InvalidDurationFallsBack(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("PROVIDER_TIMEOUT", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Providers.Timeout != 5*time.Minute {
		t.Errorf("Timeout should fall back to default, got %s", cfg.Providers.Timeout)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:    ServerConfig{Port: "3001"},
			Storage:   StorageConfig{Type: "filesystem"},
			Providers: ProvidersConfig{Default: "openai", Timeout: time.Minute},
		}
	}

	testCases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"empty port", func(c *Config) { c.Server.Port = "" }, true},
		{"unknown storage", func(c *Config) { c.Storage.Type = "redis" }, true},
		{"s3 without bucket", func(c *Config) { c.Storage.Type = "s3" }, true},
		{"s3 with bucket", func(c *Config) { c.Storage.Type = "s3"; c.Storage.S3Bucket = "b" }, false},
		{"unknown provider", func(c *Config) { c.Providers.Default = "midjourney" }, true},
		{"zero timeout", func(c *Config) { c.Providers.Timeout = 0 }, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
