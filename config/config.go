package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type (
	Config struct {
		Server    ServerConfig
		Storage   StorageConfig
		Providers ProvidersConfig
		LogLevel  string
	}

	ServerConfig struct {
		Port string
	}

	StorageConfig struct {
		// Type is one of filesystem, memory, sqlite or s3.
		Type           string
		LocalPath      string
		DataSourceName string
		S3Bucket       string
	}

	ProvidersConfig struct {
		Default       string
		OpenAIAPIKey  string
		OpenAIBaseURL string
		GeminiAPIKey  string
		GeminiModel   string
		Timeout       time.Duration
	}
)

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3001"),
		},
		Storage: StorageConfig{
			Type:           strings.ToLower(getEnv("STORAGE_TYPE", "filesystem")),
			LocalPath:      getEnv("LOCAL_STORAGE_PATH", "./designs"),
			DataSourceName: getEnv("DATA_SOURCE_NAME", "uispin.db"),
			S3Bucket:       os.Getenv("S3_BUCKET_NAME"),
		},
		Providers: ProvidersConfig{
			Default:       strings.ToLower(getEnv("DEFAULT_PROVIDER", "openai")),
			OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
			OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
			GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
			GeminiModel:   getEnv("GEMINI_MODEL", "gemini-3-pro-image-preview"),
			Timeout:       getEnvAsDuration("PROVIDER_TIMEOUT", 5*time.Minute),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.Storage.Type {
	case "filesystem", "memory", "sqlite":
	case "s3":
		if c.Storage.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET_NAME must be set for s3 storage type")
		}
	default:
		return fmt.Errorf("unknown STORAGE_TYPE %q", c.Storage.Type)
	}

	switch c.Providers.Default {
	case "openai", "gemini":
	default:
		return fmt.Errorf("unknown DEFAULT_PROVIDER %q", c.Providers.Default)
	}

	if c.Providers.Timeout <= 0 {
		return fmt.Errorf("PROVIDER_TIMEOUT must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := strings.TrimSpace(os.Getenv(key))
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		logrus.WithField("key", key).Warnf("Invalid duration %q, using default %s", valueStr, defaultValue)
		return defaultValue
	}
	return value
}
