package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/habari-news/habari/internal/storage/factory"
	"github.com/habari-news/habari/pkg/config/env"
)

type AppConfig struct {
	ENV string
}

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("ENV"),
	}
}

type NewsAPIConfig struct {
	StorageConfig factory.Config

	// NewsAPIKey authenticates against the JSON news API sources.
	NewsAPIKey string
	// SourcesPath points at a YAML source registry. Empty selects the
	// built-in defaults.
	SourcesPath  string
	FetchTimeout time.Duration
	CacheTTL     time.Duration
}

func (as *AppConfig) Load() (*NewsAPIConfig, error) {

	err := env.LoadDotEnv(as.ENV, "cmd/news_api/.env")
	if err != nil {
		slog.Info("Failed to .env load environment variables, continuing with existing environment variables", "error", err)
	}

	storageCfg, err := factory.LoadEnv()
	if err != nil {
		slog.Error("Failed to load storage configuration from environment", "error", err)
		return nil, err
	}

	fetchTimeout, err := durationEnv("FETCH_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := durationEnv("CACHE_TTL", 15*time.Minute)
	if err != nil {
		return nil, err
	}

	return &NewsAPIConfig{
		StorageConfig: *storageCfg,
		NewsAPIKey:    os.Getenv("NEWS_API_KEY"),
		SourcesPath:   os.Getenv("SOURCES_PATH"),
		FetchTimeout:  fetchTimeout,
		CacheTTL:      cacheTTL,
	}, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return d, nil
}
