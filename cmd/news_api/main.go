// Package main Habari News API
// Aggregates Kenyan and global news from JSON APIs and RSS feeds into a
// single categorized, deduplicated stream.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/habari-news/habari/internal/aggregator"
	"github.com/habari-news/habari/internal/api/router"
	apiserver "github.com/habari-news/habari/internal/api/server"
	"github.com/habari-news/habari/internal/cache"
	"github.com/habari-news/habari/internal/fetch"
	"github.com/habari-news/habari/internal/metrics"
	"github.com/habari-news/habari/internal/source"
	"github.com/habari-news/habari/internal/storage/factory"
	pkgserver "github.com/habari-news/habari/pkg/server"
)

func main() {
	slog.SetLogLoggerLevel(slog.LevelDebug)

	sCfg, err := apiserver.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	appSettings := NewAppConfig()
	cfg, err := appSettings.Load()
	if err != nil {
		slog.Error("Failed to load app configuration", "error", err)
		os.Exit(1)
		return
	}

	ctx := context.Background()

	store, err := factory.NewStore(ctx, &cfg.StorageConfig)
	if err != nil {
		slog.Error("Failed to create storage", "error", err)
		os.Exit(1)
		return
	}

	registry, err := loadRegistry(cfg)
	if err != nil {
		slog.Error("Failed to load source registry", "error", err)
		os.Exit(1)
		return
	}

	promRegistry := prometheus.NewRegistry()
	collector := metrics.NewCollector(promRegistry)

	fetchers := map[source.Kind]fetch.Fetcher{
		source.KindAPI:  fetch.NewAPIFetcher(nil),
		source.KindFeed: fetch.NewRSSFetcher(nil),
	}

	agg := aggregator.New(
		registry,
		fetchers,
		store,
		cache.New(cfg.CacheTTL),
		aggregator.WithTimeout(cfg.FetchTimeout),
		aggregator.WithRecorder(collector),
	)

	s := apiserver.New(sCfg, pkgserver.NewOkHealthChecker())

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(200, "Habari News API is running")
	})
	s.Echo.GET("/metrics", echo.WrapHandler(metrics.Handler(promRegistry)))

	newsRouter := router.NewNewsRouter(s.Echo, store, agg)
	newsRouter.Bind()

	slog.Info("Starting server", "port", sCfg.Port, "sources", len(registry.All()))

	if err := s.Start(); err != nil && err != http.ErrServerClosed {
		s.Echo.Logger.Error("Failed to start server: ", err)
		os.Exit(1)
	}
}

// loadRegistry builds the source registry from the configured YAML file,
// falling back to the built-in defaults.
func loadRegistry(cfg *NewsAPIConfig) (*source.Registry, error) {
	if cfg.SourcesPath == "" {
		return source.NewRegistry(source.Defaults(cfg.NewsAPIKey)), nil
	}

	f, err := os.Open(cfg.SourcesPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sources, err := source.LoadYAML(f)
	if err != nil {
		return nil, err
	}

	// The API key comes from the environment, never from the YAML file.
	for i := range sources {
		if sources[i].Kind == source.KindAPI && sources[i].APIKey == "" {
			sources[i].APIKey = cfg.NewsAPIKey
		}
	}

	return source.NewRegistry(sources), nil
}
