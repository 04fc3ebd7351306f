// Package factory constructs the configured storage backend.
package factory

import (
	"context"
	"fmt"

	"github.com/habari-news/habari/internal/storage"
	"github.com/habari-news/habari/internal/storage/es"
	"github.com/habari-news/habari/internal/storage/in_mem"
	"github.com/habari-news/habari/internal/storage/pg"
)

// NewStore creates a storage.Store for the backend named in cfg.
func NewStore(ctx context.Context, cfg *Config) (storage.Store, error) {
	switch cfg.Type {
	case storage.PG:
		pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
		}

		store := pg.NewStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return store, nil

	case storage.ES:
		return es.NewStore(ctx, *cfg.Es)

	case storage.InMem:
		return in_mem.NewInMemStore(), nil

	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
