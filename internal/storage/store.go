// Package storage defines the persistence surface the aggregation core
// depends on, plus the shared backend selection types.
package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/habari-news/habari/internal/domain"
)

// ErrNotFound is returned when a lookup misses.
var ErrNotFound = errors.New("article not found")

// Store is the abstract article persistence the aggregator and the API use.
// Implementations must be safe for concurrent use.
type Store interface {
	// CreateArticle persists an article, assigning its ID and creation time.
	// Re-creating an article that already exists (same URL) is tolerated:
	// implementations may return the stored article or an error, and callers
	// are expected to treat the error as non-fatal.
	CreateArticle(ctx context.Context, article domain.Article) (domain.Article, error)

	// GetArticles lists articles sorted by publication date, newest first,
	// optionally filtered by category.
	GetArticles(ctx context.Context, category string, limit, offset int) ([]domain.Article, error)

	// CountArticles returns how many articles match the category filter.
	CountArticles(ctx context.Context, category string) (int64, error)

	// GetArticleByID returns ErrNotFound when the id is unknown.
	GetArticleByID(ctx context.Context, id uuid.UUID) (domain.Article, error)

	// UpdateArticle replaces the stored fields of an existing article.
	UpdateArticle(ctx context.Context, id uuid.UUID, article domain.Article) (domain.Article, error)

	// DeleteArticle removes an article; ErrNotFound when the id is unknown.
	DeleteArticle(ctx context.Context, id uuid.UUID) error

	// GetBreakingNews returns breaking-flagged articles, newest first.
	GetBreakingNews(ctx context.Context, limit int) ([]domain.Article, error)

	// GetTrendingArticles returns a recency-ordered stand-in for trending
	// while no independent popularity signal exists.
	GetTrendingArticles(ctx context.Context, limit int) ([]domain.Article, error)

	// SearchArticles matches the query case-insensitively against title,
	// description and content, optionally restricted to one category.
	SearchArticles(ctx context.Context, query, category string) ([]domain.Article, error)
}

// Type selects a store backend.
type Type string

const (
	ES    Type = "es"
	PG    Type = "pg"
	InMem Type = "in_mem"
)
