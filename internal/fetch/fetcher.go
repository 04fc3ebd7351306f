// Package fetch implements the source adapters that retrieve raw articles
// from external news origins.
package fetch

import (
	"context"

	"github.com/habari-news/habari/internal/domain"
	"github.com/habari-news/habari/internal/source"
)

// Fetcher retrieves and normalizes articles from one source. The context
// bounds the whole request; callers isolate errors per source.
type Fetcher interface {
	Fetch(ctx context.Context, src source.Descriptor, category string) ([]domain.Article, error)
}
