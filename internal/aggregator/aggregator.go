// Package aggregator fans out to the registered sources, normalizes and
// deduplicates what they return, and keeps the store and cache updated.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/habari-news/habari/internal/cache"
	"github.com/habari-news/habari/internal/domain"
	"github.com/habari-news/habari/internal/fetch"
	"github.com/habari-news/habari/internal/metrics"
	"github.com/habari-news/habari/internal/normalize"
	"github.com/habari-news/habari/internal/source"
	"github.com/habari-news/habari/internal/storage"
)

const (
	// DefaultFetchTimeout bounds a single source fetch.
	DefaultFetchTimeout = 10 * time.Second

	// breakingWindow is how long a cached batch may serve the breaking
	// view. Much tighter than the regular TTL.
	breakingWindow = 2 * time.Minute

	breakingLimit = 5
	trendingLimit = 5
)

// ErrAllSourcesFailed is returned when every relevant source failed and no
// cached batch exists to fall back on.
var ErrAllSourcesFailed = errors.New("all sources failed")

type Aggregator struct {
	registry *source.Registry
	fetchers map[source.Kind]fetch.Fetcher
	store    storage.Store
	cache    *cache.BatchCache

	timeout  time.Duration
	recorder metrics.Recorder
}

type Option func(*Aggregator)

// WithTimeout overrides the per-source fetch timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(a *Aggregator) {
		if timeout > 0 {
			a.timeout = timeout
		}
	}
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(recorder metrics.Recorder) Option {
	return func(a *Aggregator) {
		if recorder != nil {
			a.recorder = recorder
		}
	}
}

func New(
	registry *source.Registry,
	fetchers map[source.Kind]fetch.Fetcher,
	store storage.Store,
	batchCache *cache.BatchCache,
	opts ...Option,
) *Aggregator {
	a := &Aggregator{
		registry: registry,
		fetchers: fetchers,
		store:    store,
		cache:    batchCache,
		timeout:  DefaultFetchTimeout,
		recorder: metrics.Nop{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// News returns the aggregated batch for a category. A fresh cached batch is
// served as-is; otherwise the sources are fetched live. When every source
// fails, a stale cached batch is served instead and only a cold cache is an
// error.
func (a *Aggregator) News(ctx context.Context, category string) ([]domain.Article, error) {
	key := cache.Key(category)

	if articles, ok := a.cache.GetFresh(key); ok {
		a.recorder.RecordCacheHit(key)
		return articles, nil
	}
	a.recorder.RecordCacheMiss(key)

	return a.Refresh(ctx, category)
}

// Refresh fetches all relevant sources regardless of cache state, persists
// the resulting batch and replaces the cache entry for the category. When
// every source fails, a previously cached batch is served no matter how
// stale it is; only a cold cache is an error.
func (a *Aggregator) Refresh(ctx context.Context, category string) ([]domain.Article, error) {
	key := cache.Key(category)
	sources := a.registry.Relevant(category)

	articles, failed := a.fetchAll(ctx, sources, category)
	if len(sources) > 0 && failed == len(sources) {
		if entry, ok := a.cache.Get(key); ok {
			slog.Warn("Serving stale batch, every source failed",
				"category", key, "age", entry.Age(), "sources", failed)
			return entry.Articles, nil
		}
		return nil, fmt.Errorf("%w: %d sources for category %q", ErrAllSourcesFailed, failed, key)
	}

	batch := normalize.Dedup(articles)
	sort.SliceStable(batch, func(i, j int) bool {
		return batch[i].PublishedAt.After(batch[j].PublishedAt)
	})

	a.persist(ctx, batch)
	a.cache.Put(key, batch)

	slog.Info("Aggregation finished",
		"category", key,
		"sources", len(sources),
		"failed", failed,
		"articles", len(batch))

	return batch, nil
}

// BreakingNews serves recent breaking articles, at most five, from a batch
// no older than the breaking window.
func (a *Aggregator) BreakingNews(ctx context.Context) ([]domain.Article, error) {
	key := cache.Key(string(domain.CategoryBreaking))

	var batch []domain.Article
	if entry, ok := a.cache.Get(key); ok && entry.Age() < breakingWindow {
		batch = entry.Articles
	} else {
		fetched, err := a.Refresh(ctx, string(domain.CategoryBreaking))
		if err != nil {
			return nil, err
		}
		batch = fetched
	}

	breaking := make([]domain.Article, 0, breakingLimit)
	for _, article := range batch {
		if !article.IsBreaking {
			continue
		}
		breaking = append(breaking, article)
		if len(breaking) == breakingLimit {
			break
		}
	}

	return breaking, nil
}

// TrendingNews returns the most recent stored articles as a popularity
// proxy, falling back to a full aggregation when the store is empty.
func (a *Aggregator) TrendingNews(ctx context.Context) ([]domain.Article, error) {
	trending, err := a.store.GetTrendingArticles(ctx, trendingLimit)
	if err == nil && len(trending) > 0 {
		return trending, nil
	}
	if err != nil {
		slog.Warn("Trending lookup failed, falling back to aggregation", "error", err)
	}

	batch, err := a.News(ctx, "")
	if err != nil {
		return nil, err
	}
	if len(batch) > trendingLimit {
		batch = batch[:trendingLimit]
	}
	return batch, nil
}

// fetchAll fans out to every source concurrently and settles all of them.
// One slow or broken source never fails the batch, it only counts as failed.
func (a *Aggregator) fetchAll(ctx context.Context, sources []source.Descriptor, category string) ([]domain.Article, int) {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		combined []domain.Article
		failed   int
	)

	for _, src := range sources {
		wg.Add(1)
		go func(src source.Descriptor) {
			defer wg.Done()

			fetchCtx, cancel := context.WithTimeout(ctx, a.timeout)
			defer cancel()

			fetcher, ok := a.fetchers[src.Kind]
			if !ok {
				slog.Error("No fetcher registered for source kind", "source", src.Name, "kind", src.Kind)
				mu.Lock()
				failed++
				mu.Unlock()
				a.recorder.RecordFetchFailure(src.Name)
				return
			}

			start := time.Now()
			articles, err := fetcher.Fetch(fetchCtx, src, category)
			a.recorder.RecordFetchLatency(src.Name, time.Since(start))

			if err != nil {
				slog.Warn("Source fetch failed", "source", src.Name, "error", err)
				mu.Lock()
				failed++
				mu.Unlock()
				a.recorder.RecordFetchFailure(src.Name)
				return
			}

			a.recorder.RecordFetchSuccess(src.Name)
			mu.Lock()
			combined = append(combined, articles...)
			mu.Unlock()
		}(src)
	}

	wg.Wait()
	return combined, failed
}

// persist writes the batch through to the store. Store failures are logged
// and swallowed, serving the batch matters more than persisting it.
func (a *Aggregator) persist(ctx context.Context, batch []domain.Article) {
	stored := 0
	for _, article := range batch {
		if _, err := a.store.CreateArticle(ctx, article); err != nil {
			slog.Warn("Failed to persist article", "title", article.Title, "error", err)
			continue
		}
		stored++
	}
	a.recorder.RecordArticlesStored(stored)
}
