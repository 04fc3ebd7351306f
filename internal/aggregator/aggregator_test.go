package aggregator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habari-news/habari/internal/cache"
	"github.com/habari-news/habari/internal/domain"
	"github.com/habari-news/habari/internal/fetch"
	"github.com/habari-news/habari/internal/source"
	"github.com/habari-news/habari/internal/storage/in_mem"
)

// stubFetcher serves canned articles per source and counts calls.
type stubFetcher struct {
	mu       sync.Mutex
	calls    int
	articles map[string][]domain.Article
	failing  map[string]bool
}

func newStubFetcher() *stubFetcher {
	return &stubFetcher{
		articles: make(map[string][]domain.Article),
		failing:  make(map[string]bool),
	}
}

func (f *stubFetcher) Fetch(ctx context.Context, src source.Descriptor, category string) ([]domain.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	if f.failing[src.Name] {
		return nil, errors.New("source unavailable")
	}
	return f.articles[src.Name], nil
}

func (f *stubFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func descriptors(names ...string) []source.Descriptor {
	sources := make([]source.Descriptor, 0, len(names))
	for _, name := range names {
		sources = append(sources, source.Descriptor{
			Name:     name,
			Kind:     source.KindAPI,
			Endpoint: "https://example.com/" + name,
		})
	}
	return sources
}

func article(title string, publishedAt time.Time) domain.Article {
	return domain.Article{
		Title:       title,
		URL:         "https://example.com/" + title,
		PublishedAt: publishedAt,
		Category:    domain.CategoryWorld,
	}
}

func newAggregator(fetcher *stubFetcher, sources []source.Descriptor, ttl time.Duration) (*Aggregator, *in_mem.InMemStore) {
	store := in_mem.NewInMemStore()
	agg := New(
		source.NewRegistry(sources),
		map[source.Kind]fetch.Fetcher{source.KindAPI: fetcher},
		store,
		cache.New(ttl),
	)
	return agg, store
}

func TestNews_FreshCacheSkipsFanOut(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.articles["a"] = []domain.Article{article("one", time.Now())}

	agg, _ := newAggregator(fetcher, descriptors("a"), 15*time.Minute)

	first, err := agg.News(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, first, 1)
	callsAfterFirst := fetcher.callCount()

	second, err := agg.News(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, callsAfterFirst, fetcher.callCount(), "fresh cache must not trigger fetches")
}

func TestRefresh_PartialFailureStillProducesBatch(t *testing.T) {
	now := time.Now()
	fetcher := newStubFetcher()
	fetcher.articles["a"] = []domain.Article{article("from-a", now)}
	fetcher.articles["b"] = []domain.Article{article("from-b", now.Add(time.Minute))}
	fetcher.articles["c"] = []domain.Article{article("from-c", now.Add(2 * time.Minute))}
	fetcher.failing["d"] = true
	fetcher.failing["e"] = true

	agg, store := newAggregator(fetcher, descriptors("a", "b", "c", "d", "e"), 15*time.Minute)

	batch, err := agg.Refresh(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, batch, 3)

	// Newest first.
	assert.Equal(t, "from-c", batch[0].Title)
	assert.Equal(t, "from-a", batch[2].Title)

	count, err := store.CountArticles(context.Background(), "")
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}

func TestRefresh_DeduplicatesAcrossSources(t *testing.T) {
	now := time.Now()
	fetcher := newStubFetcher()
	fetcher.articles["a"] = []domain.Article{article("Fire in Nairobi!", now)}
	b := article("fire in nairobi", now.Add(time.Minute))
	b.URL = "https://example.com/other"
	fetcher.articles["b"] = []domain.Article{b}

	agg, _ := newAggregator(fetcher, descriptors("a", "b"), 15*time.Minute)

	batch, err := agg.Refresh(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, batch, 1)
}

func TestNews_TotalFailureFallsBackToStaleCache(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.articles["a"] = []domain.Article{article("cached story", time.Now())}

	// A one-nanosecond TTL makes every entry immediately stale while
	// keeping it available for fallback.
	agg, _ := newAggregator(fetcher, descriptors("a"), time.Nanosecond)

	_, err := agg.Refresh(context.Background(), "")
	require.NoError(t, err)

	fetcher.failing["a"] = true

	batch, err := agg.News(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, "cached story", batch[0].Title)
}

func TestRefresh_TotalFailureFallsBackToStaleCache(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.articles["a"] = []domain.Article{article("cached story", time.Now())}

	agg, _ := newAggregator(fetcher, descriptors("a"), time.Nanosecond)

	_, err := agg.Refresh(context.Background(), "")
	require.NoError(t, err)

	fetcher.failing["a"] = true

	// A forced refresh degrades to the previous batch too, stale or not.
	batch, err := agg.Refresh(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, "cached story", batch[0].Title)
}

func TestRefresh_TotalFailureColdCacheErrors(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.failing["a"] = true

	agg, _ := newAggregator(fetcher, descriptors("a"), 15*time.Minute)

	_, err := agg.Refresh(context.Background(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAllSourcesFailed)
}

func TestNews_TotalFailureColdCacheErrors(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.failing["a"] = true
	fetcher.failing["b"] = true

	agg, _ := newAggregator(fetcher, descriptors("a", "b"), 15*time.Minute)

	_, err := agg.News(context.Background(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAllSourcesFailed)
}

func TestRefresh_NoSourcesYieldsEmptyBatch(t *testing.T) {
	agg, _ := newAggregator(newStubFetcher(), nil, 15*time.Minute)

	batch, err := agg.Refresh(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, batch)
}

func TestBreakingNews_FiltersAndCaps(t *testing.T) {
	now := time.Now()
	fetcher := newStubFetcher()

	var mixed []domain.Article
	for i := 0; i < 8; i++ {
		a := article("breaking story "+string(rune('a'+i)), now.Add(time.Duration(i)*time.Minute))
		a.IsBreaking = true
		mixed = append(mixed, a)
	}
	mixed = append(mixed, article("calm story", now))
	fetcher.articles["a"] = mixed

	agg, _ := newAggregator(fetcher, descriptors("a"), 15*time.Minute)

	breaking, err := agg.BreakingNews(context.Background())
	require.NoError(t, err)
	require.Len(t, breaking, 5)
	for _, a := range breaking {
		assert.True(t, a.IsBreaking)
	}
}

func TestTrendingNews_PrefersStoredArticles(t *testing.T) {
	fetcher := newStubFetcher()
	agg, store := newAggregator(fetcher, descriptors("a"), 15*time.Minute)

	base := time.Now()
	for i := 0; i < 7; i++ {
		_, err := store.CreateArticle(context.Background(),
			article("stored "+string(rune('a'+i)), base.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
	}

	trending, err := agg.TrendingNews(context.Background())
	require.NoError(t, err)
	require.Len(t, trending, 5)
	assert.Equal(t, "stored g", trending[0].Title)
	assert.Zero(t, fetcher.callCount(), "trending must not fan out when the store has articles")
}

func TestTrendingNews_FallsBackToAggregation(t *testing.T) {
	now := time.Now()
	fetcher := newStubFetcher()
	var batch []domain.Article
	for i := 0; i < 7; i++ {
		batch = append(batch, article("live "+string(rune('a'+i)), now.Add(time.Duration(i)*time.Minute)))
	}
	fetcher.articles["a"] = batch

	agg, _ := newAggregator(fetcher, descriptors("a"), 15*time.Minute)

	trending, err := agg.TrendingNews(context.Background())
	require.NoError(t, err)
	assert.Len(t, trending, 5)
}
