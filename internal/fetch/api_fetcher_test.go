package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habari-news/habari/internal/domain"
	"github.com/habari-news/habari/internal/source"
)

func apiSource(endpoint string) source.Descriptor {
	return source.Descriptor{
		Name:     "Test API",
		Kind:     source.KindAPI,
		Endpoint: endpoint,
		APIKey:   "test-key",
		Country:  "us",
	}
}

func TestAPIFetcher_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "ok",
			"articles": [
				{"title": "Election results due", "url": "https://example.com/1", "publishedAt": "2026-02-10T08:30:00Z"},
				{"title": "[Removed]", "url": "https://example.com/2"},
				{"title": "", "url": "https://example.com/3"},
				{"title": "Tech layoffs continue", "url": "https://example.com/4"}
			]
		}`))
	}))
	defer srv.Close()

	fetcher := NewAPIFetcher(srv.Client())
	articles, err := fetcher.Fetch(context.Background(), apiSource(srv.URL), "")

	require.NoError(t, err)
	require.Len(t, articles, 2)
	assert.Equal(t, "Election results due", articles[0].Title)
	assert.Equal(t, "Tech layoffs continue", articles[1].Title)
}

func TestAPIFetcher_ErrorPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "error", "message": "apiKey invalid"}`))
	}))
	defer srv.Close()

	fetcher := NewAPIFetcher(srv.Client())
	_, err := fetcher.Fetch(context.Background(), apiSource(srv.URL), "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "apiKey invalid")
}

func TestAPIFetcher_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	fetcher := NewAPIFetcher(srv.Client())
	_, err := fetcher.Fetch(context.Background(), apiSource(srv.URL), "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestAPIFetcher_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := NewAPIFetcher(srv.Client())
	_, err := fetcher.Fetch(ctx, apiSource(srv.URL), "")
	require.Error(t, err)
}

func TestBuildRequestURL_KenyaBecomesQuery(t *testing.T) {
	endpoint, err := buildRequestURL(apiSource("https://newsapi.org/v2/top-headlines"), "kenya")
	require.NoError(t, err)

	u, err := url.Parse(endpoint)
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "Kenya", q.Get("q"))
	assert.Equal(t, "publishedAt", q.Get("sortBy"))
	assert.Empty(t, q.Get("category"))
	assert.Empty(t, q.Get("country"))
	assert.Equal(t, "50", q.Get("pageSize"))
	assert.Equal(t, "test-key", q.Get("apiKey"))
}

func TestBuildRequestURL_BreakingMapsToGeneral(t *testing.T) {
	endpoint, err := buildRequestURL(apiSource("https://newsapi.org/v2/top-headlines"), "breaking")
	require.NoError(t, err)

	q := mustQuery(t, endpoint)
	assert.Equal(t, "general", q.Get("category"))
	assert.Equal(t, "publishedAt", q.Get("sortBy"))
}

func TestBuildRequestURL_PassthroughCategory(t *testing.T) {
	endpoint, err := buildRequestURL(apiSource("https://newsapi.org/v2/top-headlines"), "sports")
	require.NoError(t, err)

	q := mustQuery(t, endpoint)
	assert.Equal(t, "sports", q.Get("category"))
	assert.Empty(t, q.Get("sortBy"))
	assert.Empty(t, q.Get("country"))
}

func TestBuildRequestURL_NoCategoryUsesCountry(t *testing.T) {
	for _, category := range []string{"", domain.CategoryAll} {
		endpoint, err := buildRequestURL(apiSource("https://newsapi.org/v2/top-headlines"), category)
		require.NoError(t, err)

		q := mustQuery(t, endpoint)
		assert.Equal(t, "us", q.Get("country"))
		assert.Empty(t, q.Get("category"))
	}
}

func mustQuery(t *testing.T, endpoint string) url.Values {
	t.Helper()
	u, err := url.Parse(endpoint)
	require.NoError(t, err)
	return u.Query()
}
