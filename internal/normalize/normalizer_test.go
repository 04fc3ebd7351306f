package normalize

import (
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habari-news/habari/internal/domain"
	"github.com/habari-news/habari/internal/source"
)

var testSource = source.Descriptor{
	Name:     "Test Wire",
	Kind:     source.KindAPI,
	Endpoint: "https://example.com/v2/top-headlines",
	Country:  "ke",
}

func TestFromAPI_DropsRemovedAndEmptyTitles(t *testing.T) {
	now := time.Now()

	_, ok := FromAPI(APIRecord{Title: "[Removed]"}, testSource, "", now)
	assert.False(t, ok)

	_, ok = FromAPI(APIRecord{Title: ""}, testSource, "", now)
	assert.False(t, ok)
}

func TestFromAPI_Fallbacks(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	rec := APIRecord{
		Title:       "Quiet day on the markets",
		Description: "A slow trading session.",
	}

	article, ok := FromAPI(rec, testSource, "", now)
	require.True(t, ok)

	assert.Equal(t, "A slow trading session.", article.Content)
	assert.Equal(t, domain.UnknownAuthor, article.Author)
	assert.Equal(t, "Test Wire", article.Source)
	assert.Equal(t, now, article.PublishedAt)
	assert.Equal(t, "ke", article.Country)
	assert.Equal(t, domain.ArticleDefaultLanguage, article.Language)
	assert.Equal(t, 1, article.ReadTime)
	assert.False(t, article.IsBreaking)
}

func TestFromAPI_ParsesPublishedAt(t *testing.T) {
	now := time.Now()
	rec := APIRecord{
		Title:       "Breaking: Flood alert issued",
		PublishedAt: "2026-02-10T08:30:00Z",
		Author:      "Jane Writer",
	}

	article, ok := FromAPI(rec, testSource, "", now)
	require.True(t, ok)

	assert.Equal(t, time.Date(2026, 2, 10, 8, 30, 0, 0, time.UTC), article.PublishedAt)
	assert.Equal(t, "Jane Writer", article.Author)
	assert.True(t, article.IsBreaking)
}

func TestFromAPI_RequestedCategoryWins(t *testing.T) {
	rec := APIRecord{Title: "Football final tonight"}

	article, ok := FromAPI(rec, testSource, "health", time.Now())
	require.True(t, ok)
	assert.Equal(t, domain.CategoryHealth, article.Category)
}

func TestFromAPI_SourceAffinityBeatsKeywords(t *testing.T) {
	src := testSource
	src.Category = domain.CategoryTechnology

	article, ok := FromAPI(APIRecord{Title: "Football final tonight"}, src, "", time.Now())
	require.True(t, ok)
	assert.Equal(t, domain.CategoryTechnology, article.Category)
}

func TestFromFeed_DropsMissingTitle(t *testing.T) {
	_, ok := FromFeed(&gofeed.Item{Title: ""}, testSource, "", time.Now())
	assert.False(t, ok)

	_, ok = FromFeed(nil, testSource, "", time.Now())
	assert.False(t, ok)
}

func TestFromFeed_GUIDLinkFallback(t *testing.T) {
	item := &gofeed.Item{
		Title: "Feed story",
		GUID:  "https://example.com/story/1",
	}

	article, ok := FromFeed(item, testSource, "", time.Now())
	require.True(t, ok)
	assert.Equal(t, "https://example.com/story/1", article.URL)
}

func TestFromFeed_NonURLGUIDIgnored(t *testing.T) {
	item := &gofeed.Item{
		Title: "Feed story",
		GUID:  "urn:uuid:1234",
	}

	article, ok := FromFeed(item, testSource, "", time.Now())
	require.True(t, ok)
	assert.Empty(t, article.URL)
}

func TestFromFeed_PublishedFallsBackToUpdated(t *testing.T) {
	updated := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	item := &gofeed.Item{
		Title:         "Feed story",
		UpdatedParsed: &updated,
	}

	article, ok := FromFeed(item, testSource, "", time.Now())
	require.True(t, ok)
	assert.Equal(t, updated, article.PublishedAt)
}

func TestFromFeed_EnclosureImage(t *testing.T) {
	item := &gofeed.Item{
		Title: "Feed story",
		Enclosures: []*gofeed.Enclosure{
			{URL: "https://example.com/image.jpg", Type: "image/jpeg"},
		},
	}

	article, ok := FromFeed(item, testSource, "", time.Now())
	require.True(t, ok)
	assert.Equal(t, "https://example.com/image.jpg", article.URLToImage)
}
