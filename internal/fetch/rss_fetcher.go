package fetch

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/habari-news/habari/internal/domain"
	"github.com/habari-news/habari/internal/normalize"
	"github.com/habari-news/habari/internal/source"
)

// RSSFetcher fetches articles from RSS and Atom feeds.
type RSSFetcher struct {
	parser *gofeed.Parser
}

func NewRSSFetcher(client *http.Client) *RSSFetcher {
	parser := gofeed.NewParser()
	if client != nil {
		parser.Client = client
	}
	return &RSSFetcher{parser: parser}
}

func (f *RSSFetcher) Fetch(ctx context.Context, src source.Descriptor, category string) ([]domain.Article, error) {
	feed, err := f.parser.ParseURLWithContext(src.Endpoint, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed %s: %w", src.Name, err)
	}

	now := time.Now()
	articles := make([]domain.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		article, ok := normalize.FromFeed(item, src, category, now)
		if !ok {
			continue
		}
		articles = append(articles, article)
	}

	return articles, nil
}
