// Package normalize maps raw source records into the canonical article shape
// and collapses duplicates.
package normalize

import (
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/habari-news/habari/internal/domain"
	"github.com/habari-news/habari/internal/source"
)

// removedTitle is the sentinel some APIs substitute for withdrawn articles.
const removedTitle = "[Removed]"

// APIRecord is the raw article shape returned by news API sources.
type APIRecord struct {
	Source struct {
		ID   *string `json:"id"`
		Name string  `json:"name"`
	} `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content"`
}

// FromAPI normalizes a raw API record into an Article. The second return
// value is false when the record must be dropped (missing or removed title).
func FromAPI(rec APIRecord, src source.Descriptor, category string, now time.Time) (domain.Article, bool) {
	if rec.Title == "" || rec.Title == removedTitle {
		return domain.Article{}, false
	}

	content := rec.Content
	if content == "" {
		content = rec.Description
	}

	sourceName := rec.Source.Name
	if sourceName == "" {
		sourceName = src.Name
	}

	publishedAt := now
	if t, err := time.Parse(time.RFC3339, rec.PublishedAt); err == nil {
		publishedAt = t
	}

	country := src.Country
	if country == "" {
		country = domain.ArticleDefaultCountry
	}

	return domain.Article{
		Title:       rec.Title,
		Description: rec.Description,
		Content:     content,
		URL:         rec.URL,
		URLToImage:  rec.URLToImage,
		PublishedAt: publishedAt,
		Source:      sourceName,
		Author:      defaultAuthor(rec.Author),
		Category:    resolveCategory(category, src, rec.Title, rec.Description),
		Country:     country,
		Language:    domain.ArticleDefaultLanguage,
		IsBreaking:  IsBreakingTitle(rec.Title),
		ReadTime:    ReadTime(content),
	}, true
}

// FromFeed normalizes a parsed feed item into an Article. The second return
// value is false when the item must be dropped (missing title).
func FromFeed(item *gofeed.Item, src source.Descriptor, category string, now time.Time) (domain.Article, bool) {
	if item == nil || item.Title == "" {
		return domain.Article{}, false
	}

	description := item.Description
	content := item.Content
	if content == "" {
		content = description
	}

	link := item.Link
	if link == "" && (strings.HasPrefix(item.GUID, "http://") || strings.HasPrefix(item.GUID, "https://")) {
		link = item.GUID
	}

	var image string
	for _, enclosure := range item.Enclosures {
		if enclosure != nil && enclosure.URL != "" {
			image = enclosure.URL
			break
		}
	}

	publishedAt := now
	if item.PublishedParsed != nil {
		publishedAt = *item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		publishedAt = *item.UpdatedParsed
	}

	var author string
	if item.Author != nil {
		author = item.Author.Name
	}
	if author == "" && len(item.Authors) > 0 && item.Authors[0] != nil {
		author = item.Authors[0].Name
	}

	return domain.Article{
		Title:       item.Title,
		Description: description,
		Content:     content,
		URL:         link,
		URLToImage:  image,
		PublishedAt: publishedAt,
		Source:      src.Name,
		Author:      defaultAuthor(author),
		Category:    resolveCategory(category, src, item.Title, description),
		Country:     domain.ArticleDefaultCountry,
		Language:    domain.ArticleDefaultLanguage,
		IsBreaking:  IsBreakingTitle(item.Title),
		ReadTime:    ReadTime(content),
	}, true
}

// resolveCategory applies the category priority: requested category first,
// then the source affinity, then keyword categorization over title and
// description.
func resolveCategory(requested string, src source.Descriptor, title, description string) domain.Category {
	if requested != "" && requested != domain.CategoryAll {
		if c := domain.Category(requested); c.Valid() {
			return c
		}
	}
	if src.Category != "" {
		return src.Category
	}
	return Categorize(title + " " + description)
}

func defaultAuthor(author string) string {
	if author == "" {
		return domain.UnknownAuthor
	}
	return author
}
