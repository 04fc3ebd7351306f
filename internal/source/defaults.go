package source

import "github.com/habari-news/habari/internal/domain"

// Defaults returns the built-in source list, used when no sources.yaml is
// configured. The API key applies to the news API sources only.
func Defaults(apiKey string) []Descriptor {
	return []Descriptor{
		{
			Name:     "NewsAPI-General",
			Kind:     KindAPI,
			Endpoint: "https://newsapi.org/v2/top-headlines",
			APIKey:   apiKey,
			Country:  "us",
		},
		{
			Name:     "NewsAPI-Kenya",
			Kind:     KindAPI,
			Endpoint: "https://newsapi.org/v2/everything",
			APIKey:   apiKey,
			Category: domain.CategoryKenya,
		},
		{
			Name:     "BBC News",
			Kind:     KindFeed,
			Endpoint: "http://feeds.bbci.co.uk/news/rss.xml",
		},
		{
			Name:     "CNN",
			Kind:     KindFeed,
			Endpoint: "http://rss.cnn.com/rss/edition.rss",
		},
		{
			Name:     "Reuters",
			Kind:     KindFeed,
			Endpoint: "https://www.reuters.com/rssFeed/worldNews",
		},
		{
			Name:     "Daily Nation Kenya",
			Kind:     KindFeed,
			Endpoint: "https://www.nation.co.ke/kenya/news/-/1056/1056.xml",
			Category: domain.CategoryKenya,
		},
		{
			Name:     "The Standard Kenya",
			Kind:     KindFeed,
			Endpoint: "https://www.standardmedia.co.ke/rss/headlines.xml",
			Category: domain.CategoryKenya,
		},
		{
			Name:     "ESPN Sports",
			Kind:     KindFeed,
			Endpoint: "https://www.espn.com/espn/rss/news",
			Category: domain.CategorySports,
		},
		{
			Name:     "TechCrunch",
			Kind:     KindFeed,
			Endpoint: "http://feeds.feedburner.com/TechCrunch/",
			Category: domain.CategoryTechnology,
		},
		{
			Name:     "Variety Entertainment",
			Kind:     KindFeed,
			Endpoint: "https://variety.com/feed/",
			Category: domain.CategoryEntertainment,
		},
		{
			Name:     "Health News",
			Kind:     KindFeed,
			Endpoint: "https://www.medicalnewstoday.com/rss",
			Category: domain.CategoryHealth,
		},
	}
}
