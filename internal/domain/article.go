package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	ArticleDefaultLanguage = "en"
	ArticleDefaultCountry  = "global"
	// UnknownAuthor is the sentinel used when a source omits the author.
	UnknownAuthor = "Unknown"
)

// Article is the canonical unit produced by normalization and served by the API.
// JSON field names follow the upstream news API conventions.
type Article struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	URL         string    `json:"url"`
	URLToImage  string    `json:"urlToImage,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
	Source      string    `json:"source"`
	Author      string    `json:"author"`
	Category    Category  `json:"category"`
	Country     string    `json:"country,omitempty"`
	Language    string    `json:"language,omitempty"`
	IsBreaking  bool      `json:"isBreaking"`
	ReadTime    int       `json:"readTime"`
	CreatedAt   time.Time `json:"createdAt"`
}
