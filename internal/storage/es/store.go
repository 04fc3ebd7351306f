// Package es implements the article Store on Elasticsearch.
package es

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/google/uuid"

	"github.com/habari-news/habari/internal/domain"
	"github.com/habari-news/habari/internal/storage"
)

// document is the Elasticsearch representation of an article.
type document struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	URL         string    `json:"url"`
	URLToImage  string    `json:"url_to_image"`
	PublishedAt time.Time `json:"published_at"`
	Source      string    `json:"source"`
	Author      string    `json:"author"`
	Category    string    `json:"category"`
	Country     string    `json:"country"`
	Language    string    `json:"language"`
	IsBreaking  bool      `json:"is_breaking"`
	ReadTime    int       `json:"read_time"`
	CreatedAt   time.Time `json:"created_at"`
}

type Store struct {
	client    *elasticsearch.TypedClient
	indexName string
}

func NewStore(ctx context.Context, config ClientConfig) (*Store, error) {
	client, err := newClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	store := &Store{
		client:    client,
		indexName: config.IndexName,
	}

	if err := store.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}

	return store, nil
}

func (s *Store) EnsureIndex(ctx context.Context) error {
	existsRes, err := s.client.Indices.Exists(s.indexName).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check if index exists: %w", err)
	}

	if existsRes {
		slog.Info("Index already exists", "index", s.indexName)
		return nil
	}

	mappings := types.TypeMapping{
		Properties: map[string]types.Property{
			"id":           types.NewKeywordProperty(),
			"title":        textPropertyWithKeyword(),
			"description":  types.NewTextProperty(),
			"content":      types.NewTextProperty(),
			"url":          types.NewKeywordProperty(),
			"url_to_image": types.NewKeywordProperty(),
			"published_at": types.NewDateProperty(),
			"source":       textPropertyWithKeyword(),
			"author":       textPropertyWithKeyword(),
			"category":     types.NewKeywordProperty(),
			"country":      types.NewKeywordProperty(),
			"language":     types.NewKeywordProperty(),
			"is_breaking":  types.NewBooleanProperty(),
			"read_time":    types.NewIntegerNumberProperty(),
			"created_at":   types.NewDateProperty(),
		},
	}

	createRes, err := s.client.Indices.Create(s.indexName).
		Mappings(&mappings).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	if !createRes.Acknowledged {
		return fmt.Errorf("index creation was not acknowledged")
	}

	slog.Info("Index created successfully", "index", s.indexName)
	return nil
}

func (s *Store) CreateArticle(ctx context.Context, article domain.Article) (domain.Article, error) {
	if article.ID == uuid.Nil {
		// Derive the document id from the URL so re-creating the same
		// article overwrites instead of duplicating.
		if article.URL != "" {
			article.ID = uuid.NewSHA1(uuid.NameSpaceURL, []byte(article.URL))
		} else {
			article.ID = uuid.New()
		}
	}
	if article.CreatedAt.IsZero() {
		article.CreatedAt = time.Now()
	}

	doc := toDocument(article)
	if _, err := s.client.Index(s.indexName).Id(doc.ID).Document(doc).Do(ctx); err != nil {
		return domain.Article{}, fmt.Errorf("failed to index article: %w", err)
	}

	return article, nil
}

func (s *Store) GetArticles(ctx context.Context, category string, limit, offset int) ([]domain.Article, error) {
	query := matchAllOrCategory(category)

	res, err := s.client.Search().
		Index(s.indexName).
		Query(query).
		From(offset).
		Size(limit).
		Sort(sortByPublishedAtDesc()).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}

	return mapHits(res.Hits.Hits)
}

func (s *Store) CountArticles(ctx context.Context, category string) (int64, error) {
	res, err := s.client.Count().
		Index(s.indexName).
		Query(matchAllOrCategory(category)).
		Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}
	return res.Count, nil
}

func (s *Store) GetArticleByID(ctx context.Context, id uuid.UUID) (domain.Article, error) {
	res, err := s.client.Get(s.indexName, id.String()).Do(ctx)
	if err != nil {
		return domain.Article{}, fmt.Errorf("failed to get article %s: %w", id, err)
	}
	if !res.Found {
		return domain.Article{}, storage.ErrNotFound
	}

	var doc document
	if err := json.Unmarshal(res.Source_, &doc); err != nil {
		return domain.Article{}, fmt.Errorf("failed to unmarshal document: %w", err)
	}

	return fromDocument(doc)
}

func (s *Store) UpdateArticle(ctx context.Context, id uuid.UUID, article domain.Article) (domain.Article, error) {
	existing, err := s.GetArticleByID(ctx, id)
	if err != nil {
		return domain.Article{}, err
	}

	article.ID = existing.ID
	article.CreatedAt = existing.CreatedAt

	doc := toDocument(article)
	if _, err := s.client.Index(s.indexName).Id(doc.ID).Document(doc).Do(ctx); err != nil {
		return domain.Article{}, fmt.Errorf("failed to update article %s: %w", id, err)
	}

	return article, nil
}

func (s *Store) DeleteArticle(ctx context.Context, id uuid.UUID) error {
	res, err := s.client.Delete(s.indexName, id.String()).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete article %s: %w", id, err)
	}
	if res.Result.Name == "not_found" {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) GetBreakingNews(ctx context.Context, limit int) ([]domain.Article, error) {
	query := &types.Query{
		Term: map[string]types.TermQuery{
			"is_breaking": {Value: true},
		},
	}

	res, err := s.client.Search().
		Index(s.indexName).
		Query(query).
		Size(limit).
		Sort(sortByPublishedAtDesc()).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query breaking news: %w", err)
	}

	return mapHits(res.Hits.Hits)
}

func (s *Store) GetTrendingArticles(ctx context.Context, limit int) ([]domain.Article, error) {
	return s.GetArticles(ctx, "", limit, 0)
}

func (s *Store) SearchArticles(ctx context.Context, query, category string) ([]domain.Article, error) {
	multiMatch := &types.Query{
		MultiMatch: &types.MultiMatchQuery{
			Query:  query,
			Fields: []string{"title", "description", "content"},
		},
	}

	boolQuery := &types.BoolQuery{Must: []types.Query{*multiMatch}}
	if category != "" && category != domain.CategoryAll {
		boolQuery.Filter = []types.Query{{
			Term: map[string]types.TermQuery{"category": {Value: category}},
		}}
	}

	res, err := s.client.Search().
		Index(s.indexName).
		Query(&types.Query{Bool: boolQuery}).
		Sort(sortByPublishedAtDesc()).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to search articles: %w", err)
	}

	return mapHits(res.Hits.Hits)
}

func matchAllOrCategory(category string) *types.Query {
	if category == "" || category == domain.CategoryAll {
		return &types.Query{MatchAll: &types.MatchAllQuery{}}
	}
	return &types.Query{
		Term: map[string]types.TermQuery{"category": {Value: category}},
	}
}

func sortByPublishedAtDesc() *types.SortOptions {
	desc := sortorder.Desc
	return &types.SortOptions{
		SortOptions: map[string]types.FieldSort{
			"published_at": {Order: &desc},
		},
	}
}

func mapHits(hits []types.Hit) ([]domain.Article, error) {
	articles := make([]domain.Article, 0, len(hits))

	for _, hit := range hits {
		var doc document
		if err := json.Unmarshal(hit.Source_, &doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal document: %w", err)
		}

		article, err := fromDocument(doc)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}

	return articles, nil
}

func toDocument(article domain.Article) document {
	return document{
		ID:          article.ID.String(),
		Title:       article.Title,
		Description: article.Description,
		Content:     article.Content,
		URL:         article.URL,
		URLToImage:  article.URLToImage,
		PublishedAt: article.PublishedAt,
		Source:      article.Source,
		Author:      article.Author,
		Category:    string(article.Category),
		Country:     article.Country,
		Language:    article.Language,
		IsBreaking:  article.IsBreaking,
		ReadTime:    article.ReadTime,
		CreatedAt:   article.CreatedAt,
	}
}

func fromDocument(doc document) (domain.Article, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return domain.Article{}, fmt.Errorf("failed to parse article id %q: %w", doc.ID, err)
	}

	return domain.Article{
		ID:          id,
		Title:       doc.Title,
		Description: doc.Description,
		Content:     doc.Content,
		URL:         doc.URL,
		URLToImage:  doc.URLToImage,
		PublishedAt: doc.PublishedAt,
		Source:      doc.Source,
		Author:      doc.Author,
		Category:    domain.Category(doc.Category),
		Country:     doc.Country,
		Language:    doc.Language,
		IsBreaking:  doc.IsBreaking,
		ReadTime:    doc.ReadTime,
		CreatedAt:   doc.CreatedAt,
	}, nil
}

func textPropertyWithKeyword() types.Property {
	textProp := types.NewTextProperty()
	textProp.Fields = map[string]types.Property{
		"keyword": types.NewKeywordProperty(),
	}
	return textProp
}
