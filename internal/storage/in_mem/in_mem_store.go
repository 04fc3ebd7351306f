// Package in_mem provides the reference Store implementation backed by a
// mutex-guarded map. It is the default backend and the one tests run against.
package in_mem

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/habari-news/habari/internal/domain"
	"github.com/habari-news/habari/internal/storage"
)

type InMemStore struct {
	mu       sync.RWMutex
	articles map[uuid.UUID]domain.Article
	byURL    map[string]uuid.UUID
}

func NewInMemStore() *InMemStore {
	return &InMemStore{
		articles: make(map[uuid.UUID]domain.Article),
		byURL:    make(map[string]uuid.UUID),
	}
}

func (s *InMemStore) CreateArticle(ctx context.Context, article domain.Article) (domain.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-creating by URL is tolerated: return the stored article unchanged.
	if id, ok := s.byURL[article.URL]; ok && article.URL != "" {
		return s.articles[id], nil
	}

	if article.ID == uuid.Nil {
		article.ID = uuid.New()
	}
	if article.CreatedAt.IsZero() {
		article.CreatedAt = time.Now()
	}

	s.articles[article.ID] = article
	if article.URL != "" {
		s.byURL[article.URL] = article.ID
	}

	return article, nil
}

func (s *InMemStore) GetArticles(ctx context.Context, category string, limit, offset int) ([]domain.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	articles := s.sortedByPublishedAt(func(a domain.Article) bool {
		return matchesCategory(a, category)
	})

	return page(articles, limit, offset), nil
}

func (s *InMemStore) CountArticles(ctx context.Context, category string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, article := range s.articles {
		if matchesCategory(article, category) {
			count++
		}
	}
	return count, nil
}

func (s *InMemStore) GetArticleByID(ctx context.Context, id uuid.UUID) (domain.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	article, ok := s.articles[id]
	if !ok {
		return domain.Article{}, storage.ErrNotFound
	}
	return article, nil
}

func (s *InMemStore) UpdateArticle(ctx context.Context, id uuid.UUID, article domain.Article) (domain.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.articles[id]
	if !ok {
		return domain.Article{}, storage.ErrNotFound
	}

	article.ID = existing.ID
	article.CreatedAt = existing.CreatedAt
	s.articles[id] = article

	if existing.URL != article.URL {
		delete(s.byURL, existing.URL)
		if article.URL != "" {
			s.byURL[article.URL] = id
		}
	}

	return article, nil
}

func (s *InMemStore) DeleteArticle(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	article, ok := s.articles[id]
	if !ok {
		return storage.ErrNotFound
	}

	delete(s.articles, id)
	delete(s.byURL, article.URL)
	return nil
}

func (s *InMemStore) GetBreakingNews(ctx context.Context, limit int) ([]domain.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	articles := s.sortedByPublishedAt(func(a domain.Article) bool {
		return a.IsBreaking
	})

	return page(articles, limit, 0), nil
}

func (s *InMemStore) GetTrendingArticles(ctx context.Context, limit int) ([]domain.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	articles := s.sortedByPublishedAt(func(domain.Article) bool { return true })
	return page(articles, limit, 0), nil
}

func (s *InMemStore) SearchArticles(ctx context.Context, query, category string) ([]domain.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	term := strings.ToLower(query)
	articles := s.sortedByPublishedAt(func(a domain.Article) bool {
		if !matchesCategory(a, category) {
			return false
		}
		return strings.Contains(strings.ToLower(a.Title), term) ||
			strings.Contains(strings.ToLower(a.Description), term) ||
			strings.Contains(strings.ToLower(a.Content), term)
	})

	return articles, nil
}

// sortedByPublishedAt snapshots matching articles sorted newest first.
// Callers must hold at least the read lock.
func (s *InMemStore) sortedByPublishedAt(match func(domain.Article) bool) []domain.Article {
	articles := make([]domain.Article, 0, len(s.articles))
	for _, article := range s.articles {
		if match(article) {
			articles = append(articles, article)
		}
	}

	sort.Slice(articles, func(i, j int) bool {
		return articles[i].PublishedAt.After(articles[j].PublishedAt)
	})

	return articles
}

func matchesCategory(article domain.Article, category string) bool {
	if category == "" || category == domain.CategoryAll {
		return true
	}
	return article.Category == domain.Category(category)
}

func page(articles []domain.Article, limit, offset int) []domain.Article {
	if offset >= len(articles) {
		return []domain.Article{}
	}
	articles = articles[offset:]
	if limit > 0 && limit < len(articles) {
		articles = articles[:limit]
	}
	return articles
}
