// Package pg implements the article Store on PostgreSQL via pgx.
package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/habari-news/habari/internal/domain"
	"github.com/habari-news/habari/internal/storage"
)

const articleColumns = `id, title, description, content, url, url_to_image, published_at,
	source, author, category, country, language, is_breaking, read_time, created_at`

const schema = `
CREATE TABLE IF NOT EXISTS articles (
	id           UUID PRIMARY KEY,
	title        TEXT NOT NULL,
	description  TEXT NOT NULL DEFAULT '',
	content      TEXT NOT NULL DEFAULT '',
	url          TEXT NOT NULL UNIQUE,
	url_to_image TEXT,
	published_at TIMESTAMPTZ NOT NULL,
	source       TEXT NOT NULL,
	author       TEXT NOT NULL DEFAULT 'Unknown',
	category     TEXT NOT NULL,
	country      TEXT,
	language     TEXT DEFAULT 'en',
	is_breaking  BOOLEAN NOT NULL DEFAULT FALSE,
	read_time    INTEGER NOT NULL DEFAULT 1,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_articles_published_at ON articles (published_at DESC);
CREATE INDEX IF NOT EXISTS idx_articles_category ON articles (category);
`

type Store struct {
	db *pgxpool.Pool
}

func NewStore(pool *ConnectionPool) *Store {
	return &Store{db: pool.GetConn()}
}

// EnsureSchema creates the articles table and its indexes when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure articles schema: %w", err)
	}
	return nil
}

func (s *Store) CreateArticle(ctx context.Context, article domain.Article) (domain.Article, error) {
	if article.ID == uuid.Nil {
		article.ID = uuid.New()
	}
	if article.CreatedAt.IsZero() {
		article.CreatedAt = time.Now()
	}

	cmd := `
		INSERT INTO articles (` + articleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (url) DO NOTHING
		RETURNING id, created_at;
	`
	err := s.db.QueryRow(ctx, cmd,
		article.ID,
		article.Title,
		article.Description,
		article.Content,
		article.URL,
		article.URLToImage,
		article.PublishedAt,
		article.Source,
		article.Author,
		article.Category,
		article.Country,
		article.Language,
		article.IsBreaking,
		article.ReadTime,
		article.CreatedAt,
	).Scan(&article.ID, &article.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		// Conflict on url: the article is already stored, return that row.
		return s.getArticleByURL(ctx, article.URL)
	}
	if err != nil {
		return domain.Article{}, fmt.Errorf("failed to insert article: %w", err)
	}

	return article, nil
}

func (s *Store) GetArticles(ctx context.Context, category string, limit, offset int) ([]domain.Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM articles
		WHERE ($1 = '' OR $1 = 'all' OR category = $1)
		ORDER BY published_at DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := s.db.Query(ctx, query, category, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	return scanArticles(rows)
}

func (s *Store) CountArticles(ctx context.Context, category string) (int64, error) {
	var count int64
	query := `SELECT count(*) FROM articles WHERE ($1 = '' OR $1 = 'all' OR category = $1);`
	if err := s.db.QueryRow(ctx, query, category).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}
	return count, nil
}

func (s *Store) GetArticleByID(ctx context.Context, id uuid.UUID) (domain.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE id = $1;`

	article, err := scanArticle(s.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Article{}, storage.ErrNotFound
	}
	if err != nil {
		return domain.Article{}, fmt.Errorf("failed to get article %s: %w", id, err)
	}
	return article, nil
}

func (s *Store) UpdateArticle(ctx context.Context, id uuid.UUID, article domain.Article) (domain.Article, error) {
	cmd := `
		UPDATE articles
		SET title = $2, description = $3, content = $4, url = $5, url_to_image = $6,
			published_at = $7, source = $8, author = $9, category = $10, country = $11,
			language = $12, is_breaking = $13, read_time = $14
		WHERE id = $1
		RETURNING ` + articleColumns + `;
	`
	updated, err := scanArticle(s.db.QueryRow(ctx, cmd,
		id,
		article.Title,
		article.Description,
		article.Content,
		article.URL,
		article.URLToImage,
		article.PublishedAt,
		article.Source,
		article.Author,
		article.Category,
		article.Country,
		article.Language,
		article.IsBreaking,
		article.ReadTime,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Article{}, storage.ErrNotFound
	}
	if err != nil {
		return domain.Article{}, fmt.Errorf("failed to update article %s: %w", id, err)
	}
	return updated, nil
}

func (s *Store) DeleteArticle(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM articles WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("failed to delete article %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) GetBreakingNews(ctx context.Context, limit int) ([]domain.Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM articles
		WHERE is_breaking
		ORDER BY published_at DESC
		LIMIT $1;
	`
	rows, err := s.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query breaking news: %w", err)
	}
	defer rows.Close()

	return scanArticles(rows)
}

func (s *Store) GetTrendingArticles(ctx context.Context, limit int) ([]domain.Article, error) {
	// Recency stands in for popularity until a real signal exists.
	return s.GetArticles(ctx, "", limit, 0)
}

func (s *Store) SearchArticles(ctx context.Context, query, category string) ([]domain.Article, error) {
	cmd := `
		SELECT ` + articleColumns + `
		FROM articles
		WHERE (title ILIKE $1 OR description ILIKE $1 OR content ILIKE $1)
			AND ($2 = '' OR $2 = 'all' OR category = $2)
		ORDER BY published_at DESC;
	`
	rows, err := s.db.Query(ctx, cmd, "%"+query+"%", category)
	if err != nil {
		return nil, fmt.Errorf("failed to search articles: %w", err)
	}
	defer rows.Close()

	return scanArticles(rows)
}

func (s *Store) getArticleByURL(ctx context.Context, url string) (domain.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE url = $1;`

	article, err := scanArticle(s.db.QueryRow(ctx, query, url))
	if err != nil {
		return domain.Article{}, fmt.Errorf("failed to get article by url: %w", err)
	}
	return article, nil
}

func scanArticle(row pgx.Row) (domain.Article, error) {
	var (
		article    domain.Article
		urlToImage *string
		country    *string
		language   *string
	)

	err := row.Scan(
		&article.ID,
		&article.Title,
		&article.Description,
		&article.Content,
		&article.URL,
		&urlToImage,
		&article.PublishedAt,
		&article.Source,
		&article.Author,
		&article.Category,
		&country,
		&language,
		&article.IsBreaking,
		&article.ReadTime,
		&article.CreatedAt,
	)
	if err != nil {
		return domain.Article{}, err
	}

	if urlToImage != nil {
		article.URLToImage = *urlToImage
	}
	if country != nil {
		article.Country = *country
	}
	if language != nil {
		article.Language = *language
	}

	return article, nil
}

func scanArticles(rows pgx.Rows) ([]domain.Article, error) {
	articles := make([]domain.Article, 0)
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return articles, nil
}
