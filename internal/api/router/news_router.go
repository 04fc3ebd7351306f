// Package router binds the news API endpoints onto the echo instance.
package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/habari-news/habari/internal/apperr"
	"github.com/habari-news/habari/internal/domain"
	"github.com/habari-news/habari/internal/storage"
	"github.com/habari-news/habari/pkg/pagination"
)

// Aggregator is the slice of the aggregation pipeline the router needs.
type Aggregator interface {
	News(ctx context.Context, category string) ([]domain.Article, error)
	Refresh(ctx context.Context, category string) ([]domain.Article, error)
	BreakingNews(ctx context.Context) ([]domain.Article, error)
	TrendingNews(ctx context.Context) ([]domain.Article, error)
}

type NewsRouter struct {
	e          *echo.Echo
	store      storage.Store
	aggregator Aggregator
}

func NewNewsRouter(e *echo.Echo, store storage.Store, aggregator Aggregator) *NewsRouter {
	return &NewsRouter{
		e:          e,
		store:      store,
		aggregator: aggregator,
	}
}

func (r *NewsRouter) Bind() {
	api := r.e.Group("/api")

	api.GET("/articles", r.listArticles)
	api.GET("/articles/:id", r.getArticle)
	api.GET("/breaking-news", r.breakingNews)
	api.GET("/trending", r.trending)
	api.GET("/search", r.search)
	api.POST("/refresh", r.refresh)
}

type articlesResponse struct {
	Articles []domain.Article `json:"articles"`
	Total    int64            `json:"total"`
	HasMore  bool             `json:"hasMore"`
}

type refreshRequest struct {
	Category string `json:"category"`
}

type refreshResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

func (r *NewsRouter) listArticles(c echo.Context) error {
	ctx := c.Request().Context()

	category, err := requestedCategory(c.QueryParam("category"))
	if err != nil {
		return err
	}

	var page pagination.OffsetRequest
	if err := c.Bind(&page); err != nil {
		return apperr.NewValidationWrap("invalid pagination parameters", err)
	}
	page.Normalize()

	forceRefresh := c.QueryParam("refresh") == "true"
	if forceRefresh {
		if _, err := r.aggregator.Refresh(ctx, category); err != nil {
			return fetchFailed(c, "failed to refresh articles", err)
		}
	} else {
		total, err := r.store.CountArticles(ctx, category)
		if err != nil {
			return fmt.Errorf("failed to count articles: %w", err)
		}
		// A cold store is seeded from the live sources on first read.
		if total == 0 {
			if _, err := r.aggregator.News(ctx, category); err != nil {
				return fetchFailed(c, "failed to fetch articles", err)
			}
		}
	}

	total, err := r.store.CountArticles(ctx, category)
	if err != nil {
		return fmt.Errorf("failed to count articles: %w", err)
	}

	articles, err := r.store.GetArticles(ctx, category, page.Limit, page.Offset)
	if err != nil {
		return fmt.Errorf("failed to list articles: %w", err)
	}

	return c.JSON(http.StatusOK, articlesResponse{
		Articles: articles,
		Total:    total,
		HasMore:  page.HasMore(total),
	})
}

func (r *NewsRouter) getArticle(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.NewValidationWrap("invalid article id", err)
	}

	article, err := r.store.GetArticleByID(c.Request().Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.NewNotFound("article not found")
	}
	if err != nil {
		return fmt.Errorf("failed to get article: %w", err)
	}

	return c.JSON(http.StatusOK, article)
}

func (r *NewsRouter) breakingNews(c echo.Context) error {
	articles, err := r.aggregator.BreakingNews(c.Request().Context())
	if err != nil {
		return fetchFailed(c, "failed to fetch breaking news", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"articles": articles,
		"count":    len(articles),
	})
}

func (r *NewsRouter) trending(c echo.Context) error {
	articles, err := r.aggregator.TrendingNews(c.Request().Context())
	if err != nil {
		return fetchFailed(c, "failed to fetch trending news", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"articles": articles,
		"count":    len(articles),
	})
}

func (r *NewsRouter) search(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return apperr.NewValidation("q parameter is required")
	}

	category, err := requestedCategory(c.QueryParam("category"))
	if err != nil {
		return err
	}

	articles, err := r.store.SearchArticles(c.Request().Context(), query, category)
	if err != nil {
		return fmt.Errorf("failed to search articles: %w", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"articles": articles,
		"count":    len(articles),
	})
}

func (r *NewsRouter) refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}

	category, err := requestedCategory(req.Category)
	if err != nil {
		return err
	}

	articles, err := r.aggregator.Refresh(c.Request().Context(), category)
	if err != nil {
		return fetchFailed(c, "failed to refresh articles", err)
	}

	return c.JSON(http.StatusOK, refreshResponse{
		Message: "refresh completed",
		Count:   len(articles),
	})
}

// fetchFailed answers a live-aggregation failure with the message plus the
// underlying error detail.
func fetchFailed(c echo.Context, message string, err error) error {
	return c.JSON(http.StatusInternalServerError, map[string]string{
		"message": message,
		"error":   err.Error(),
	})
}

// requestedCategory validates an optional category parameter. Empty and the
// "all" sentinel pass through unchanged.
func requestedCategory(category string) (string, error) {
	if category == "" || category == domain.CategoryAll {
		return category, nil
	}
	if !domain.Category(category).Valid() {
		return "", apperr.NewValidation(fmt.Sprintf("unknown category %q", category))
	}
	return category, nil
}
