package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/habari-news/habari/internal/domain"
	"github.com/habari-news/habari/internal/normalize"
	"github.com/habari-news/habari/internal/source"
)

// pageSize caps how many records one API call may return.
const pageSize = "50"

// apiResponse is the envelope returned by news API endpoints.
// A payload status of "error" signals a source-level failure even on HTTP 200.
type apiResponse struct {
	Status   string                `json:"status"`
	Message  string                `json:"message"`
	Articles []normalize.APIRecord `json:"articles"`
}

// APIFetcher fetches articles from JSON REST news APIs.
type APIFetcher struct {
	client *http.Client
}

func NewAPIFetcher(client *http.Client) *APIFetcher {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &APIFetcher{client: client}
}

func (f *APIFetcher) Fetch(ctx context.Context, src source.Descriptor, category string) ([]domain.Article, error) {
	endpoint, err := buildRequestURL(src, category)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", src.Name, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", src.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("request to %s failed: status %d", src.Name, resp.StatusCode)
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode response from %s: %w", src.Name, err)
	}

	if payload.Status == "error" {
		return nil, fmt.Errorf("source %s returned error: %s", src.Name, payload.Message)
	}

	now := time.Now()
	articles := make([]domain.Article, 0, len(payload.Articles))
	for _, rec := range payload.Articles {
		article, ok := normalize.FromAPI(rec, src, category, now)
		if !ok {
			continue
		}
		articles = append(articles, article)
	}

	return articles, nil
}

// buildRequestURL applies the category translation rules on top of the
// descriptor's endpoint: kenya becomes a full-text query sorted by recency,
// breaking maps onto the general category sorted by recency, anything else
// passes through.
func buildRequestURL(src source.Descriptor, category string) (string, error) {
	u, err := url.Parse(src.Endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint for %s: %w", src.Name, err)
	}

	params := url.Values{}
	if src.APIKey != "" {
		params.Set("apiKey", src.APIKey)
	}

	switch {
	case category != "" && category != domain.CategoryAll:
		switch category {
		case string(domain.CategoryKenya):
			params.Set("q", "Kenya")
			params.Set("sortBy", "publishedAt")
		case string(domain.CategoryBreaking):
			params.Set("category", "general")
			params.Set("sortBy", "publishedAt")
		default:
			params.Set("category", category)
		}
	case src.Country != "":
		params.Set("country", src.Country)
	}

	params.Set("pageSize", pageSize)
	u.RawQuery = params.Encode()

	return u.String(), nil
}
