package normalize

import "github.com/habari-news/habari/internal/domain"

// Fingerprint reduces a title to its deduplication key: lower-cased with
// every non-alphanumeric rune stripped.
func Fingerprint(title string) string {
	var b []rune
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b = append(b, r)
		case r >= 'A' && r <= 'Z':
			b = append(b, r+('a'-'A'))
		}
	}
	return string(b)
}

// Dedup removes articles whose title fingerprint was already seen,
// preserving first-seen order. Running it on its own output is a no-op.
func Dedup(articles []domain.Article) []domain.Article {
	seen := make(map[string]struct{}, len(articles))
	unique := make([]domain.Article, 0, len(articles))

	for _, article := range articles {
		key := Fingerprint(article.Title)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, article)
	}

	return unique
}
