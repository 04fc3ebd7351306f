package normalize

import (
	"strings"

	"github.com/habari-news/habari/internal/domain"
)

// categoryRule pairs a category with the keywords that indicate it.
// Rules are scanned in order and the first match wins, so the order
// is behaviorally significant: "football" beats "kenya" in the same text.
type categoryRule struct {
	category domain.Category
	keywords []string
}

var categoryRules = []categoryRule{
	{domain.CategorySports, []string{"sport", "football", "soccer", "basketball"}},
	{domain.CategoryTechnology, []string{"tech", "digital", "ai", "computer"}},
	{domain.CategoryHealth, []string{"health", "medical", "hospital", "doctor"}},
	{domain.CategoryEntertainment, []string{"entertainment", "celebrity", "movie", "music"}},
	{domain.CategoryLifestyle, []string{"lifestyle", "fashion", "travel", "food"}},
	{domain.CategoryKenya, []string{"kenya", "nairobi", "mombasa"}},
	{domain.CategoryBreaking, []string{"breaking", "urgent", "alert"}},
}

var breakingKeywords = []string{"breaking", "urgent", "alert", "just in", "developing"}

// Categorize assigns a category from keyword matches over the given text,
// defaulting to world when nothing matches.
func Categorize(text string) domain.Category {
	lower := strings.ToLower(text)

	for _, rule := range categoryRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lower, keyword) {
				return rule.category
			}
		}
	}

	return domain.CategoryWorld
}

// IsBreakingTitle reports whether a title carries a breaking-news marker.
func IsBreakingTitle(title string) bool {
	lower := strings.ToLower(title)
	for _, keyword := range breakingKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

const wordsPerMinute = 200

// ReadTime estimates reading time in minutes for the given content,
// never less than one minute.
func ReadTime(content string) int {
	words := len(strings.Fields(content))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}
