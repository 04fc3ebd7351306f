package domain

// Category is the fixed topical classification of an article.
type Category string

const (
	CategoryBreaking      Category = "breaking"
	CategoryWorld         Category = "world"
	CategoryKenya         Category = "kenya"
	CategorySports        Category = "sports"
	CategoryTechnology    Category = "technology"
	CategoryHealth        Category = "health"
	CategoryEntertainment Category = "entertainment"
	CategoryLifestyle     Category = "lifestyle"
)

// CategoryAll is the request sentinel meaning "no category filter".
// It is never a valid Article.Category.
const CategoryAll = "all"

// Categories returns all valid categories in canonical order.
func Categories() []Category {
	return []Category{
		CategoryBreaking,
		CategoryWorld,
		CategoryKenya,
		CategorySports,
		CategoryTechnology,
		CategoryHealth,
		CategoryEntertainment,
		CategoryLifestyle,
	}
}

// Valid reports whether c is a member of the fixed category set.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}
