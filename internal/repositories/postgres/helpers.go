package postgres

import (
	"strings"

	"gorm.io/gorm"
)

type SharedHelpers struct {
	db *gorm.DB
}

func NewSharedHelpers(db *gorm.DB) *SharedHelpers {
	return &SharedHelpers{db: db}
}

// scopeVariants returns the stored spellings equivalent to a scope value.
// Occurrence years are captured both prefixed ("Y4") and bare ("4") depending
// on the import path, so scope filters match either form.
func scopeVariants(scope string) []string {
	s := strings.TrimSpace(scope)
	if s == "" {
		return nil
	}
	upper := strings.ToUpper(s)
	variants := []string{s}
	switch {
	case strings.HasPrefix(upper, "Y") && len(upper) > 1:
		variants = append(variants, upper[1:])
	default:
		variants = append(variants, "Y"+upper)
	}
	if upper != s {
		variants = append(variants, upper)
	}
	return variants
}

// applyScope narrows a questions query to a scope across both places a year
// can live: the question's own capture year and its exam occurrences.
func applyScope(q *gorm.DB, scope string) *gorm.DB {
	variants := scopeVariants(scope)
	if variants == nil {
		return q
	}
	return q.Where(
		"questions.year_captured IN ? OR EXISTS (SELECT 1 FROM question_occurrences qo WHERE qo.question_id = questions.id AND qo.year IN ?)",
		variants, variants,
	)
}

func lowered(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strings.ToLower(strings.TrimSpace(v)))
	}
	return out
}
