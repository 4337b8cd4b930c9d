package model

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// ClosestName returns the candidate nearest to target by edit distance,
// ignoring case. Candidates more than a third of target's length away
// (minimum 2 edits) are not considered close; "" is returned then.
func ClosestName(target string, candidates []string) string {
	needle := strings.ToLower(strings.TrimSpace(target))
	if needle == "" {
		return ""
	}

	limit := max(2, len(needle)/3)
	best, bestDist := "", limit+1
	for _, c := range candidates {
		dist := levenshtein.ComputeDistance(needle, strings.ToLower(c))
		if dist < bestDist {
			best, bestDist = c, dist
		}
	}
	return best
}

// CategoryNotFound builds a not-found error for a category name, suggesting the
// closest existing name when one is near enough.
func CategoryNotFound(name string, categories []Category) *NotFoundError {
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	err := NewNotFoundError("category", name)
	err.Suggestion = ClosestName(name, names)
	return err
}

// FindCategoryByName returns the category with exactly the given name.
func FindCategoryByName(name string, categories []Category) (*Category, error) {
	name = strings.TrimSpace(name)
	for i := range categories {
		if categories[i].Name == name {
			return &categories[i], nil
		}
	}
	return nil, CategoryNotFound(name, categories)
}
