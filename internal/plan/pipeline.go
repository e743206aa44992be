package plan

import (
	"cmp"
	"slices"
	"strings"
)

// Record is the common read-only view the pipeline needs over every
// board entity. It lets one merge/sort/filter/summarize implementation
// serve ideas, features, experiments, and token sessions instead of
// four near-duplicate code paths.
type Record interface {
	RecordID() string
	ScoreValue() float64
	TokenTotal() int
	CreatedUnix() int64
	LabelKey() string
	CategoryKey() string
	StatusKey() string
	MatchText() string
}

// SortKey selects the pipeline sort order.
type SortKey string

const (
	SortByScore    SortKey = "score"    // descending
	SortByTokens   SortKey = "tokens"   // descending
	SortByDate     SortKey = "date"     // descending, newest first
	SortByTitle    SortKey = "title"    // ascending, lexicographic
	SortByCategory SortKey = "category" // ascending, lexicographic
)

// SortBy returns a new slice ordered by the given key. The sort is
// stable: entities with equal keys keep their prior relative order.
// An unknown key leaves the order untouched.
func SortBy[E Record](items []E, key SortKey) []E {
	out := slices.Clone(items)
	switch key {
	case SortByScore:
		slices.SortStableFunc(out, func(a, b E) int {
			return cmp.Compare(b.ScoreValue(), a.ScoreValue())
		})
	case SortByTokens:
		slices.SortStableFunc(out, func(a, b E) int {
			return cmp.Compare(b.TokenTotal(), a.TokenTotal())
		})
	case SortByDate:
		slices.SortStableFunc(out, func(a, b E) int {
			return cmp.Compare(b.CreatedUnix(), a.CreatedUnix())
		})
	case SortByTitle:
		slices.SortStableFunc(out, func(a, b E) int {
			return cmp.Compare(strings.ToLower(a.LabelKey()), strings.ToLower(b.LabelKey()))
		})
	case SortByCategory:
		slices.SortStableFunc(out, func(a, b E) int {
			return cmp.Compare(a.CategoryKey(), b.CategoryKey())
		})
	}
	return out
}

// Filter selects entities by category/status equality and/or a
// case-insensitive substring match on title and description. Empty or
// "all" fields are pass-through.
type Filter struct {
	Category string
	Status   string
	Query    string
}

// active reports whether the predicate field constrains anything.
func active(v string) bool {
	return v != "" && v != "all"
}

// FilterBy returns the entities matching the filter, preserving order.
func FilterBy[E Record](items []E, f Filter) []E {
	if !active(f.Category) && !active(f.Status) && f.Query == "" {
		return slices.Clone(items)
	}

	query := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]E, 0, len(items))
	for _, item := range items {
		if active(f.Category) && item.CategoryKey() != f.Category {
			continue
		}
		if active(f.Status) && item.StatusKey() != f.Status {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(item.MatchText()), query) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// Summary holds aggregate statistics over a (filtered) entity set.
type Summary struct {
	TotalTokenCost    int     `json:"total_token_cost"`
	TotalMonetaryCost float64 `json:"total_monetary_cost"`
	AverageScore      float64 `json:"average_score"`
	Count             int     `json:"count"`
}

// Summarize computes totals and the average score over the set. The
// monetary total prices the summed token cost at unitRate. An empty
// set yields all zeros rather than a division error.
func Summarize[E Record](items []E, unitRate float64) Summary {
	s := Summary{Count: len(items)}
	if len(items) == 0 {
		return s
	}

	var scoreSum float64
	for _, item := range items {
		s.TotalTokenCost += item.TokenTotal()
		scoreSum += item.ScoreValue()
	}
	s.TotalMonetaryCost = MonetaryEstimate(s.TotalTokenCost, unitRate)
	s.AverageScore = round1(scoreSum / float64(len(items)))
	return s
}
