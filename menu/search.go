package menu

import (
	"github.com/sahilm/fuzzy"
)

// Match is a meal found by [Search].
type Match struct {
	Date  string `cbor:"date"  json:"date"  yaml:"date"`
	Meal  Meal   `cbor:"meal"  json:"meal"  yaml:"meal"`
	Score int    `cbor:"score" json:"score" yaml:"score"`
	// Indexes are the byte offsets of the matched characters in Meal.Name.
	Indexes []int `cbor:"-" json:"-" yaml:"-"`
}

// meals flattens a menu for fuzzy.FindFrom.
type meals []Match

func (m meals) String(i int) string { return m[i].Meal.Name }
func (m meals) Len() int            { return len(m) }

// Search fuzzily matches pattern against the meal names of m and returns the
// matches, best first. An empty pattern matches nothing.
func Search(m Menu, pattern string) []Match {
	pattern = normalize(pattern)
	if pattern == "" {
		return nil
	}

	var src meals

	for _, d := range m.Days {
		for _, meal := range d.Meals {
			src = append(src, Match{Date: d.Date, Meal: meal})
		}
	}

	found := fuzzy.FindFrom(pattern, src)
	out := make([]Match, 0, len(found))

	for _, f := range found {
		hit := src[f.Index]
		hit.Score = f.Score
		hit.Indexes = f.MatchedIndexes
		out = append(out, hit)
	}

	return out
}
