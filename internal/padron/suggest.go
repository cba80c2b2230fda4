package padron

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Suggestion is a candidate source column for a destination field.
type Suggestion struct {
	Column   string `json:"column"`
	Distance int    `json:"distance"`
	MappedTo string `json:"mapped_to,omitempty"`
}

// Suggest ranks source columns that fuzzily resemble field or any of its rule
// patterns, closest first. Matching is accent- and case-insensitive and works
// both ways, so an abbreviated column like "FNac" still ranks for
// fecha_nacimiento. MappedTo names the field currently holding the column.
func Suggest(field string, columns []string, mapping FieldMapping) []Suggestion {
	terms := []string{compact(field)}
	if rule, ok := RuleFor(field); ok {
		for _, p := range rule.Patterns {
			terms = append(terms, compact(p))
		}
	}

	targets := make([]string, len(columns))
	for i, col := range columns {
		targets[i] = compact(col)
	}

	best := make(map[int]int)
	record := func(idx, dist int) {
		if targets[idx] == "" {
			return
		}
		if d, ok := best[idx]; !ok || dist < d {
			best[idx] = dist
		}
	}

	for _, term := range terms {
		ranks := fuzzy.RankFindNormalizedFold(term, targets)
		for _, r := range ranks {
			record(r.OriginalIndex, r.Distance)
		}
	}
	for i, target := range targets {
		if target == "" {
			continue
		}
		ranks := fuzzy.RankFindNormalizedFold(target, terms)
		sort.Sort(ranks)
		if len(ranks) > 0 {
			record(i, ranks[0].Distance)
		}
	}

	owner := make(map[string]string, len(mapping))
	for f, col := range mapping {
		if col != "" && f != field {
			if prev, ok := owner[col]; !ok || f < prev {
				owner[col] = f
			}
		}
	}

	out := make([]Suggestion, 0, len(best))
	for idx, dist := range best {
		out = append(out, Suggestion{Column: columns[idx], Distance: dist, MappedTo: owner[columns[idx]]})
	}
	order := make(map[string]int, len(columns))
	for i, col := range columns {
		order[col] = i
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance < out[j].Distance
		}
		return order[out[i].Column] < order[out[j].Column]
	})
	return out
}

func compact(s string) string {
	s = NormalizeColumnName(strings.ReplaceAll(s, "_", " "))
	return strings.ReplaceAll(s, " ", "")
}
