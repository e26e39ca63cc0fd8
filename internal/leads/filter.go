// Package leads provides filtering and export operations over the active
// lead set. Leads are treated as immutable values; every function returns a
// new slice and never mutates its input.
package leads

import (
	"strings"

	"vantage/internal/types"
)

// Type filter values. Leads without a category fall into the Undefined bucket.
const (
	TypeAll       = "All"
	TypeUndefined = "Undefined"
)

// bucket returns the type-filter bucket a lead belongs to.
func bucket(l types.Lead) string {
	if l.Type == "" {
		return TypeUndefined
	}
	return l.Type
}

// Types returns the selectable type filters for a lead set: "All" followed by
// each distinct bucket in first-seen order.
func Types(leads []types.Lead) []string {
	out := []string{TypeAll}
	seen := map[string]bool{}
	for _, l := range leads {
		b := bucket(l)
		if !seen[b] {
			seen[b] = true
			out = append(out, b)
		}
	}
	return out
}

// Filter returns the leads matching a free-text term (over name, address,
// email and phone, case-insensitive) and a type filter ("All" disables it).
func Filter(leads []types.Lead, term, typeFilter string) []types.Lead {
	term = strings.ToLower(term)
	out := make([]types.Lead, 0, len(leads))
	for _, l := range leads {
		if term != "" && !matchesTerm(l, term) {
			continue
		}
		if typeFilter != "" && typeFilter != TypeAll && bucket(l) != typeFilter {
			continue
		}
		out = append(out, l)
	}
	return out
}

func matchesTerm(l types.Lead, term string) bool {
	for _, field := range []string{l.Name, l.Address, l.Email, l.Phone} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}
