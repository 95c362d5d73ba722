// Package skills holds skill lists and the overlap scoring between two of them.
package skills

import (
	"sort"
	"strings"
)

// List is a sequence of skill names as returned by an extractor.
// Order carries no meaning once the list enters set operations.
type List []string

// Normalize lowercases and trims every entry, drops empty ones and removes
// duplicates. The first occurrence keeps its position.
func Normalize(list List) List {
	out := make(List, 0, len(list))
	seen := make(map[string]struct{}, len(list))

	for _, skill := range list {
		skill = strings.ToLower(strings.TrimSpace(skill))
		if skill == "" {
			continue
		}
		if _, ok := seen[skill]; ok {
			continue
		}
		seen[skill] = struct{}{}
		out = append(out, skill)
	}

	return out
}

// Set builds a lookup set from the normalized list.
func (l List) Set() map[string]struct{} {
	normalized := Normalize(l)
	set := make(map[string]struct{}, len(normalized))
	for _, skill := range normalized {
		set[skill] = struct{}{}
	}
	return set
}

// Sorted returns a sorted copy of the list.
func (l List) Sorted() List {
	out := make(List, len(l))
	copy(out, l)
	sort.Strings(out)
	return out
}
