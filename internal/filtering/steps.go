package filtering

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/spigell/ats-matcher/internal/skills"
)

const (
	defaultMaxSkillRunes = 64
	defaultMaxSkills     = 200
)

type trimFilter struct{}

// NewTrim creates a filter that strips surrounding whitespace, bullets and trailing punctuation.
func NewTrim() Filter {
	return &trimFilter{}
}

func (f *trimFilter) Name() string { return "trim" }

func (f *trimFilter) Apply(list skills.List) (skills.List, Step) {
	out := make(skills.List, 0, len(list))
	for _, skill := range list {
		skill = strings.TrimLeftFunc(skill, func(r rune) bool {
			return unicode.IsSpace(r) || r == '-' || r == '*' || r == '•'
		})
		skill = strings.TrimRightFunc(skill, func(r rune) bool {
			return unicode.IsSpace(r) || r == '.' || r == ',' || r == ';' || r == ':'
		})
		out = append(out, skill)
	}
	return out, newStep(len(list), len(out))
}

type dropEmptyFilter struct{}

// NewDropEmpty creates a filter that removes blank entries.
func NewDropEmpty() Filter {
	return &dropEmptyFilter{}
}

func (f *dropEmptyFilter) Name() string { return "drop_empty" }

func (f *dropEmptyFilter) Apply(list skills.List) (skills.List, Step) {
	out := make(skills.List, 0, len(list))
	for _, skill := range list {
		if strings.TrimSpace(skill) != "" {
			out = append(out, skill)
		}
	}
	return out, newStep(len(list), len(out))
}

type dropLongFilter struct {
	limit int
}

// NewDropLong creates a filter that removes entries longer than limit runes.
// Such entries are sentences the model produced instead of skill names.
func NewDropLong(limit int) Filter {
	return &dropLongFilter{limit: limit}
}

func (f *dropLongFilter) Name() string { return "drop_long" }

func (f *dropLongFilter) Apply(list skills.List) (skills.List, Step) {
	if f.limit <= 0 {
		return list, newStep(len(list), len(list))
	}

	out := make(skills.List, 0, len(list))
	for _, skill := range list {
		if utf8.RuneCountInString(skill) <= f.limit {
			out = append(out, skill)
		}
	}
	return out, newStep(len(list), len(out))
}

type lowercaseFilter struct{}

// NewLowercase creates a filter that lowercases every entry.
func NewLowercase() Filter {
	return &lowercaseFilter{}
}

func (f *lowercaseFilter) Name() string { return "lowercase" }

func (f *lowercaseFilter) Apply(list skills.List) (skills.List, Step) {
	out := make(skills.List, len(list))
	for i, skill := range list {
		out[i] = strings.ToLower(skill)
	}
	return out, newStep(len(list), len(out))
}

type dedupeFilter struct{}

// NewDedupe creates a filter that keeps the first occurrence of every entry.
func NewDedupe() Filter {
	return &dedupeFilter{}
}

func (f *dedupeFilter) Name() string { return "dedupe" }

func (f *dedupeFilter) Apply(list skills.List) (skills.List, Step) {
	seen := make(map[string]struct{}, len(list))
	out := make(skills.List, 0, len(list))
	for _, skill := range list {
		if _, ok := seen[skill]; ok {
			continue
		}
		seen[skill] = struct{}{}
		out = append(out, skill)
	}
	return out, newStep(len(list), len(out))
}

type limitFilter struct {
	limit int
}

// NewLimit creates a filter that keeps at most limit entries.
func NewLimit(limit int) Filter {
	return &limitFilter{limit: limit}
}

func (f *limitFilter) Name() string { return "limit" }

func (f *limitFilter) Apply(list skills.List) (skills.List, Step) {
	if f.limit <= 0 || len(list) <= f.limit {
		return list, newStep(len(list), len(list))
	}
	out := make(skills.List, f.limit)
	copy(out, list[:f.limit])
	return out, newStep(len(list), len(out))
}
