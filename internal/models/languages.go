package models

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// LanguageSet is an ordered, de-duplicated collection of language tags
// (e.g. "en", "hi", "pt-BR"). It is immutable for the run.
type LanguageSet struct {
	tags []language.Tag
}

// ParseLanguageSet parses raw tags into a LanguageSet, preserving order and
// collapsing duplicates. Tags are accepted in ISO 639-1 or BCP-47 form.
func ParseLanguageSet(raw []string) (LanguageSet, error) {
	tags := make([]language.Tag, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		tag, err := language.Parse(r)
		if err != nil {
			return LanguageSet{}, fmt.Errorf("invalid language code %q: %w", r, err)
		}
		key := tag.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		tags = append(tags, tag)
	}
	return LanguageSet{tags: tags}, nil
}

// NewLanguageSet builds a LanguageSet from already-parsed tags, preserving
// order and collapsing duplicates.
func NewLanguageSet(tags ...language.Tag) LanguageSet {
	out := make([]language.Tag, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		key := tag.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tag)
	}
	return LanguageSet{tags: out}
}

// Tags returns the tags in request order. The returned slice must not be
// mutated by the caller.
func (s LanguageSet) Tags() []language.Tag {
	return s.tags
}

// Strings returns the canonical string form of each tag, in order.
func (s LanguageSet) Strings() []string {
	out := make([]string, len(s.tags))
	for i, tag := range s.tags {
		out[i] = tag.String()
	}
	return out
}

// Contains reports whether the set holds the given tag.
func (s LanguageSet) Contains(tag language.Tag) bool {
	key := tag.String()
	for _, have := range s.tags {
		if have.String() == key {
			return true
		}
	}
	return false
}

// Minus returns the languages of s not present in other, preserving order.
func (s LanguageSet) Minus(other LanguageSet) LanguageSet {
	out := make([]language.Tag, 0, len(s.tags))
	for _, tag := range s.tags {
		if !other.Contains(tag) {
			out = append(out, tag)
		}
	}
	return LanguageSet{tags: out}
}

// Len returns the number of languages in the set.
func (s LanguageSet) Len() int {
	return len(s.tags)
}

// IsEmpty reports whether the set has no languages.
func (s LanguageSet) IsEmpty() bool {
	return len(s.tags) == 0
}

// String returns a comma-separated list of the tags for logging.
func (s LanguageSet) String() string {
	return strings.Join(s.Strings(), ", ")
}
