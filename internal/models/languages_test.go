package models

import (
	"testing"

	"golang.org/x/text/language"
)

func TestParseLanguageSet(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "simple tags",
			input:    []string{"en", "hi"},
			expected: []string{"en", "hi"},
		},
		{
			name:     "bcp47 region tag",
			input:    []string{"pt-BR"},
			expected: []string{"pt-BR"},
		},
		{
			name:     "duplicates collapsed order preserved",
			input:    []string{"en", "fr", "en", "fr"},
			expected: []string{"en", "fr"},
		},
		{
			name:     "whitespace and empties ignored",
			input:    []string{" en ", "", "de"},
			expected: []string{"en", "de"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			set, err := ParseLanguageSet(tt.input)
			if err != nil {
				t.Fatalf("ParseLanguageSet(%v): %v", tt.input, err)
			}
			got := set.Strings()
			if len(got) != len(tt.expected) {
				t.Fatalf("Strings() = %v, want %v", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("Strings()[%d] = %q, want %q", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestParseLanguageSet_Invalid(t *testing.T) {
	t.Parallel()
	_, err := ParseLanguageSet([]string{"en", "!!"})
	if err == nil {
		t.Fatal("expected error for invalid language code")
	}
}

func TestLanguageSet_Minus(t *testing.T) {
	t.Parallel()
	requested, _ := ParseLanguageSet([]string{"en", "hi", "fr"})
	existing, _ := ParseLanguageSet([]string{"en", "fr"})

	residual := requested.Minus(existing)
	if got := residual.Strings(); len(got) != 1 || got[0] != "hi" {
		t.Fatalf("Minus() = %v, want [hi]", got)
	}

	// Subtracting the empty set is the identity.
	all := requested.Minus(LanguageSet{})
	if all.Len() != 3 {
		t.Errorf("Minus(empty).Len() = %d, want 3", all.Len())
	}
}

func TestLanguageSet_Contains(t *testing.T) {
	t.Parallel()
	set, _ := ParseLanguageSet([]string{"en", "pt-BR"})

	if !set.Contains(language.MustParse("pt-BR")) {
		t.Error("expected set to contain pt-BR")
	}
	if set.Contains(language.MustParse("de")) {
		t.Error("expected set not to contain de")
	}
}

func TestLanguageSet_Empty(t *testing.T) {
	t.Parallel()
	var set LanguageSet
	if !set.IsEmpty() {
		t.Error("zero value should be empty")
	}
	if set.Len() != 0 {
		t.Errorf("Len() = %d, want 0", set.Len())
	}
}
