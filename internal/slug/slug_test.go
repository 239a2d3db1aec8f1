package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerive(t *testing.T) {
	cases := []struct {
		name  string
		title string
		want  string
	}{
		{"simple", "Learn Go", "learn-go"},
		{"mixed case and digits", "Advanced Go 101", "advanced-go-101"},
		{"punctuation stripped", "Go: The Good, The Bad & The Ugly!", "go-the-good-the-bad-the-ugly"},
		{"whitespace runs", "Go   for \t Backend", "go-for-backend"},
		{"cyrillic preserved", "Основы Программирования", "основы-программирования"},
		{"hyphen runs collapsed", "Go - - Advanced", "go-advanced"},
		{"leading and trailing noise", "  ---Go Basics---  ", "go-basics"},
		{"only special characters", "!!! ???", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Derive(tc.title))
		})
	}
}

func TestDeriveIdempotent(t *testing.T) {
	titles := []string{"Learn Go", "Основы Go", "Go: Deep Dive 2024", "a  b - c"}
	for _, title := range titles {
		once := Derive(title)
		assert.Equal(t, once, Derive(once), title)
	}
}

func TestResolveKeepsSlugWhenTitleUnchanged(t *testing.T) {
	got := Resolve("Learn Go", "Learn Go", "learn-go-original")
	assert.Equal(t, "learn-go-original", got)

	// Trimmed comparison: surrounding whitespace is not a rename.
	got = Resolve("  Learn Go  ", "Learn Go", "learn-go-original")
	assert.Equal(t, "learn-go-original", got)
}

func TestResolveDerivesOnRename(t *testing.T) {
	got := Resolve("Learn Rust", "Learn Go", "learn-go")
	assert.Equal(t, "learn-rust", got)
}

func TestResolveDerivesWithoutExistingSlug(t *testing.T) {
	assert.Equal(t, "learn-go", Resolve("Learn Go", "", ""))
}
