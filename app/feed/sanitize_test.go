package feed

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"plain", "Security Now 1000", "Security Now 1000"},
		{"reserved characters", `Episode 1: What? *Really* "yes" <no> a|b`, "Episode 1 What Really yes no ab"},
		{"path separators", `a/b\c`, "abc"},
		{"dots and plus", "v1.2 + more...", "v12  more"},
		{"traversal", "../../etc/passwd", "etcpasswd"},
		{"control characters", "tab\there\x00nul", "tabherenul"},
		{"surrounding whitespace", "  spaced  ", "spaced"},
		{"decomposed accent", "Cafe\u0301", "Caf\u00e9"},
		{"only unsafe", "///...", UntitledFile},
		{"empty", "", UntitledFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.title))
		})
	}
}

func TestSanitizeLongTitle(t *testing.T) {
	name := Sanitize(strings.Repeat("Episode ", 40))

	assert.LessOrEqual(t, len(name), MaxNameBytes)
	assert.True(t, strings.HasPrefix(name, "Episode Episode"))
	assert.Equal(t, strings.TrimSpace(name), name)
	assert.Equal(t, name, Sanitize(strings.Repeat("Episode ", 40)))
}

func TestSanitizeLongTitleKeepsRunesWhole(t *testing.T) {
	// Three bytes per rune, so the cut falls inside a rune
	name := Sanitize(strings.Repeat("日", 100))

	assert.LessOrEqual(t, len(name), MaxNameBytes)
	assert.True(t, utf8.ValidString(name))
	assert.Equal(t, strings.Repeat("日", MaxNameBytes/3), name)
}

func TestSanitizeProperties(t *testing.T) {
	titles := []string{
		"Episode 12: Tips/Tricks",
		`C:\Windows\System32`,
		"日本語のタイトル",
		"....",
		" ",
		"\xff\xfeinvalid utf8",
		strings.Repeat("x", 300),
	}

	for _, title := range titles {
		first := Sanitize(title)
		assert.Equal(t, first, Sanitize(title), "deterministic for %q", title)
		assert.NotEmpty(t, first, "non-empty for %q", title)
		assert.False(t, strings.ContainsAny(first, `/\`), "no path separators for %q: %q", title, first)
		assert.LessOrEqual(t, len(first), MaxNameBytes, "bounded length for %q", title)
	}
}
