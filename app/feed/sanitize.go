package feed

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// UntitledFile is used when nothing of a title survives sanitizing.
const UntitledFile = "untitled"

// MaxNameBytes keeps a sanitized name plus a four-byte extension such as
// ".mp4" within the 255-byte name limit of common filesystems.
const MaxNameBytes = 251

// unsafeFileChars are dropped from titles: path separators, characters
// reserved on Windows and FAT filesystems, and dots so a title can never
// form "." or ".." or inject an extension.
const unsafeFileChars = `\/:.+?*"<>|`

func unsafeFileRune(r rune) bool {
	return unicode.IsControl(r) || strings.ContainsRune(unsafeFileChars, r)
}

// Sanitize turns an item title into a file name component. The result is
// deterministic, never empty and at most MaxNameBytes long.
func Sanitize(title string) string {
	title = strings.ToValidUTF8(title, "")

	t := transform.Chain(norm.NFC, runes.Remove(runes.Predicate(unsafeFileRune)))
	name, _, err := transform.String(t, title)
	if err != nil {
		name = strings.Map(func(r rune) rune {
			if unsafeFileRune(r) {
				return -1
			}
			return r
		}, title)
	}

	name = strings.TrimSpace(truncateBytes(strings.TrimSpace(name), MaxNameBytes))
	if name == "" {
		return UntitledFile
	}
	return name
}

// truncateBytes cuts s to at most n bytes without splitting a rune.
func truncateBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	end := 0
	for i, r := range s {
		if i+utf8.RuneLen(r) > n {
			break
		}
		end = i + utf8.RuneLen(r)
	}
	return s[:end]
}
