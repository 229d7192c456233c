// Package extract reads the inline entity markup of tagged chapter text:
// paragraph numbers, section headings, entity markers and character windows.
package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	paragraphRe = regexp.MustCompile(`^\[([0-9]+(?:\.[0-9]+)*)\]`)
	headingRe   = regexp.MustCompile(`^##+ (.+)`)
	tagStripper = strings.NewReplacer(
		"@", "", "&", "", "$", "", "^", "", "~", "", "!", "", "?", "", "%", "", "🌿", "",
	)
)

// StripTags removes entity marker delimiters from text.
func StripTags(s string) string {
	return tagStripper.Replace(s)
}

// Paragraph returns the paragraph number a line starts with, e.g. "12.3".
func Paragraph(line string) (string, bool) {
	m := paragraphRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Heading returns the text of a markdown section heading (## or deeper).
func Heading(line string) (string, bool) {
	m := headingRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// BackRunes returns the byte offset n characters before pos, clamped to 0.
func BackRunes(s string, pos, n int) int {
	if pos > len(s) {
		pos = len(s)
	}
	for i := 0; i < n && pos > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(s[:pos])
		pos -= size
	}
	return pos
}

// ForwardRunes returns the byte offset n characters after pos, clamped to len(s).
func ForwardRunes(s string, pos, n int) int {
	if pos < 0 {
		pos = 0
	}
	for i := 0; i < n && pos < len(s); i++ {
		_, size := utf8.DecodeRuneInString(s[pos:])
		pos += size
	}
	return pos
}

// Preceding returns up to n characters immediately before pos.
func Preceding(s string, pos, n int) string {
	return s[BackRunes(s, pos, n):pos]
}

// HasHan reports whether s contains at least one Han character.
func HasHan(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

// RuneLen returns the number of characters in s.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}
