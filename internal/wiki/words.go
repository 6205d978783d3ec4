package wiki

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
)

// CleanWord strips punctuation surrounding a clicked word so that
// "word," navigates to the topic "word". Interior punctuation (as in
// "mother-of-pearl") is kept.
func CleanWord(raw string) string {
	return strings.TrimFunc(raw, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.IsSpace(r)
	})
}

// SameTopic reports whether a cleaned word already names the current
// topic, comparing case-insensitively. Lookups for the current topic
// are no-ops.
func SameTopic(word, topic string) bool {
	return strings.EqualFold(strings.TrimSpace(word), strings.TrimSpace(topic))
}

// Tokenize splits displayed text into clickable word tokens.
func Tokenize(text string) []string {
	return strings.Fields(text)
}

// FallbackArt draws a plain bordered box around the topic, used when
// art generation fails.
func FallbackArt(topic string) string {
	width := runewidth.StringWidth(topic) + 4
	bar := "+" + strings.Repeat("-", width-2) + "+"

	var sb strings.Builder
	sb.WriteString(bar)
	sb.WriteString("\n| ")
	sb.WriteString(topic)
	sb.WriteString(" |\n")
	sb.WriteString(bar)
	return sb.String()
}
