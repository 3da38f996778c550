package classify

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)
	urlPattern     = regexp.MustCompile(`https?://[^\s<>"]+`)
	spacePattern   = regexp.MustCompile(`\s+`)
)

// Clean strips HTML tags, URLs, and non-word/non-space characters from text.
// Both the quality filter and the sentiment scorer run on cleaned text so
// their results stay comparable.
func Clean(text string) string {
	text = htmlTagPattern.ReplaceAllString(text, " ")
	text = urlPattern.ReplaceAllString(text, " ")

	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			sb.WriteRune(r)
		} else {
			sb.WriteRune(' ')
		}
	}

	return strings.TrimSpace(spacePattern.ReplaceAllString(sb.String(), " "))
}

// emoji blocks checked by the quality filter. Coverage is the common
// pictographic planes, not every emoji-capable code point.
var emojiRanges = []struct{ lo, hi rune }{
	{0x1F300, 0x1F5FF}, // symbols & pictographs
	{0x1F600, 0x1F64F}, // emoticons
	{0x1F680, 0x1F6FF}, // transport & map
	{0x1F900, 0x1F9FF}, // supplemental symbols
	{0x1FA70, 0x1FAFF}, // extended-A
	{0x2600, 0x26FF},   // miscellaneous symbols
	{0x2700, 0x27BF},   // dingbats
}

// CountEmoji returns the number of emoji-class code points in text.
func CountEmoji(text string) int {
	n := 0
	for _, r := range text {
		for _, rng := range emojiRanges {
			if r >= rng.lo && r <= rng.hi {
				n++
				break
			}
		}
	}
	return n
}

// isHan reports whether a rune belongs to the CJK Unified Ideographs block.
func isHan(r rune) bool {
	return unicode.Is(unicode.Han, r)
}
