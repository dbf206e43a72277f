package rewriter

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// maxReplyRunes is the character budget the compose box enforces.
	maxReplyRunes = 100
	// truncateBytes is the byte budget a trimmed reply is cut to before the
	// ellipsis is appended.
	truncateBytes = 97
)

var (
	urlPattern     = regexp.MustCompile(`https?://\S+|www\.\S+`)
	mentionPattern = regexp.MustCompile(`@\w+`)
	hashtagPattern = regexp.MustCompile(`#\S+`)
	// Common emoji and pictograph blocks, plus variation selectors and the
	// zero width joiner that glues emoji sequences together.
	emojiPattern = regexp.MustCompile(`[\x{1F000}-\x{1FAFF}\x{2600}-\x{27BF}\x{2190}-\x{21FF}\x{2B00}-\x{2BFF}\x{FE00}-\x{FE0F}\x{200D}]`)
	spacePattern = regexp.MustCompile(`\s+`)
)

// Clean strips URLs, mentions, hashtags and emoji from generated text and
// collapses the leftover whitespace.
func Clean(s string) string {
	s = urlPattern.ReplaceAllString(s, "")
	s = mentionPattern.ReplaceAllString(s, "")
	s = hashtagPattern.ReplaceAllString(s, "")
	s = emojiPattern.ReplaceAllString(s, "")
	s = spacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Truncate enforces the reply length budget. Text over the rune limit is cut
// at a byte boundary that keeps valid UTF-8, then marked with an ellipsis.
func Truncate(s string) string {
	if utf8.RuneCountInString(s) <= maxReplyRunes {
		return s
	}

	cut := truncateBytes
	if cut > len(s) {
		cut = len(s)
	}
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	// Only trailing whitespace is dropped; a leading compose-box space must
	// survive truncation.
	return strings.TrimRight(s[:cut], " ") + "..."
}
