package mood

import (
	"regexp"
	"strings"
)

var blockedWords = []string{
	"fuck", "fucking", "shit", "bitch", "bastard", "asshole", "dick", "crap", "damn", "piss", "slut", "whore",
}

var blockedPattern = func() *regexp.Regexp {
	quoted := make([]string, len(blockedWords))
	for i, w := range blockedWords {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}()

// MaskProfanity replaces whole blocked words, in any case, with asterisks of
// the same length. It reports whether anything was masked.
func MaskProfanity(s string) (string, bool) {
	masked := false
	out := blockedPattern.ReplaceAllStringFunc(s, func(w string) string {
		masked = true
		return strings.Repeat("*", len(w))
	})
	return out, masked
}
