// Package prize classifies outcome keys as winning or losing. Every
// component that needs winner status goes through this package instead of
// trusting a remotely supplied flag.
package prize

import (
	"regexp"
	"strings"
)

// losingPatterns matches the backend's no-prize keys: TRY_AGAIN, BETTER_LUCK
// and NO_WIN with an optional numeric suffix, plus the space-separated
// "TRY AGAIN" variant.
var losingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^TRY_AGAIN(_\d+)?$`),
	regexp.MustCompile(`^BETTER_LUCK(_\d+)?$`),
	regexp.MustCompile(`^NO_WIN(_\d+)?$`),
	regexp.MustCompile(`^TRY AGAIN( \d+)?$`),
}

// IsWinningKey reports whether an outcome key is a prize. Matching is
// case-insensitive and ignores surrounding whitespace.
func IsWinningKey(key string) bool {
	normalized := strings.ToUpper(strings.TrimSpace(key))
	for _, pattern := range losingPatterns {
		if pattern.MatchString(normalized) {
			return false
		}
	}
	return true
}
