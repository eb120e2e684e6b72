package credential

import (
	"strings"

	"promptstudio-go/internal/constants"
)

// ParseKeys splits raw newline-separated key text into the ordered key pool.
// Lines are trimmed (a trailing \r included), blank lines are dropped,
// duplicates are kept. The result is never nil.
func ParseKeys(raw string) []string {
	keys := make([]string, 0)
	for _, line := range strings.Split(raw, "\n") {
		if k := strings.TrimSpace(line); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// CountKeys returns len(ParseKeys(raw)).
func CountKeys(raw string) int {
	return len(ParseKeys(raw))
}

// Suffix masks a key for logs, keeping only the last few characters.
func Suffix(key string) string {
	r := []rune(key)
	if len(r) <= constants.KeySuffixLength {
		return "…"
	}
	return "…" + string(r[len(r)-constants.KeySuffixLength:])
}
