package models

import "strings"

const (
	// MaxCustomWords caps the size of a room's custom word list
	MaxCustomWords = 10

	// MaxWordLength caps the length of a single word, in runes
	MaxWordLength = 40

	// MinCustomWords is the smallest normalized custom list a room will
	// actually draw choices from
	MinCustomWords = 3
)

// NormalizeWordList validates a custom word list: entries are trimmed,
// empties dropped, overlong entries cut to MaxWordLength runes, duplicates
// removed case-insensitively keeping the first casing, and the list capped
// at MaxCustomWords entries. A nil result means custom words are disabled.
func NormalizeWordList(words []string) []string {
	if len(words) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(words))
	out := make([]string, 0, len(words))

	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}

		if runes := []rune(w); len(runes) > MaxWordLength {
			w = string(runes[:MaxWordLength])
		}

		key := strings.ToLower(w)
		if seen[key] {
			continue
		}
		seen[key] = true

		out = append(out, w)
		if len(out) == MaxCustomWords {
			break
		}
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
