package domain

import (
	"sort"
	"strings"
)

const minTokenLength = 2

// Tokenize derives lowercase search tokens from free text. Each whitespace
// separated word yields itself plus every prefix of at least two characters;
// shorter words yield only themselves. The result is sorted and de-duplicated.
func Tokenize(text string) []string {
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return nil
	}

	seen := make(map[string]struct{})
	for _, word := range words {
		runes := []rune(word)
		if len(runes) < minTokenLength {
			seen[word] = struct{}{}
			continue
		}
		for i := minTokenLength; i <= len(runes); i++ {
			seen[string(runes[:i])] = struct{}{}
		}
	}

	tokens := make([]string, 0, len(seen))
	for token := range seen {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	return tokens
}
