package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	t.Run("emits prefixes of every word", func(t *testing.T) {
		tokens := Tokenize("Raj Kumar")

		assert.Subset(t, tokens, []string{"ra", "raj", "ku", "kum", "kuma", "kumar"})
		assert.Len(t, tokens, 6)
	})

	t.Run("is deterministic", func(t *testing.T) {
		assert.Equal(t, Tokenize("Asha Rao"), Tokenize("Asha Rao"))
	})

	t.Run("lowercases and de-duplicates", func(t *testing.T) {
		assert.Equal(t, []string{"as", "ash", "asha"}, Tokenize("ASHA asha  Asha"))
	})

	t.Run("short words emit only themselves", func(t *testing.T) {
		assert.Equal(t, []string{"a", "jo", "joe"}, Tokenize("Joe A"))
	})

	t.Run("empty input yields no tokens", func(t *testing.T) {
		assert.Empty(t, Tokenize("   "))
	})

	t.Run("counts characters not bytes", func(t *testing.T) {
		assert.Equal(t, []string{"é"}, Tokenize("É"))
		assert.Equal(t, []string{"ré", "rén", "réne"}, Tokenize("Réne"))
	})
}
