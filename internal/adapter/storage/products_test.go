package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLikeEscape(t *testing.T) {
	t.Run("PlainTextUntouched", func(t *testing.T) {
		assert.Equal(t, "Dairy", likeEscape("Dairy"))
	})

	t.Run("EscapesWildcards", func(t *testing.T) {
		assert.Equal(t, `50\% off\_today`, likeEscape("50% off_today"))
	})

	t.Run("EscapesBackslash", func(t *testing.T) {
		assert.Equal(t, `a\\b`, likeEscape(`a\b`))
	})
}
