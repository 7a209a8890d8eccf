package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSessionCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code, err := GenerateSessionCode()
		require.NoError(t, err)
		assert.Len(t, code, 8)
		for _, r := range code {
			assert.Contains(t, sessionCodeAlphabet, string(r))
		}
		// No ambiguous characters.
		assert.NotContains(t, code, "0")
		assert.NotContains(t, code, "1")
		assert.False(t, strings.ContainsAny(code, "ILOU"))
		seen[code] = true
	}
	// 200 draws from a 30^8 space colliding would point at broken
	// randomness.
	assert.Len(t, seen, 200)
}

func TestGenerateSeed(t *testing.T) {
	a, err := GenerateSeed()
	require.NoError(t, err)
	b, err := GenerateSeed()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, a, int64(0))
	assert.NotEqual(t, a, b)
}
