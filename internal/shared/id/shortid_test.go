package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	t.Run("generates ID with specified length", func(t *testing.T) {
		got, err := Generate(8)
		require.NoError(t, err)
		assert.Len(t, got, 8)
	})

	t.Run("non-positive length falls back to default", func(t *testing.T) {
		got, err := Generate(0)
		require.NoError(t, err)
		assert.Len(t, got, DefaultLength)
	})

	t.Run("uses only Base62 characters", func(t *testing.T) {
		got, err := Generate(64)
		require.NoError(t, err)
		for _, c := range got {
			assert.Contains(t, alphabet, string(c))
		}
	})

	t.Run("successive IDs differ", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 100; i++ {
			got := MustGenerate(DefaultLength)
			assert.False(t, seen[got])
			seen[got] = true
		}
	})
}

func TestGenerateWithPrefix(t *testing.T) {
	got, err := GenerateWithPrefix(PrefixDevice, DefaultLength)
	require.NoError(t, err)
	assert.True(t, HasPrefix(got, PrefixDevice))
	assert.Len(t, got, len(PrefixDevice)+1+DefaultLength)

	assert.False(t, HasPrefix("wd_abc", PrefixDevice))
	assert.False(t, HasPrefix("device", PrefixDevice))
}
