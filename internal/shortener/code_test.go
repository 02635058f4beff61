package shortener_test

import (
	"testing"

	"github.com/serroba/shortlink/internal/shortener"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidCode(t *testing.T) {
	valid := []string{"abcd", "ABCD", "1234", "promo24", "aB3xY9zQ", "a1b2c3d4e5f6g7h8i9j0"}
	for _, code := range valid {
		assert.True(t, shortener.ValidCode(shortener.Code(code)), "expected %q to be valid", code)
	}

	invalid := []string{
		"",
		"abc",                   // too short
		"a1b2c3d4e5f6g7h8i9j0x", // too long
		"with-dash",
		"with_underscore",
		"with space",
		"emoji😀abc",
		"semi;colon",
	}
	for _, code := range invalid {
		assert.False(t, shortener.ValidCode(shortener.Code(code)), "expected %q to be invalid", code)
	}
}

func TestNewCodeGenerator(t *testing.T) {
	gen, err := shortener.NewCodeGenerator()
	require.NoError(t, err)

	t.Run("generates valid codes of the configured length", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			code := gen()

			assert.Len(t, string(code), shortener.GeneratedCodeLength)
			assert.True(t, shortener.ValidCode(code))
		}
	})

	t.Run("generates distinct codes", func(t *testing.T) {
		seen := make(map[shortener.Code]bool)
		for i := 0; i < 1000; i++ {
			seen[gen()] = true
		}

		// 62^7 keyspace; 1000 draws colliding would indicate a broken generator.
		assert.Len(t, seen, 1000)
	})
}
