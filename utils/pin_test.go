package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPinDeterministic(t *testing.T) {
	first, err := HashPin("123456")
	require.NoError(t, err)
	second, err := HashPin("123456")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 64) // hex encoded SHA-256
}

func TestHashPinIgnoresSurroundingWhitespace(t *testing.T) {
	plain, err := HashPin("123456")
	require.NoError(t, err)
	padded, err := HashPin("  123456\n")
	require.NoError(t, err)

	assert.Equal(t, plain, padded)
}

func TestHashPinDistinguishesInputs(t *testing.T) {
	a, err := HashPin("123456")
	require.NoError(t, err)
	b, err := HashPin("654321")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestGeneratePinCandidate(t *testing.T) {
	for i := 0; i < 50; i++ {
		pin, err := GeneratePinCandidate()
		require.NoError(t, err)
		assert.Len(t, pin, PinLength)
		for _, c := range pin {
			assert.True(t, c >= '0' && c <= '9', "pin %q contains non-digit %q", pin, c)
		}
	}
}
