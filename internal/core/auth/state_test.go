package auth

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateStateToken(t *testing.T) {
	secret := []byte("0123456789abcdef0123456789abcdef")

	t.Run("produces a hex HMAC-SHA256 digest", func(t *testing.T) {
		token, err := GenerateStateToken(secret)
		require.NoError(t, err)

		assert.Len(t, token, 64)
		_, err = hex.DecodeString(token)
		assert.NoError(t, err)
	})

	t.Run("successive tokens differ", func(t *testing.T) {
		a, err := GenerateStateToken(secret)
		require.NoError(t, err)
		b, err := GenerateStateToken(secret)
		require.NoError(t, err)

		assert.NotEqual(t, a, b)
	})
}
