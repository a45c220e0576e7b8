package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	require.NoError(t, Init("test-secret"))

	token, err := GenerateToken(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	require.NoError(t, Init("test-secret"))

	_, err := ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestInitRejectsEmptySecret(t *testing.T) {
	assert.Error(t, Init(""))
}
