package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newt/internal/auth"
)

func TestSignAndVerify(t *testing.T) {
	j := auth.NewJWT("test-secret")

	token, err := j.Sign(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	uid, err := j.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), uid)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := auth.NewJWT("secret-a").Sign(7)
	require.NoError(t, err)

	_, err = auth.NewJWT("secret-b").Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	_, err := auth.NewJWT("secret").Verify("not-a-token")
	assert.Error(t, err)
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := auth.HashPassword("hunter2hunter2")
	require.NoError(t, err)

	assert.True(t, auth.ComparePassword(hash, "hunter2hunter2"))
	assert.False(t, auth.ComparePassword(hash, "wrong"))
}
