// AngelaMos | 2026
// security_test.go

package core

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3nha-forte")
	require.NoError(t, err)
	assert.Contains(t, hash, "$argon2id$v=19$m=65536,t=1,p=4$")

	ok, rehash, err := VerifyPassword("s3nha-forte", hash)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, rehash)

	ok, _, err = VerifyPassword("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPasswordUpgradesOldParameters(t *testing.T) {
	old := argonParams{memory: 32 * 1024, time: 1, threads: 2, keyLen: 32}
	salt := []byte("0123456789abcdef")
	encoded := old.encode(salt, old.derive("s3nha-forte", salt))

	ok, rehash, err := VerifyPassword("s3nha-forte", encoded)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NotEmpty(t, rehash)

	h, err := parseArgonHash(rehash)
	require.NoError(t, err)
	assert.Equal(t, currentArgon, h.params)
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	for _, encoded := range []string{
		"",
		"plaintext",
		"$bcrypt$v=19$m=1,t=1,p=1$AA$AA",
		"$argon2id$v=1$m=1,t=1,p=1$AA$AA",
		"$argon2id$v=19$m=x$AA$AA",
	} {
		_, _, err := VerifyPassword("pw", encoded)
		assert.ErrorIs(t, err, errMalformedHash, encoded)
	}
}

func TestBurnPasswordCheckDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() { BurnPasswordCheck("anything") })
}

func TestRefreshTokens(t *testing.T) {
	a, err := NewRefreshToken()
	require.NoError(t, err)
	b, err := NewRefreshToken()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	raw, err := base64.URLEncoding.DecodeString(a)
	require.NoError(t, err)
	assert.Len(t, raw, 32)

	assert.Equal(t, HashToken(a), HashToken(a))
	assert.Len(t, HashToken(a), 64)
	assert.NotEqual(t, HashToken(a), HashToken(b))
}
