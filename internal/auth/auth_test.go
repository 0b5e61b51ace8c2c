package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassword(t *testing.T) {
	hash, err := HashPassword("12345678")
	require.NoError(t, err)
	assert.NotEqual(t, "12345678", hash)

	assert.True(t, CheckPassword(hash, "12345678"))
	assert.False(t, CheckPassword(hash, "wrong"))
	assert.False(t, CheckPassword("not-a-hash", "12345678"))

	_, err = HashPassword("")
	assert.Error(t, err)
}

func TestPassword_ByteLimit(t *testing.T) {
	// 36 two-byte runes fit exactly, 37 do not.
	_, err := HashPassword(strings.Repeat("س", 36))
	assert.NoError(t, err)

	_, err = HashPassword(strings.Repeat("س", 37))
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	_, err = HashPassword(strings.Repeat("a", MaxPasswordBytes+1))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestNewTokenManager(t *testing.T) {
	_, err := NewTokenManager("", time.Hour)
	assert.ErrorIs(t, err, ErrNoSecret)

	m, err := NewTokenManager("secret", 0)
	require.NoError(t, err)
	assert.Equal(t, 30*24*time.Hour, m.TTL())
}

func TestTokenRoundTrip(t *testing.T) {
	m, err := NewTokenManager("secret", time.Hour)
	require.NoError(t, err)

	tok, err := m.Issue("user-1")
	require.NoError(t, err)

	id, err := m.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)
}

func TestTokenRejected(t *testing.T) {
	m, err := NewTokenManager("secret", time.Hour)
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		past := time.Now().Add(-2 * time.Hour)
		m.now = func() time.Time { return past }
		tok, err := m.Issue("user-1")
		require.NoError(t, err)
		m.now = time.Now

		_, err = m.Parse(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, _ := NewTokenManager("other", time.Hour)
		tok, err := other.Issue("user-1")
		require.NoError(t, err)

		_, err = m.Parse(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unsigned", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "user-1"})
		s, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = m.Parse(s)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Parse("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
