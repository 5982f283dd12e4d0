package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(accessExpire time.Duration) *Manager {
	return NewManager(&Config{
		Secret:            "test-secret",
		AccessExpireTime:  accessExpire,
		RefreshExpireTime: 24 * time.Hour,
		Issuer:            "villa-booking",
	})
}

func TestGenerateAndParse(t *testing.T) {
	m := newTestManager(time.Hour)

	t.Run("令牌携带租户声明", func(t *testing.T) {
		pair, err := m.GenerateTokenPair(1, 42, UserTypeUser)
		require.NoError(t, err)
		require.NotEmpty(t, pair.AccessToken)

		claims, err := m.ParseToken(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, int64(1), claims.UserID)
		assert.Equal(t, int64(42), claims.TenantID)
		assert.Equal(t, UserTypeUser, claims.UserType)
		assert.Equal(t, "villa-booking", claims.Issuer)
	})

	t.Run("错误密钥解析失败", func(t *testing.T) {
		pair, err := m.GenerateTokenPair(1, 42, UserTypeUser)
		require.NoError(t, err)

		other := NewManager(&Config{Secret: "wrong", AccessExpireTime: time.Hour, RefreshExpireTime: time.Hour, Issuer: "villa-booking"})
		_, err = other.ParseToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("格式错误的令牌", func(t *testing.T) {
		_, err := m.ParseToken("not-a-token")
		assert.ErrorIs(t, err, ErrTokenMalformed)
	})
}

func TestExpiredToken(t *testing.T) {
	m := newTestManager(-time.Hour)

	pair, err := m.GenerateTokenPair(1, 42, UserTypeUser)
	require.NoError(t, err)

	_, err = m.ParseToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestRefreshToken(t *testing.T) {
	m := newTestManager(time.Hour)

	pair, err := m.GenerateTokenPair(7, 3, UserTypeAdmin)
	require.NoError(t, err)

	newPair, err := m.RefreshToken(pair.RefreshToken)
	require.NoError(t, err)

	claims, err := m.ParseToken(newPair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, int64(3), claims.TenantID)
	assert.Equal(t, UserTypeAdmin, claims.UserType)
}
