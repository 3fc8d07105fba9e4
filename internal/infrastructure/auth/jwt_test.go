package auth

import (
	"testing"
	"time"

	"github.com/glowstudio/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "glow-studio-test",
	})
}

func newTestSubject() Subject {
	return Subject{UserID: uuid.New(), Email: "jane@example.com", Role: "customer"}
}

func TestNewJWTService_RefreshSecretFallback(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "only-secret", Issuer: "x"})
	assert.Equal(t, svc.accessSecret, svc.refreshSecret)
}

func TestJWTService_GenerateTokenPair(t *testing.T) {
	svc := newTestJWTService()
	sub := newTestSubject()

	pair, err := svc.GenerateTokenPair(sub)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), pair.AccessTokenExpiresAt, 5*time.Second)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, sub.UserID.String(), claims.UserID)
	assert.Equal(t, "customer", claims.Role)
	assert.Equal(t, sub.Email, claims.Email)
	assert.NotEmpty(t, claims.ID)

	userID, err := claims.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, sub.UserID, userID)

	refresh, err := svc.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Empty(t, refresh.Role)
	assert.NotEqual(t, claims.ID, refresh.ID)
}

func TestJWTService_ValidateRejects(t *testing.T) {
	svc := newTestJWTService()
	pair, err := svc.GenerateTokenPair(newTestSubject())
	require.NoError(t, err)

	t.Run("refresh token used as access token", func(t *testing.T) {
		_, err := svc.ValidateAccessToken(pair.RefreshToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("access token used as refresh token", func(t *testing.T) {
		_, err := svc.ValidateRefreshToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateAccessToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other issuer", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret:                "test-secret-key-at-least-32-chars",
			Issuer:                "someone-else",
			AccessTokenExpiration: time.Minute,
		})
		foreign, err := other.GenerateTokenPair(newTestSubject())
		require.NoError(t, err)
		_, err = svc.ValidateAccessToken(foreign.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		now := time.Now()
		claims := &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        uuid.NewString(),
				Issuer:    "glow-studio-test",
				ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute)),
				IssuedAt:  jwt.NewNumericDate(now.Add(-time.Hour)),
			},
			UserID:    uuid.NewString(),
			TokenType: TokenTypeAccess,
		}
		token, err := svc.sign(claims, svc.accessSecret)
		require.NoError(t, err)
		_, err = svc.ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("wrong token type claim", func(t *testing.T) {
		claims := &Claims{
			RegisteredClaims: svc.registered(uuid.New(), time.Now(), time.Minute),
			UserID:           uuid.NewString(),
			TokenType:        TokenTypeRefresh,
		}
		token, err := svc.sign(claims, svc.accessSecret)
		require.NoError(t, err)
		_, err = svc.ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrInvalidTokenType)
	})
}

func TestClaims_GetRemainingTTL(t *testing.T) {
	c := &Claims{}
	assert.Equal(t, time.Duration(0), c.GetRemainingTTL())

	c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
	assert.InDelta(t, time.Hour.Seconds(), c.GetRemainingTTL().Seconds(), 5)

	c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	assert.Equal(t, time.Duration(0), c.GetRemainingTTL())
}
