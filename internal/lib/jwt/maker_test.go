package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/invoicer/internal/models"
)

func TestJWTMaker_GenerateAndParseToken(t *testing.T) {
	maker := NewJWTMaker("test_secret_key_1234567890", 15*time.Minute)

	tests := []struct {
		name   string
		userID string
		email  string
		role   string
	}{
		{name: "admin user", userID: "u-1", email: "admin@example.com", role: "ADMIN"},
		{name: "regular user", userID: "u-2", email: "alice@example.com", role: "USER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := maker.GenerateToken(tt.userID, tt.email, tt.role)
			require.NoError(t, err)
			assert.NotEmpty(t, token)

			claims, err := maker.ParseToken(token)
			require.NoError(t, err)

			assert.Equal(t, tt.userID, claims.UserID)
			assert.Equal(t, tt.userID, claims.Subject)
			assert.Equal(t, tt.email, claims.Email)
			assert.Equal(t, tt.role, claims.Role)
			assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt.Time, time.Second)
		})
	}
}

func TestJWTMaker_ParseToken_Invalid(t *testing.T) {
	secret := "test_secret_key_1234567890"
	maker := NewJWTMaker(secret, 15*time.Minute)

	valid, err := maker.GenerateToken("u-1", "alice@example.com", "USER")
	require.NoError(t, err)

	other, err := NewJWTMaker("wrong_secret_key", 15*time.Minute).GenerateToken("u-1", "alice@example.com", "USER")
	require.NoError(t, err)

	expired, err := NewJWTMaker(secret, -time.Hour).GenerateToken("u-1", "alice@example.com", "USER")
	require.NoError(t, err)

	noneSigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, CustomClaims{UserID: "u-1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "empty token", token: "", wantErr: models.ErrTokenMalformed},
		{name: "garbage", token: "invalid.token.here", wantErr: models.ErrTokenMalformed},
		{name: "wrong secret", token: other, wantErr: models.ErrTokenMalformed},
		{name: "tampered", token: valid + "x", wantErr: models.ErrTokenMalformed},
		{name: "alg none", token: noneSigned, wantErr: models.ErrTokenMalformed},
		{name: "expired", token: expired, wantErr: models.ErrTokenExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := maker.ParseToken(tt.token)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, claims)
		})
	}
}

func TestJWTMaker_TokenExpiresAfterTTL(t *testing.T) {
	maker := NewJWTMaker("test_secret_key", time.Hour)
	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	maker.now = func() time.Time { return issued }

	token, err := maker.GenerateToken("u-1", "alice@example.com", "USER")
	require.NoError(t, err)

	maker.now = func() time.Time { return issued.Add(59 * time.Minute) }
	claims, err := maker.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)

	maker.now = func() time.Time { return issued.Add(61 * time.Minute) }
	_, err = maker.ParseToken(token)
	assert.ErrorIs(t, err, models.ErrTokenExpired)
}

func TestNewJWTMaker_Defaults(t *testing.T) {
	maker := NewJWTMaker("", 0)
	assert.Equal(t, DevelopmentSecret, maker.secretKey)
	assert.Equal(t, DefaultTTL, maker.TTL())
}
