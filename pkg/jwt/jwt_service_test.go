package jwt

import (
	"testing"
	"time"

	"foodgram/domain"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	svc := NewJWTServiceWithSecret("secret")

	token, err := svc.GenerateTokenUser("abc")
	require.NoError(t, err)

	userID, err := svc.GetUserIDByToken(token)
	require.NoError(t, err)
	assert.Equal(t, "abc", userID)
}

func TestGetUserIDByTokenRejectsForeignSecret(t *testing.T) {
	token, err := NewJWTServiceWithSecret("one").GenerateTokenUser("abc")
	require.NoError(t, err)

	_, err = NewJWTServiceWithSecret("two").GetUserIDByToken(token)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestGetUserIDByTokenExpired(t *testing.T) {
	claims := jwtUserClaim{
		"abc",
		jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewJWTServiceWithSecret("secret").GetUserIDByToken(token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestNewJWTServiceRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	svc, err := NewJWTService()
	assert.Nil(t, svc)
	assert.ErrorIs(t, err, ErrSecretMissing)
	assert.ErrorIs(t, err, domain.KindConfiguration)

	t.Setenv("JWT_SECRET", "from-env")
	svc, err = NewJWTService()
	require.NoError(t, err)
	token, err := svc.GenerateTokenUser("abc")
	require.NoError(t, err)
	userID, err := NewJWTServiceWithSecret("from-env").GetUserIDByToken(token)
	require.NoError(t, err)
	assert.Equal(t, "abc", userID)
}

func TestEmptySecretRejectsForgedToken(t *testing.T) {
	claims := jwtUserClaim{
		"00000000-0000-0000-0000-0000000000aa",
		jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(""))
	require.NoError(t, err)

	svc := NewJWTServiceWithSecret("")
	_, err = svc.GetUserIDByToken(forged)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	_, err = svc.GenerateTokenUser("abc")
	assert.ErrorIs(t, err, ErrSecretMissing)
}
