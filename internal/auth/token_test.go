package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	config := Config{Secret: "test-secret", ExpiryHours: 1}

	token, err := GenerateToken(config, "alice@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken("test-secret", token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.UserID)
	assert.Equal(t, "device-trust-agent", claims.Issuer)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	config := Config{Secret: "test-secret"}

	token, err := GenerateToken(config, "alice@example.com")
	require.NoError(t, err)

	_, err = ValidateToken("other-secret", token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenGarbage(t *testing.T) {
	_, err := ValidateToken("test-secret", "not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenExpired(t *testing.T) {
	claims := Claims{
		UserID: "alice@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = ValidateToken("test-secret", signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenWrongAlgorithm(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "alice@example.com"})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ValidateToken("test-secret", signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
