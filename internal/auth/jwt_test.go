package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gocomet/rider-tracker/internal/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret: "test-secret",
		Expiry: time.Hour,
		Issuer: "rider-tracker",
	}
}

func TestToken_RoundTrip(t *testing.T) {
	cfg := testJWTConfig()

	token, err := GenerateToken(cfg, 7, "rafath")
	require.NoError(t, err)

	claims, err := ParseToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.RiderID)
	assert.Equal(t, "rafath", claims.RiderName)
	assert.Equal(t, "rider-tracker", claims.Issuer)
}

func TestParseToken_WrongSecret(t *testing.T) {
	cfg := testJWTConfig()

	token, err := GenerateToken(cfg, 7, "rafath")
	require.NoError(t, err)

	other := cfg
	other.Secret = "different-secret"
	_, err = ParseToken(other, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := ParseToken(testJWTConfig(), "not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
