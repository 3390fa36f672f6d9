package auth_test

import (
	"testing"

	"dagitim-backend/internal/auth"
	"dagitim-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-en-az-otuz-iki-karakter!"

func TestGenerateTokenRoundTrip(t *testing.T) {
	vendorID := uint(7)
	user := &models.User{
		ID:       42,
		Email:    "admin@dagitim.com",
		Role:     models.RoleVendorAdmin,
		VendorID: &vendorID,
	}

	tokenStr, err := auth.GenerateToken(testSecret, user)
	require.NoError(t, err)
	require.NotEmpty(t, tokenStr)

	claims := &auth.JWTCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "admin@dagitim.com", claims.Email)
	assert.Equal(t, models.RoleVendorAdmin, claims.Role)
	require.NotNil(t, claims.VendorID)
	assert.Equal(t, uint(7), *claims.VendorID)
	assert.NotNil(t, claims.ExpiresAt)
}

func TestGenerateTokenWrongSecret(t *testing.T) {
	user := &models.User{ID: 1, Email: "super@dagitim.com", Role: models.RoleSuperAdmin}

	tokenStr, err := auth.GenerateToken(testSecret, user)
	require.NoError(t, err)

	claims := &auth.JWTCustomClaims{}
	_, err = jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte("yanlis-secret-ama-yeterince-uzun-123"), nil
	})
	assert.Error(t, err)
}
