package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDanValidateToken(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "rahasia-test")

	token, err := GenerateJWTToken(7, "siswa", "Budi Santoso", "budi@example.com", time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateJWTToken(token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.IDUser)
	assert.Equal(t, "siswa", claims.Role)
	assert.Equal(t, "Budi Santoso", claims.Nama)
	assert.Equal(t, "budi@example.com", claims.Email)
}

func TestValidateTokenKedaluwarsa(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "rahasia-test")

	token, err := GenerateJWTToken(7, "siswa", "Budi", "budi@example.com", time.Now().Add(-time.Minute))
	require.NoError(t, err)

	_, err = ValidateJWTToken(token)
	assert.Error(t, err)
}

func TestValidateTokenSecretBerbeda(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "rahasia-a")
	token, err := GenerateJWTToken(7, "admin", "Ani", "ani@example.com", time.Now().Add(time.Hour))
	require.NoError(t, err)

	t.Setenv("JWT_SECRET_KEY", "rahasia-b")
	_, err = ValidateJWTToken(token)
	assert.Error(t, err)
}

func TestGenerateTokenTanpaSecret(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")
	_, err := GenerateJWTToken(7, "siswa", "Budi", "budi@example.com", time.Now().Add(time.Hour))
	assert.Error(t, err)
}
