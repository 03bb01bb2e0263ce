package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "super-secret-jwt-token-with-at-least-32-characters"

func TestParse_TokenValido(t *testing.T) {
	tok, err := Generate(testSecret, "user-1", "ops@yuandi.kr", "order_manager", "supabase", 5)
	require.NoError(t, err)

	userID, role, err := Parse(testSecret, "supabase", tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, "order_manager", role)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	tok, err := Generate(testSecret, "user-1", "", "admin", "", 5)
	require.NoError(t, err)

	_, _, err = Parse("otro-secreto-de-al-menos-32-caracteres!!", "", tok)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	tok, err := Generate(testSecret, "user-1", "", "admin", "", -1)
	require.NoError(t, err)

	_, _, err = Parse(testSecret, "", tok)
	assert.Error(t, err)
}

func TestParse_IssuerDistinto(t *testing.T) {
	tok, err := Generate(testSecret, "user-1", "", "admin", "otro", 5)
	require.NoError(t, err)

	_, _, err = Parse(testSecret, "supabase", tok)
	assert.Error(t, err)
}
