package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "secreto-de-prueba"

func TestGenerateYParse(t *testing.T) {
	token, err := Generate(testSecret, "user-123", "stock-ledger", 60)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := Parse(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestParse_SecretIncorrecto(t *testing.T) {
	token, err := Generate(testSecret, "user-123", "stock-ledger", 60)
	require.NoError(t, err)

	_, err = Parse("otro-secreto", token)
	assert.Error(t, err)
}

func TestParse_TokenExpirado(t *testing.T) {
	token, err := Generate(testSecret, "user-123", "stock-ledger", -5)
	require.NoError(t, err)

	_, err = Parse(testSecret, token)
	assert.Error(t, err)
}

func TestParse_TokenBasura(t *testing.T) {
	_, err := Parse(testSecret, "no.es.jwt")
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := Generate("", "user-123", "stock-ledger", 60)
	assert.Error(t, err)
}
