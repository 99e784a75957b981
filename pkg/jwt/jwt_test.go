package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-sync/pkg/jwt"
)

func TestGenerateParse_RoundTrip(t *testing.T) {
	token, err := jwt.Generate("secreto", "loja", "operator", "stock-sync", 5)
	require.NoError(t, err)

	username, role, err := jwt.Parse("secreto", token)
	require.NoError(t, err)
	assert.Equal(t, "loja", username)
	assert.Equal(t, "operator", role)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, err := jwt.Generate("secreto", "loja", "operator", "stock-sync", 5)
	require.NoError(t, err)

	_, _, err = jwt.Parse("otro", token)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	token, err := jwt.Generate("secreto", "loja", "operator", "stock-sync", -1)
	require.NoError(t, err)

	_, _, err = jwt.Parse("secreto", token)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := jwt.Generate("", "loja", "operator", "stock-sync", 5)
	assert.Error(t, err)
}
