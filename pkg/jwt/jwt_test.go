package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/Tiendas-api/pkg/jwt"
)

const (
	secret        = "access-secret"
	refreshSecret = "refresh-secret"
	issuer        = "tiendas-test"
)

func TestGenerateAndParse_ConShop(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "u-1", "s-1", "seller", issuer, 15)
	require.NoError(t, err)

	userID, shopID, role, err := pkgjwt.Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)
	assert.Equal(t, "s-1", shopID)
	assert.Equal(t, "seller", role)
}

func TestParse_RefreshNoSirveComoAccess(t *testing.T) {
	tok, err := pkgjwt.GenerateRefresh(secret, "u-1", issuer, 60)
	require.NoError(t, err)

	_, _, _, err = pkgjwt.Parse(secret, tok)
	assert.Error(t, err, "un refresh token no debe aceptarse como access token")
}

func TestParseRefresh(t *testing.T) {
	tok, err := pkgjwt.GenerateRefresh(refreshSecret, "u-9", issuer, 60)
	require.NoError(t, err)

	userID, err := pkgjwt.ParseRefresh(refreshSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, "u-9", userID)

	_, err = pkgjwt.ParseRefresh(secret, tok)
	assert.Error(t, err, "el secreto de access no valida refresh tokens")
}

func TestParse_Expirado(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "u-1", "", "customer", issuer, -1)
	require.NoError(t, err)

	_, _, _, err = pkgjwt.Parse(secret, tok)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", "u-1", "", "customer", issuer, 15)
	assert.Error(t, err)
}
