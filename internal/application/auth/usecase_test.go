package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tiendas-api/internal/application/auth"
	"github.com/jhoicas/Tiendas-api/internal/application/dto"
	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/infrastructure/memory"
	pkgjwt "github.com/jhoicas/Tiendas-api/pkg/jwt"
)

var jwtCfg = auth.JWTConfig{
	Secret:            "access-secret",
	RefreshSecret:     "refresh-secret",
	ExpMinutes:        15,
	RefreshExpMinutes: 60,
	Issuer:            "tiendas-test",
}

func newUseCase() (*auth.AuthUseCase, memory.Repositories) {
	repos := memory.NewStore().Repos()
	return auth.NewAuthUseCase(repos.Users, jwtCfg), repos
}

func TestRegister_CustomerPorDefecto(t *testing.T) {
	uc, _ := newUseCase()
	out, err := uc.Register(context.Background(), dto.RegisterRequest{Email: " Ana@Test.local ", Password: "secreto123", Name: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, "ana@test.local", out.User.Email)
	assert.Equal(t, entity.RoleCustomer, out.User.Role)
	assert.Equal(t, 15*60, out.Tokens.ExpiresIn)

	userID, shopID, role, err := pkgjwt.Parse(jwtCfg.Secret, out.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, userID)
	assert.Empty(t, shopID)
	assert.Equal(t, entity.RoleCustomer, role)
}

func TestRegister_RolesNoPermitidos(t *testing.T) {
	uc, _ := newUseCase()
	for _, role := range []string{entity.RoleAdmin, entity.RoleSuperadmin, entity.RoleStaff} {
		_, err := uc.Register(context.Background(), dto.RegisterRequest{Email: role + "@test.local", Password: "secreto123", Name: "X", Role: role})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, role)
	}
}

func TestRegister_EmailDuplicado(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()
	_, err := uc.Register(ctx, dto.RegisterRequest{Email: "a@test.local", Password: "secreto123", Name: "A", Role: entity.RoleSeller})
	require.NoError(t, err)
	_, err = uc.Register(ctx, dto.RegisterRequest{Email: "A@test.local", Password: "otro12345", Name: "B"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestLogin(t *testing.T) {
	uc, repos := newUseCase()
	ctx := context.Background()
	reg, err := uc.Register(ctx, dto.RegisterRequest{Email: "a@test.local", Password: "secreto123", Name: "A"})
	require.NoError(t, err)

	out, err := uc.Login(ctx, dto.LoginRequest{Email: "A@test.local", Password: "secreto123"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, out.User.ID)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "a@test.local", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@test.local", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	u, _ := repos.Users.GetByID(ctx, reg.User.ID)
	u.IsActive = false
	require.NoError(t, repos.Users.Update(ctx, u))
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "a@test.local", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrInactiveAccount)
}

func TestRefresh_ReleeElUsuario(t *testing.T) {
	uc, repos := newUseCase()
	ctx := context.Background()
	reg, err := uc.Register(ctx, dto.RegisterRequest{Email: "s@test.local", Password: "secreto123", Name: "S", Role: entity.RoleSeller})
	require.NoError(t, err)

	u, _ := repos.Users.GetByID(ctx, reg.User.ID)
	u.ShopID = "shop-1"
	require.NoError(t, repos.Users.Update(ctx, u))

	out, err := uc.Refresh(ctx, reg.Tokens.RefreshToken)
	require.NoError(t, err)
	_, shopID, _, err := pkgjwt.Parse(jwtCfg.Secret, out.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "shop-1", shopID, "el nuevo token incluye la tienda asignada")

	_, err = uc.Refresh(ctx, reg.Tokens.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "un access token no sirve para refrescar")
}
