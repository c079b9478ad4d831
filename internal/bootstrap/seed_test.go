package bootstrap_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Tiendas-api/internal/bootstrap"
	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/infrastructure/memory"
)

func TestSeedSuperadmin_Idempotente(t *testing.T) {
	ctx := context.Background()
	st := bootstrap.MemoryStorage(memory.NewStore())

	created, err := bootstrap.SeedSuperadmin(ctx, st.Users, "  Root@Tiendas.Test ", "clave-segura", "Root")
	require.NoError(t, err)
	assert.True(t, created)

	u, err := st.Users.GetByEmail(ctx, "root@tiendas.test")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, entity.RoleSuperadmin, u.Role)
	assert.True(t, u.IsActive)
	assert.Empty(t, u.ShopID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("clave-segura")))

	created, err = bootstrap.SeedSuperadmin(ctx, st.Users, "root@tiendas.test", "otra-clave-9", "Otro")
	require.NoError(t, err)
	assert.False(t, created, "la segunda ejecución no modifica la cuenta")
}

func TestSeedSuperadmin_PasswordCorta(t *testing.T) {
	st := bootstrap.MemoryStorage(memory.NewStore())
	_, err := bootstrap.SeedSuperadmin(context.Background(), st.Users, "root@tiendas.test", "corta", "Root")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}
