package settings_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tiendas-api/internal/application/dto"
	"github.com/jhoicas/Tiendas-api/internal/application/settings"
	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/access"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/infrastructure/memory"
)

func TestSettings_TiendaYGlobales(t *testing.T) {
	ctx := context.Background()
	uc := settings.NewSettingsUseCase(memory.NewStore().Repos().Settings)
	shopID := uuid.NewString()
	seller := access.Identity{UserID: uuid.NewString(), Role: entity.RoleSeller, ShopID: shopID}
	admin := access.Identity{UserID: uuid.NewString(), Role: entity.RoleAdmin}

	_, err := uc.Upsert(ctx, admin, dto.UpsertSettingRequest{Key: "maintenance", Value: json.RawMessage(`false`)})
	require.NoError(t, err)

	out, err := uc.Upsert(ctx, seller, dto.UpsertSettingRequest{Key: "theme", Value: json.RawMessage(`{"color":"red"}`)})
	require.NoError(t, err)
	assert.Equal(t, shopID, out.ShopID)

	_, err = uc.Upsert(ctx, seller, dto.UpsertSettingRequest{Key: "theme", Value: json.RawMessage(`{"color":"blue"}`)})
	require.NoError(t, err)

	own, err := uc.List(ctx, seller, shopID)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.JSONEq(t, `{"color":"blue"}`, string(own[0].Value))

	globals, err := uc.List(ctx, seller, "")
	require.NoError(t, err)
	require.Len(t, globals, 1)
	assert.Equal(t, "maintenance", globals[0].Key)

	_, err = uc.List(ctx, seller, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestSettings_Validaciones(t *testing.T) {
	ctx := context.Background()
	uc := settings.NewSettingsUseCase(memory.NewStore().Repos().Settings)
	seller := access.Identity{UserID: uuid.NewString(), Role: entity.RoleSeller, ShopID: uuid.NewString()}
	customer := access.Identity{UserID: uuid.NewString(), Role: entity.RoleCustomer}

	_, err := uc.Upsert(ctx, seller, dto.UpsertSettingRequest{Key: "x", Value: json.RawMessage(`{nope`)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Upsert(ctx, customer, dto.UpsertSettingRequest{Key: "x", Value: json.RawMessage(`1`)})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	assert.ErrorIs(t, uc.Delete(ctx, seller, "", "missing"), domain.ErrNotFound)
}
