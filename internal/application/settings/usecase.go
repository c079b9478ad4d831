package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Tiendas-api/internal/application/dto"
	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/access"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
)

// SettingsUseCase ajustes clave/valor por tienda. Sin tienda, el ajuste es global.
type SettingsUseCase struct {
	settingsRepo repository.SettingsRepository
}

// NewSettingsUseCase construye el caso de uso.
func NewSettingsUseCase(settingsRepo repository.SettingsRepository) *SettingsUseCase {
	return &SettingsUseCase{settingsRepo: settingsRepo}
}

// Upsert crea o reemplaza el valor de una clave. Los ajustes globales solo los escriben admin y superadmin;
// vendedor y staff escriben en su tienda.
func (uc *SettingsUseCase) Upsert(ctx context.Context, id access.Identity, in dto.UpsertSettingRequest) (*dto.SettingResponse, error) {
	shopID, err := uc.targetShop(id, in.ShopID)
	if err != nil {
		return nil, err
	}
	if len(in.Value) == 0 || !json.Valid(in.Value) {
		return nil, fmt.Errorf("%w: value debe ser JSON válido", domain.ErrInvalidInput)
	}
	now := time.Now().UTC()
	s := &entity.Setting{
		ID:        uuid.New().String(),
		ShopID:    shopID,
		Key:       in.Key,
		Value:     in.Value,
		UpdatedBy: id.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.settingsRepo.Upsert(ctx, s); err != nil {
		return nil, err
	}
	return toResponse(s), nil
}

// List ajustes de la tienda (o globales si no se indica tienda).
func (uc *SettingsUseCase) List(ctx context.Context, id access.Identity, shopID string) ([]dto.SettingResponse, error) {
	target, err := uc.readableShop(id, shopID)
	if err != nil {
		return nil, err
	}
	list, err := uc.settingsRepo.ListByShop(ctx, target)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SettingResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toResponse(s))
	}
	return out, nil
}

// Delete elimina una clave.
func (uc *SettingsUseCase) Delete(ctx context.Context, id access.Identity, shopID, key string) error {
	target, err := uc.targetShop(id, shopID)
	if err != nil {
		return err
	}
	s, err := uc.settingsRepo.Get(ctx, target, key)
	if err != nil {
		return err
	}
	if s == nil {
		return domain.ErrNotFound
	}
	return uc.settingsRepo.Delete(ctx, target, key)
}

func (uc *SettingsUseCase) targetShop(id access.Identity, requested string) (string, error) {
	if entity.IsPrivileged(id.Role) {
		return requested, nil
	}
	return access.ResolveShopID(id, requested)
}

// readableShop vendedor y staff leen su tienda y los globales; el resto solo lo que su rol permite escribir.
func (uc *SettingsUseCase) readableShop(id access.Identity, requested string) (string, error) {
	if entity.IsPrivileged(id.Role) || requested == "" {
		return requested, nil
	}
	if id.ShopID == "" || requested != id.ShopID {
		return "", domain.ErrForbidden
	}
	return requested, nil
}

func toResponse(s *entity.Setting) *dto.SettingResponse {
	return &dto.SettingResponse{
		ShopID:    s.ShopID,
		Key:       s.Key,
		Value:     s.Value,
		UpdatedBy: s.UpdatedBy,
		UpdatedAt: s.UpdatedAt,
	}
}
