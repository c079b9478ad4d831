package repository

import (
	"context"

	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
)

// SettingsRepository define el puerto de persistencia para Setting (único por tienda y clave).
type SettingsRepository interface {
	Upsert(ctx context.Context, s *entity.Setting) error
	Get(ctx context.Context, shopID, key string) (*entity.Setting, error)
	ListByShop(ctx context.Context, shopID string) ([]*entity.Setting, error)
	Delete(ctx context.Context, shopID, key string) error
}
