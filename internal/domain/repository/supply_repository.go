package repository

import (
	"context"

	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
)

// SupplyFilter filtros del listado de suministros.
type SupplyFilter struct {
	ScopedFilter
	ReceivedSince DateRange
}

// SupplyRepository define el puerto de persistencia para Supply.
type SupplyRepository interface {
	Create(ctx context.Context, supply *entity.Supply) error
	GetByID(ctx context.Context, id string) (*entity.Supply, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Supply, error)
	Update(ctx context.Context, supply *entity.Supply) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f SupplyFilter) ([]*entity.Supply, int, error)
}
