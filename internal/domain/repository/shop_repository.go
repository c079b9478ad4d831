package repository

import (
	"context"

	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
)

// ShopFilter filtros del listado de tiendas.
// VisibleTo, si no está vacío, limita a aprobadas más las del propietario indicado.
type ShopFilter struct {
	Status    string
	VisibleTo string
	Page      Page
}

// ShopRepository define el puerto de persistencia para Shop.
type ShopRepository interface {
	Create(ctx context.Context, shop *entity.Shop) error
	GetByID(ctx context.Context, id string) (*entity.Shop, error)
	Update(ctx context.Context, shop *entity.Shop) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f ShopFilter) ([]*entity.Shop, int, error)
	CountByStatus(ctx context.Context, status string) (int, error)
}
