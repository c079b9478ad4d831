package repository

import (
	"context"

	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
)

// DocumentFilter filtros comunes de ventas y facturas.
type DocumentFilter struct {
	ScopedFilter
	Status string
	Range  DateRange
}

// SaleRepository define el puerto de persistencia para Sale.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	// GetForUpdate obtiene la venta y bloquea la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Sale, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f DocumentFilter) ([]*entity.Sale, int, error)
	// ListAll todas las ventas del filtro, sin paginar (reportes).
	ListAll(ctx context.Context, f DocumentFilter) ([]*entity.Sale, error)
}

// CounterRepository secuencias atómicas (numeración de ventas).
type CounterRepository interface {
	Next(ctx context.Context, name string) (int64, error)
}
