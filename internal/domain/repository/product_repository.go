package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tiendas-api/internal/domain/access"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
)

// ProductFilter filtros del listado de productos.
type ProductFilter struct {
	ScopedFilter
	Query        string // nombre o descripción, sin distinguir mayúsculas
	CategoryID   string
	SKU          string
	Barcode      string
	OnlyApproved bool // solo productos activos de tiendas aprobadas (catálogo público)
}

// ProductRepository define el puerto de persistencia para Product.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate obtiene el producto y bloquea la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	FindBySKU(ctx context.Context, shopID, sku string) (*entity.Product, error)
	FindByBarcode(ctx context.Context, shopID, barcode string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	UpdateStock(ctx context.Context, productID string, stock int) error
	// UpdateCost actualiza solo el costo (promedio ponderado tras un suministro).
	UpdateCost(ctx context.Context, productID string, cost decimal.Decimal) error
	UpdateRating(ctx context.Context, productID string, average decimal.Decimal, count int) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f ProductFilter) ([]*entity.Product, int, error)
	// ListAll todos los productos del alcance, sin paginar (alertas y reportes).
	ListAll(ctx context.Context, scope access.Scope) ([]*entity.Product, error)
}
