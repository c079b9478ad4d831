package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo de una tienda.
// Stock solo cambia a través del ledger de inventario (suministros, ventas, facturas, ajustes).
type Product struct {
	ID            string
	ShopID        string
	Name          string
	Description   string
	SKU           string // opcional
	Barcode       string // se autogenera si no viene
	Price         decimal.Decimal
	Cost          decimal.Decimal
	Stock         int
	MinStock      int
	CategoryID    string
	Images        []string
	IsActive      bool
	RatingAverage decimal.Decimal
	RatingCount   int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsOutOfStock stock agotado. Incluye el stock negativo que deja una venta sin piso.
func (p *Product) IsOutOfStock() bool {
	return p.Stock <= 0
}

// IsLowStock stock positivo pero en o por debajo del mínimo.
func (p *Product) IsLowStock() bool {
	return p.Stock > 0 && p.Stock <= p.MinStock
}
