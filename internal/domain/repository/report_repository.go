package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tiendas-api/internal/domain/access"
)

// ReportScopes alcance de cada colección que participa en un reporte.
// Se calculan una vez con access.For; el repositorio solo los aplica.
type ReportScopes struct {
	Products access.Scope
	Sales    access.Scope
	Invoices access.Scope
	Orders   access.Scope
	Users    access.Scope
}

// DashboardMetrics conteos e ingresos del tablero.
type DashboardMetrics struct {
	Orders         int
	Products       int
	Invoices       int
	Sales          int
	LowStock       int
	OutOfStock     int
	SalesRevenue   decimal.Decimal // las ventas siempre están liquidadas
	InvoiceRevenue decimal.Decimal // solo facturas pagadas
	OrderRevenue   decimal.Decimal // pedidos pagados, enviados o completados
}

// DailyPoint ingreso agregado de un día calendario UTC.
type DailyPoint struct {
	Date         time.Time
	TotalRevenue decimal.Decimal
	Count        int
}

// TopProduct producto ordenado por unidades vendidas en ventas y facturas.
type TopProduct struct {
	ProductID string
	Name      string
	Quantity  int
	Revenue   decimal.Decimal
}

// UncategorizedName nombre del grupo de productos sin categoría.
const UncategorizedName = "Sin categoría"

// CategoryStockValue valor del inventario agrupado por categoría.
type CategoryStockValue struct {
	CategoryID   string // vacío = sin categoría
	CategoryName string
	Products     int
	Units        int
	CostValue    decimal.Decimal // Σ stock × cost
	RetailValue  decimal.Decimal // Σ stock × price
}

// StaffTotals documentos y facturación de un usuario.
type StaffTotals struct {
	UserID         string
	Name           string
	Email          string
	Role           string
	SalesTarget    int
	CommissionRate decimal.Decimal
	Documents      int
	Revenue        decimal.Decimal
}

// ReportRepository consultas de solo lectura para reportes.
type ReportRepository interface {
	Dashboard(ctx context.Context, s ReportScopes, r DateRange) (*DashboardMetrics, error)
	// DailyRevenue ventas, facturas pagadas y pedidos cobrados por día, ascendente.
	DailyRevenue(ctx context.Context, s ReportScopes, r DateRange) ([]DailyPoint, error)
	TopProducts(ctx context.Context, s ReportScopes, r DateRange, limit int) ([]TopProduct, error)
	StockValueByCategory(ctx context.Context, products access.Scope) ([]CategoryStockValue, error)
	// StaffTotals por usuario staff/seller del alcance: ventas y facturas creadas por cada uno.
	StaffTotals(ctx context.Context, s ReportScopes, r DateRange) ([]StaffTotals, error)
}
