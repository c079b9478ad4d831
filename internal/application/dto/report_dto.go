package dto

import "github.com/shopspring/decimal"

// ReportQuery rango y tienda opcionales.
type ReportQuery struct {
	ShopID string `query:"shop_id"`
	Start  string `query:"start"`
	End    string `query:"end"`
	Limit  int    `query:"limit"`
}

// RevenueBreakdown ingresos por origen.
type RevenueBreakdown struct {
	Sales    decimal.Decimal `json:"sales"`
	Invoices decimal.Decimal `json:"invoices"`
	Orders   decimal.Decimal `json:"orders"`
	Total    decimal.Decimal `json:"total"`
}

// DashboardResponse métricas del tablero.
type DashboardResponse struct {
	OrdersCount     int              `json:"orders_count"`
	ProductsCount   int              `json:"products_count"`
	InvoicesCount   int              `json:"invoices_count"`
	SalesCount      int              `json:"sales_count"`
	ShopsPending    *int             `json:"shops_pending,omitempty"`
	LowStockCount   int              `json:"low_stock_count"`
	OutOfStockCount int              `json:"out_of_stock_count"`
	Revenue         RevenueBreakdown `json:"revenue"`
}

// SalesPoint punto de la serie diaria.
type SalesPoint struct {
	Date         string          `json:"date"` // YYYY-MM-DD (UTC)
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	Count        int             `json:"count"`
}

// SalesReportResponse serie diaria ascendente.
type SalesReportResponse struct {
	Series       []SalesPoint    `json:"series"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalCount   int             `json:"total_count"`
}

// TopProductDTO producto más vendido.
type TopProductDTO struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// CategoryStockDTO valor de inventario por categoría.
type CategoryStockDTO struct {
	CategoryID   string          `json:"category_id,omitempty"`
	CategoryName string          `json:"category_name"`
	Products     int             `json:"products"`
	Units        int             `json:"units"`
	CostValue    decimal.Decimal `json:"cost_value"`
	RetailValue  decimal.Decimal `json:"retail_value"`
}

// ProductsReportResponse análisis de productos.
type ProductsReportResponse struct {
	TopProducts     []TopProductDTO    `json:"top_products"`
	StockByCategory []CategoryStockDTO `json:"stock_by_category"`
}

// StaffPerformanceDTO desempeño de un usuario.
type StaffPerformanceDTO struct {
	UserID         string          `json:"user_id"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Role           string          `json:"role"`
	TotalSales     int             `json:"total_sales"`
	Revenue        decimal.Decimal `json:"revenue"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
	Commission     decimal.Decimal `json:"commission"`
	SalesTarget    int             `json:"sales_target"`
	Achievement    decimal.Decimal `json:"achievement"` // porcentaje de la meta
}

// StaffReportResponse desempeño del equipo.
type StaffReportResponse struct {
	Staff []StaffPerformanceDTO `json:"staff"`
}
