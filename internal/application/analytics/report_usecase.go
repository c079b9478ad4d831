// Package analytics contiene los casos de uso de reportes: tablero, serie diaria
// de ingresos, análisis de productos y desempeño del equipo.
package analytics

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tiendas-api/internal/application/dto"
	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/access"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
)

const (
	defaultTopProducts = 10
	maxTopProducts     = 50
)

var hundred = decimal.NewFromInt(100)

// ReportUseCase reportes de solo lectura, con el mismo alcance por rol que los listados.
//
// Fuente de datos: ReportRepository (consultas read-only) y ShopRepository para
// el conteo de tiendas pendientes.
type ReportUseCase struct {
	reportRepo repository.ReportRepository
	shopRepo   repository.ShopRepository
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(reportRepo repository.ReportRepository, shopRepo repository.ShopRepository) *ReportUseCase {
	return &ReportUseCase{reportRepo: reportRepo, shopRepo: shopRepo}
}

// Scopes alcance de cada colección para la identidad y la tienda pedida.
func Scopes(id access.Identity, shopID string) repository.ReportScopes {
	return repository.ReportScopes{
		Products: access.For(id, access.ResourceProducts, shopID),
		Sales:    access.For(id, access.ResourceSales, shopID),
		Invoices: access.For(id, access.ResourceInvoices, shopID),
		Orders:   access.For(id, access.ResourceOrders, shopID),
		Users:    access.For(id, access.ResourceUsers, shopID),
	}
}

// Dashboard conteos e ingresos del alcance. shops_pending solo para admin y superadmin.
//
// Dos consultas en paralelo:
//  1. Dashboard(scopes, rango)  → conteos + ingresos por origen
//  2. CountByStatus(pending)    → tiendas por aprobar (solo privilegiados)
func (uc *ReportUseCase) Dashboard(ctx context.Context, id access.Identity, q dto.ReportQuery) (*dto.DashboardResponse, error) {
	r, err := parseRange(q)
	if err != nil {
		return nil, err
	}
	type metricsResult struct {
		m   *repository.DashboardMetrics
		err error
	}
	type pendingResult struct {
		n   int
		err error
	}
	metricsCh := make(chan metricsResult, 1)
	pendingCh := make(chan pendingResult, 1)

	go func() {
		m, err := uc.reportRepo.Dashboard(ctx, Scopes(id, q.ShopID), r)
		metricsCh <- metricsResult{m, err}
	}()
	privileged := entity.IsPrivileged(id.Role)
	go func() {
		if !privileged {
			pendingCh <- pendingResult{}
			return
		}
		n, err := uc.shopRepo.CountByStatus(ctx, entity.ShopStatusPending)
		pendingCh <- pendingResult{n, err}
	}()

	metrics := <-metricsCh
	pending := <-pendingCh
	if metrics.err != nil {
		return nil, fmt.Errorf("dashboard: métricas: %w", metrics.err)
	}
	if pending.err != nil {
		return nil, fmt.Errorf("dashboard: tiendas pendientes: %w", pending.err)
	}

	m := metrics.m
	out := &dto.DashboardResponse{
		OrdersCount:     m.Orders,
		ProductsCount:   m.Products,
		InvoicesCount:   m.Invoices,
		SalesCount:      m.Sales,
		LowStockCount:   m.LowStock,
		OutOfStockCount: m.OutOfStock,
		Revenue: dto.RevenueBreakdown{
			Sales:    m.SalesRevenue,
			Invoices: m.InvoiceRevenue,
			Orders:   m.OrderRevenue,
			Total:    m.SalesRevenue.Add(m.InvoiceRevenue).Add(m.OrderRevenue),
		},
	}
	if privileged {
		n := pending.n
		out.ShopsPending = &n
	}
	return out, nil
}

// Sales serie diaria (UTC) ascendente de ventas, facturas pagadas y pedidos cobrados.
func (uc *ReportUseCase) Sales(ctx context.Context, id access.Identity, q dto.ReportQuery) (*dto.SalesReportResponse, error) {
	r, err := parseRange(q)
	if err != nil {
		return nil, err
	}
	points, err := uc.reportRepo.DailyRevenue(ctx, Scopes(id, q.ShopID), r)
	if err != nil {
		return nil, err
	}
	out := &dto.SalesReportResponse{Series: make([]dto.SalesPoint, 0, len(points)), TotalRevenue: decimal.Zero}
	for _, p := range points {
		out.Series = append(out.Series, dto.SalesPoint{
			Date:         p.Date.UTC().Format("2006-01-02"),
			TotalRevenue: p.TotalRevenue,
			Count:        p.Count,
		})
		out.TotalRevenue = out.TotalRevenue.Add(p.TotalRevenue)
		out.TotalCount += p.Count
	}
	return out, nil
}

// Products productos más vendidos y valor del inventario por categoría.
func (uc *ReportUseCase) Products(ctx context.Context, id access.Identity, q dto.ReportQuery) (*dto.ProductsReportResponse, error) {
	r, err := parseRange(q)
	if err != nil {
		return nil, err
	}
	limit := q.Limit
	if limit <= 0 {
		limit = defaultTopProducts
	}
	if limit > maxTopProducts {
		limit = maxTopProducts
	}
	scopes := Scopes(id, q.ShopID)

	type topResult struct {
		rows []repository.TopProduct
		err  error
	}
	type stockResult struct {
		rows []repository.CategoryStockValue
		err  error
	}
	topCh := make(chan topResult, 1)
	stockCh := make(chan stockResult, 1)
	go func() {
		rows, err := uc.reportRepo.TopProducts(ctx, scopes, r, limit)
		topCh <- topResult{rows, err}
	}()
	go func() {
		rows, err := uc.reportRepo.StockValueByCategory(ctx, scopes.Products)
		stockCh <- stockResult{rows, err}
	}()
	top := <-topCh
	stock := <-stockCh
	if top.err != nil {
		return nil, fmt.Errorf("productos: top: %w", top.err)
	}
	if stock.err != nil {
		return nil, fmt.Errorf("productos: stock por categoría: %w", stock.err)
	}

	out := &dto.ProductsReportResponse{
		TopProducts:     make([]dto.TopProductDTO, 0, len(top.rows)),
		StockByCategory: make([]dto.CategoryStockDTO, 0, len(stock.rows)),
	}
	for _, t := range top.rows {
		out.TopProducts = append(out.TopProducts, dto.TopProductDTO{ProductID: t.ProductID, Name: t.Name, Quantity: t.Quantity, Revenue: t.Revenue})
	}
	for _, c := range stock.rows {
		out.StockByCategory = append(out.StockByCategory, dto.CategoryStockDTO{
			CategoryID:   c.CategoryID,
			CategoryName: c.CategoryName,
			Products:     c.Products,
			Units:        c.Units,
			CostValue:    c.CostValue,
			RetailValue:  c.RetailValue,
		})
	}
	return out, nil
}

// Staff desempeño por usuario: documentos creados, ingresos, comisión y cumplimiento de meta.
func (uc *ReportUseCase) Staff(ctx context.Context, id access.Identity, q dto.ReportQuery) (*dto.StaffReportResponse, error) {
	r, err := parseRange(q)
	if err != nil {
		return nil, err
	}
	rows, err := uc.reportRepo.StaffTotals(ctx, Scopes(id, q.ShopID), r)
	if err != nil {
		return nil, err
	}
	out := &dto.StaffReportResponse{Staff: make([]dto.StaffPerformanceDTO, 0, len(rows))}
	for _, s := range rows {
		out.Staff = append(out.Staff, dto.StaffPerformanceDTO{
			UserID:         s.UserID,
			Name:           s.Name,
			Email:          s.Email,
			Role:           s.Role,
			TotalSales:     s.Documents,
			Revenue:        s.Revenue,
			CommissionRate: s.CommissionRate,
			Commission:     Commission(s.Revenue, s.CommissionRate),
			SalesTarget:    s.SalesTarget,
			Achievement:    Achievement(s.Documents, s.SalesTarget),
		})
	}
	return out, nil
}

// Commission ingresos × tasa / 100, redondeado a centavos.
func Commission(revenue, rate decimal.Decimal) decimal.Decimal {
	return revenue.Mul(rate).Div(hundred).Round(2)
}

// Achievement 100 × documentos / meta; 0 si no hay meta.
func Achievement(documents, target int) decimal.Decimal {
	if target <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(documents)).Mul(hundred).Div(decimal.NewFromInt(int64(target))).Round(2)
}

func parseRange(q dto.ReportQuery) (repository.DateRange, error) {
	from, to, err := dto.ParseDateRange(q.Start, q.End)
	if err != nil {
		return repository.DateRange{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return repository.DateRange{}, fmt.Errorf("%w: end es anterior a start", domain.ErrInvalidInput)
	}
	return repository.DateRange{From: from, To: to}, nil
}
