package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tiendas-api/internal/domain/access"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
)

// UncategorizedName nombre del grupo de productos sin categoría.
const UncategorizedName = repository.UncategorizedName

// ReportRepo agrega en memoria lo que el repositorio SQL resuelve con GROUP BY.
type ReportRepo struct{ base }

var _ repository.ReportRepository = (*ReportRepo)(nil)

func (r *ReportRepo) Dashboard(ctx context.Context, s repository.ReportScopes, rg repository.DateRange) (*repository.DashboardMetrics, error) {
	defer r.lock()()
	d := r.db()
	m := &repository.DashboardMetrics{
		SalesRevenue:   decimal.Zero,
		InvoiceRevenue: decimal.Zero,
		OrderRevenue:   decimal.Zero,
	}
	for _, p := range d.products {
		if !s.Products.Matches(access.Record{ShopID: p.ShopID}) {
			continue
		}
		m.Products++
		if p.IsLowStock() {
			m.LowStock++
		}
		if p.IsOutOfStock() {
			m.OutOfStock++
		}
	}
	for _, sale := range filterSales(d, docFilter(s.Sales, rg)) {
		m.Sales++
		m.SalesRevenue = m.SalesRevenue.Add(sale.Total)
	}
	for _, inv := range filterInvoices(d, docFilter(s.Invoices, rg)) {
		m.Invoices++
		if inv.Status == entity.InvoiceStatusPaid {
			m.InvoiceRevenue = m.InvoiceRevenue.Add(inv.Total)
		}
	}
	for _, o := range filterOrders(d, docFilter(s.Orders, rg)) {
		m.Orders++
		if o.CountsAsRevenue() {
			m.OrderRevenue = m.OrderRevenue.Add(o.Total)
		}
	}
	return m, nil
}

func (r *ReportRepo) DailyRevenue(ctx context.Context, s repository.ReportScopes, rg repository.DateRange) ([]repository.DailyPoint, error) {
	defer r.lock()()
	d := r.db()
	byDay := map[time.Time]*repository.DailyPoint{}
	add := func(at time.Time, total decimal.Decimal) {
		day := at.UTC().Truncate(24 * time.Hour)
		p, ok := byDay[day]
		if !ok {
			p = &repository.DailyPoint{Date: day, TotalRevenue: decimal.Zero}
			byDay[day] = p
		}
		p.TotalRevenue = p.TotalRevenue.Add(total)
		p.Count++
	}
	for _, sale := range filterSales(d, docFilter(s.Sales, rg)) {
		add(sale.CreatedAt, sale.Total)
	}
	for _, inv := range filterInvoices(d, docFilter(s.Invoices, rg)) {
		if inv.Status == entity.InvoiceStatusPaid {
			add(inv.CreatedAt, inv.Total)
		}
	}
	for _, o := range filterOrders(d, docFilter(s.Orders, rg)) {
		if o.CountsAsRevenue() {
			add(o.CreatedAt, o.Total)
		}
	}
	out := make([]repository.DailyPoint, 0, len(byDay))
	for _, p := range byDay {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *ReportRepo) TopProducts(ctx context.Context, s repository.ReportScopes, rg repository.DateRange, limit int) ([]repository.TopProduct, error) {
	defer r.lock()()
	d := r.db()
	acc := map[string]*repository.TopProduct{}
	add := func(l entity.LineItem) {
		if l.ProductID == "" {
			return
		}
		t, ok := acc[l.ProductID]
		if !ok {
			name := l.Description
			if p, found := d.products[l.ProductID]; found {
				name = p.Name
			}
			t = &repository.TopProduct{ProductID: l.ProductID, Name: name, Revenue: decimal.Zero}
			acc[l.ProductID] = t
		}
		t.Quantity += l.Quantity
		t.Revenue = t.Revenue.Add(l.Total())
	}
	for _, sale := range filterSales(d, docFilter(s.Sales, rg)) {
		for _, l := range sale.Items {
			add(l)
		}
	}
	paid := docFilter(s.Invoices, rg)
	paid.Status = entity.InvoiceStatusPaid
	for _, inv := range filterInvoices(d, paid) {
		for _, l := range inv.Items {
			add(l)
		}
	}
	out := make([]repository.TopProduct, 0, len(acc))
	for _, t := range acc {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		if c := out[i].Revenue.Cmp(out[j].Revenue); c != 0 {
			return c > 0
		}
		return out[i].ProductID < out[j].ProductID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *ReportRepo) StockValueByCategory(ctx context.Context, products access.Scope) ([]repository.CategoryStockValue, error) {
	defer r.lock()()
	d := r.db()
	acc := map[string]*repository.CategoryStockValue{}
	for _, p := range d.products {
		if !products.Matches(access.Record{ShopID: p.ShopID}) {
			continue
		}
		c, ok := acc[p.CategoryID]
		if !ok {
			name := UncategorizedName
			if cat, found := d.categories[p.CategoryID]; found {
				name = cat.Name
			}
			c = &repository.CategoryStockValue{CategoryID: p.CategoryID, CategoryName: name, CostValue: decimal.Zero, RetailValue: decimal.Zero}
			acc[p.CategoryID] = c
		}
		units := decimal.NewFromInt(int64(p.Stock))
		c.Products++
		c.Units += p.Stock
		c.CostValue = c.CostValue.Add(p.Cost.Mul(units))
		c.RetailValue = c.RetailValue.Add(p.Price.Mul(units))
	}
	out := make([]repository.CategoryStockValue, 0, len(acc))
	for _, c := range acc {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CategoryName != out[j].CategoryName {
			return out[i].CategoryName < out[j].CategoryName
		}
		return out[i].CategoryID < out[j].CategoryID
	})
	return out, nil
}

// StaffTotals cuenta ventas y facturas pagadas creadas por cada staff o seller del alcance.
func (r *ReportRepo) StaffTotals(ctx context.Context, s repository.ReportScopes, rg repository.DateRange) ([]repository.StaffTotals, error) {
	defer r.lock()()
	d := r.db()
	acc := map[string]*repository.StaffTotals{}
	for _, u := range filterUsers(d, s.Users, "") {
		if u.Role != entity.RoleStaff && u.Role != entity.RoleSeller {
			continue
		}
		acc[u.ID] = &repository.StaffTotals{
			UserID:         u.ID,
			Name:           u.Name,
			Email:          u.Email,
			Role:           u.Role,
			SalesTarget:    u.SalesTarget,
			CommissionRate: u.CommissionRate,
			Revenue:        decimal.Zero,
		}
	}
	for _, sale := range filterSales(d, docFilter(s.Sales, rg)) {
		if t, ok := acc[sale.CreatedBy]; ok {
			t.Documents++
			t.Revenue = t.Revenue.Add(sale.Total)
		}
	}
	paid := docFilter(s.Invoices, rg)
	paid.Status = entity.InvoiceStatusPaid
	for _, inv := range filterInvoices(d, paid) {
		if t, ok := acc[inv.CreatedBy]; ok {
			t.Documents++
			t.Revenue = t.Revenue.Add(inv.Total)
		}
	}
	out := make([]repository.StaffTotals, 0, len(acc))
	for _, t := range acc {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Revenue.Cmp(out[j].Revenue); c != 0 {
			return c > 0
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func docFilter(scope access.Scope, rg repository.DateRange) repository.DocumentFilter {
	return repository.DocumentFilter{ScopedFilter: repository.ScopedFilter{Scope: scope}, Range: rg}
}
