package postgres

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tiendas-api/internal/domain/access"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de agregación (solo lectura). Cada origen (ventas, facturas,
// pedidos) se agrupa en SQL y los parciales se combinan en Go.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el repositorio de reportes.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// revenueSource origen de ingresos con su condición de "cobrado".
type revenueSource struct {
	table string
	scope access.Scope
	cols  scopeColumns
	paid  string // condición extra; vacío = todo cuenta
}

func sources(s repository.ReportScopes) []revenueSource {
	return []revenueSource{
		{table: "sales", scope: s.Sales, cols: scopeColumns{Shop: "shop_id", CreatedBy: "created_by"}},
		{table: "invoices", scope: s.Invoices, cols: scopeColumns{Shop: "shop_id", CreatedBy: "created_by"}, paid: "status = 'paid'"},
		{table: "orders", scope: s.Orders, cols: scopeColumns{Shop: "shop_id", User: "user_id"}, paid: "status IN ('paid', 'shipped', 'completed')"},
	}
}

func (src revenueSource) where(rg repository.DateRange) where {
	var w where
	w.scope(src.scope, src.cols)
	w.during("created_at", rg)
	return w
}

// Dashboard conteos del alcance e ingresos por origen.
func (r *ReportRepo) Dashboard(ctx context.Context, s repository.ReportScopes, rg repository.DateRange) (*repository.DashboardMetrics, error) {
	m := &repository.DashboardMetrics{}

	var pw where
	pw.scope(s.Products, scopeColumns{Shop: "shop_id"})
	err := r.q.QueryRow(ctx, `
		SELECT count(*),
			count(*) FILTER (WHERE stock > 0 AND stock <= min_stock),
			count(*) FILTER (WHERE stock <= 0)
		FROM products`+pw.sql(), pw.args...,
	).Scan(&m.Products, &m.LowStock, &m.OutOfStock)
	if err != nil {
		return nil, fmt.Errorf("dashboard products: %w", err)
	}

	counts := []*int{&m.Sales, &m.Invoices, &m.Orders}
	revenue := []*decimal.Decimal{&m.SalesRevenue, &m.InvoiceRevenue, &m.OrderRevenue}
	for i, src := range sources(s) {
		w := src.where(rg)
		paid := "TRUE"
		if src.paid != "" {
			paid = src.paid
		}
		err := r.q.QueryRow(ctx, `
			SELECT count(*), COALESCE(SUM(total) FILTER (WHERE `+paid+`), 0)
			FROM `+src.table+w.sql(), w.args...,
		).Scan(counts[i], revenue[i])
		if err != nil {
			return nil, fmt.Errorf("dashboard %s: %w", src.table, err)
		}
	}
	return m, nil
}

// DailyRevenue agrupa por día UTC; ascendente.
func (r *ReportRepo) DailyRevenue(ctx context.Context, s repository.ReportScopes, rg repository.DateRange) ([]repository.DailyPoint, error) {
	byDay := map[time.Time]*repository.DailyPoint{}
	for _, src := range sources(s) {
		w := src.where(rg)
		if src.paid != "" {
			w.raw(src.paid)
		}
		rows, err := r.q.Query(ctx, `
			SELECT date_trunc('day', created_at AT TIME ZONE 'UTC') AS day, SUM(total), count(*)
			FROM `+src.table+w.sql()+`
			GROUP BY 1`, w.args...)
		if err != nil {
			return nil, fmt.Errorf("daily revenue %s: %w", src.table, err)
		}
		for rows.Next() {
			var day time.Time
			var total decimal.Decimal
			var n int
			if err := rows.Scan(&day, &total, &n); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scan daily revenue: %w", err)
			}
			day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
			p, ok := byDay[day]
			if !ok {
				p = &repository.DailyPoint{Date: day, TotalRevenue: decimal.Zero}
				byDay[day] = p
			}
			p.TotalRevenue = p.TotalRevenue.Add(total)
			p.Count += n
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}
	}
	out := make([]repository.DailyPoint, 0, len(byDay))
	for _, p := range byDay {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// TopProducts suma las líneas con producto de ventas y facturas pagadas.
func (r *ReportRepo) TopProducts(ctx context.Context, s repository.ReportScopes, rg repository.DateRange, limit int) ([]repository.TopProduct, error) {
	acc := map[string]*repository.TopProduct{}
	for _, src := range sources(s)[:2] {
		w := src.where(rg)
		if src.paid != "" {
			w.raw(src.paid)
		}
		w.raw("COALESCE(li->>'product_id', '') <> ''")
		rows, err := r.q.Query(ctx, `
			SELECT li->>'product_id',
				MAX(li->>'description'),
				SUM((li->>'quantity')::int),
				SUM((li->>'quantity')::numeric * (li->>'unit_price')::numeric)
			FROM `+src.table+`, jsonb_array_elements(items) AS li`+w.sql()+`
			GROUP BY 1`, w.args...)
		if err != nil {
			return nil, fmt.Errorf("top products %s: %w", src.table, err)
		}
		for rows.Next() {
			var id, desc string
			var qty int
			var rev decimal.Decimal
			if err := rows.Scan(&id, &desc, &qty, &rev); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scan top product: %w", err)
			}
			t, ok := acc[id]
			if !ok {
				t = &repository.TopProduct{ProductID: id, Name: desc, Revenue: decimal.Zero}
				acc[id] = t
			}
			t.Quantity += qty
			t.Revenue = t.Revenue.Add(rev)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}
	}
	if err := r.productNames(ctx, acc); err != nil {
		return nil, err
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

// productNames reemplaza la descripción de la línea por el nombre actual del producto, si existe.
func (r *ReportRepo) productNames(ctx context.Context, acc map[string]*repository.TopProduct) error {
	if len(acc) == 0 {
		return nil
	}
	ids := make([]string, 0, len(acc))
	for id := range acc {
		ids = append(ids, id)
	}
	rows, err := r.q.Query(ctx, `SELECT id::text, name FROM products WHERE id::text = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("top products names: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return fmt.Errorf("scan product name: %w", err)
		}
		if t, ok := acc[id]; ok {
			t.Name = name
		}
	}
	return rows.Err()
}

// StockValueByCategory Σ stock×costo y Σ stock×precio por categoría, ordenado por nombre.
func (r *ReportRepo) StockValueByCategory(ctx context.Context, products access.Scope) ([]repository.CategoryStockValue, error) {
	var w where
	w.scope(products, scopeColumns{Shop: "p.shop_id"})
	w.args = append(w.args, repository.UncategorizedName)
	uncategorized := fmt.Sprintf("$%d", len(w.args))
	rows, err := r.q.Query(ctx, `
		SELECT COALESCE(p.category_id::text, '') AS category_id,
			COALESCE(c.name, `+uncategorized+`) AS category_name,
			count(*),
			COALESCE(SUM(p.stock), 0),
			COALESCE(SUM(p.stock * p.cost), 0),
			COALESCE(SUM(p.stock * p.price), 0)
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id`+w.sql()+`
		GROUP BY 1, 2
		ORDER BY 2, 1`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("stock value by category: %w", err)
	}
	defer rows.Close()
	out := make([]repository.CategoryStockValue, 0)
	for rows.Next() {
		var c repository.CategoryStockValue
		if err := rows.Scan(&c.CategoryID, &c.CategoryName, &c.Products, &c.Units, &c.CostValue, &c.RetailValue); err != nil {
			return nil, fmt.Errorf("scan stock value: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// StaffTotals usuarios staff/seller del alcance con sus ventas y facturas pagadas del rango.
func (r *ReportRepo) StaffTotals(ctx context.Context, s repository.ReportScopes, rg repository.DateRange) ([]repository.StaffTotals, error) {
	var uw where
	uw.scope(s.Users, scopeColumns{Shop: "shop_id", User: "id"})
	uw.add("role = ANY($%d)", []string{entity.RoleStaff, entity.RoleSeller})
	rows, err := r.q.Query(ctx, `
		SELECT id::text, name, email, role, sales_target, commission_rate
		FROM users`+uw.sql(), uw.args...)
	if err != nil {
		return nil, fmt.Errorf("staff users: %w", err)
	}
	acc := map[string]*repository.StaffTotals{}
	for rows.Next() {
		t := &repository.StaffTotals{Revenue: decimal.Zero}
		if err := rows.Scan(&t.UserID, &t.Name, &t.Email, &t.Role, &t.SalesTarget, &t.CommissionRate); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan staff user: %w", err)
		}
		acc[t.UserID] = t
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, src := range sources(s)[:2] {
		w := src.where(rg)
		if src.paid != "" {
			w.raw(src.paid)
		}
		w.raw("created_by IS NOT NULL")
		rows, err := r.q.Query(ctx, `
			SELECT created_by::text, count(*), COALESCE(SUM(total), 0)
			FROM `+src.table+w.sql()+`
			GROUP BY 1`, w.args...)
		if err != nil {
			return nil, fmt.Errorf("staff %s: %w", src.table, err)
		}
		for rows.Next() {
			var id string
			var n int
			var total decimal.Decimal
			if err := rows.Scan(&id, &n, &total); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scan staff totals: %w", err)
			}
			if t, ok := acc[id]; ok {
				t.Documents += n
				t.Revenue = t.Revenue.Add(total)
			}
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
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
