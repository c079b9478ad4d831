package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
)

// deleteByID borra una fila por id; 0 filas afectadas → ErrNotFound.
func deleteByID(ctx context.Context, q Querier, table, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	cmd, err := q.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func lineItems(v []entity.LineItem) []entity.LineItem {
	if v == nil {
		return []entity.LineItem{}
	}
	return v
}

// ── ventas ────────────────────────────────────────────────────────────────────

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación del puerto SaleRepository. Pasar pool o tx (Querier).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador.
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, sale_number, shop_id, customer_name, customer_email, items, subtotal, tax, total,
	payment_method, notes, COALESCE(created_by::text, ''), created_at, updated_at`

func scanSale(row pgxScanner) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(&s.ID, &s.SaleNumber, &s.ShopID, &s.CustomerName, &s.CustomerEmail, &s.Items, &s.Subtotal,
		&s.Tax, &s.Total, &s.PaymentMethod, &s.Notes, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales (id, sale_number, shop_id, customer_name, customer_email, items, subtotal, tax, total,
			payment_method, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		s.ID, s.SaleNumber, s.ShopID, s.CustomerName, s.CustomerEmail, lineItems(s.Items), s.Subtotal, s.Tax, s.Total,
		s.PaymentMethod, s.Notes, nullable(s.CreatedBy), s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: número de venta repetido", domain.ErrConflict)
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	return r.getOne(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id)
}

// GetForUpdate bloquea la venta: dos borrados concurrentes no devuelven el stock dos veces.
func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.getOne(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1 FOR UPDATE`, id)
}

func (r *SaleRepo) getOne(ctx context.Context, query, id string) (*entity.Sale, error) {
	if !validID(id) {
		return nil, nil
	}
	s, err := scanSale(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return s, nil
}

func (r *SaleRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.q, "sales", id)
}

// List ventas del alcance y rango, más recientes primero.
func (r *SaleRepo) List(ctx context.Context, f repository.DocumentFilter) ([]*entity.Sale, int, error) {
	w := saleWhere(f)
	total, err := count(ctx, r.q, "sales", &w)
	if err != nil {
		return nil, 0, err
	}
	list, err := r.query(ctx, &w, f.Page)
	return list, total, err
}

func (r *SaleRepo) ListAll(ctx context.Context, f repository.DocumentFilter) ([]*entity.Sale, error) {
	w := saleWhere(f)
	return r.query(ctx, &w, repository.Page{})
}

func saleWhere(f repository.DocumentFilter) where {
	var w where
	w.scope(f.Scope, scopeColumns{Shop: "shop_id", CreatedBy: "created_by"})
	w.during("created_at", f.Range)
	return w
}

func (r *SaleRepo) query(ctx context.Context, w *where, page repository.Page) ([]*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales` + w.sql() + ` ORDER BY created_at DESC, id DESC` + w.page(page)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// ── facturas ──────────────────────────────────────────────────────────────────

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación del puerto InvoiceRepository. Pasar pool o tx (Querier).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador.
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, shop_id, customer_name, customer_email, items, subtotal, tax, total, status,
	due_date, paid_at, stock_applied, notes, COALESCE(created_by::text, ''), created_at, updated_at`

func scanInvoice(row pgxScanner) (*entity.Invoice, error) {
	var i entity.Invoice
	err := row.Scan(&i.ID, &i.ShopID, &i.CustomerName, &i.CustomerEmail, &i.Items, &i.Subtotal, &i.Tax, &i.Total,
		&i.Status, &i.DueDate, &i.PaidAt, &i.StockApplied, &i.Notes, &i.CreatedBy, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *InvoiceRepo) Create(ctx context.Context, i *entity.Invoice) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO invoices (id, shop_id, customer_name, customer_email, items, subtotal, tax, total, status,
			due_date, paid_at, stock_applied, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		i.ID, i.ShopID, i.CustomerName, i.CustomerEmail, lineItems(i.Items), i.Subtotal, i.Tax, i.Total, i.Status,
		i.DueDate, i.PaidAt, i.StockApplied, i.Notes, nullable(i.CreatedBy), i.CreatedAt, i.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.getOne(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
}

// GetForUpdate bloquea la factura para serializar cambios de estado concurrentes.
func (r *InvoiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.getOne(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1 FOR UPDATE`, id)
}

func (r *InvoiceRepo) getOne(ctx context.Context, query, id string) (*entity.Invoice, error) {
	if !validID(id) {
		return nil, nil
	}
	i, err := scanInvoice(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return i, nil
}

func (r *InvoiceRepo) Update(ctx context.Context, i *entity.Invoice) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE invoices SET customer_name = $2, customer_email = $3, items = $4, subtotal = $5, tax = $6, total = $7,
			status = $8, due_date = $9, paid_at = $10, stock_applied = $11, notes = $12, updated_at = $13
		WHERE id = $1`,
		i.ID, i.CustomerName, i.CustomerEmail, lineItems(i.Items), i.Subtotal, i.Tax, i.Total,
		i.Status, i.DueDate, i.PaidAt, i.StockApplied, i.Notes, i.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.q, "invoices", id)
}

func (r *InvoiceRepo) List(ctx context.Context, f repository.DocumentFilter) ([]*entity.Invoice, int, error) {
	w := invoiceWhere(f)
	total, err := count(ctx, r.q, "invoices", &w)
	if err != nil {
		return nil, 0, err
	}
	list, err := r.query(ctx, &w, f.Page)
	return list, total, err
}

func (r *InvoiceRepo) ListAll(ctx context.Context, f repository.DocumentFilter) ([]*entity.Invoice, error) {
	w := invoiceWhere(f)
	return r.query(ctx, &w, repository.Page{})
}

func invoiceWhere(f repository.DocumentFilter) where {
	var w where
	w.scope(f.Scope, scopeColumns{Shop: "shop_id", CreatedBy: "created_by"})
	if f.Status != "" {
		w.add("status = $%d", f.Status)
	}
	w.during("created_at", f.Range)
	return w
}

func (r *InvoiceRepo) query(ctx context.Context, w *where, page repository.Page) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices` + w.sql() + ` ORDER BY created_at DESC, id DESC` + w.page(page)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		i, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, i)
	}
	return list, rows.Err()
}

// ── pedidos ───────────────────────────────────────────────────────────────────

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación del puerto OrderRepository.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador.
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `id, user_id, shop_id, items, total, status, shipping_address, created_at, updated_at`

func scanOrder(row pgxScanner) (*entity.Order, error) {
	var o entity.Order
	err := row.Scan(&o.ID, &o.UserID, &o.ShopID, &o.Items, &o.Total, &o.Status, &o.ShippingAddress, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	items := o.Items
	if items == nil {
		items = []entity.OrderItem{}
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO orders (id, user_id, shop_id, items, total, status, shipping_address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		o.ID, o.UserID, o.ShopID, items, o.Total, o.Status, o.ShippingAddress, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isFKViolation(err) {
			return fmt.Errorf("%w: tienda inexistente", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	if !validID(id) {
		return nil, nil
	}
	o, err := scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// Update solo cambia estado y dirección; las líneas son inmutables tras la compra.
func (r *OrderRepo) Update(ctx context.Context, o *entity.Order) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE orders SET status = $2, shipping_address = $3, updated_at = $4 WHERE id = $1`,
		o.ID, o.Status, o.ShippingAddress, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.q, "orders", id)
}

func (r *OrderRepo) List(ctx context.Context, f repository.DocumentFilter) ([]*entity.Order, int, error) {
	w := orderWhere(f)
	total, err := count(ctx, r.q, "orders", &w)
	if err != nil {
		return nil, 0, err
	}
	list, err := r.query(ctx, &w, f.Page)
	return list, total, err
}

func (r *OrderRepo) ListAll(ctx context.Context, f repository.DocumentFilter) ([]*entity.Order, error) {
	w := orderWhere(f)
	return r.query(ctx, &w, repository.Page{})
}

func orderWhere(f repository.DocumentFilter) where {
	var w where
	w.scope(f.Scope, scopeColumns{Shop: "shop_id", User: "user_id"})
	if f.Status != "" {
		w.add("status = $%d", f.Status)
	}
	w.during("created_at", f.Range)
	return w
}

func (r *OrderRepo) query(ctx context.Context, w *where, page repository.Page) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders` + w.sql() + ` ORDER BY created_at DESC, id DESC` + w.page(page)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}
