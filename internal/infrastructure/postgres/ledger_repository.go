package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
)

var _ repository.SupplyRepository = (*SupplyRepo)(nil)

// SupplyRepo implementación del puerto SupplyRepository. Las líneas viven en una columna JSONB.
type SupplyRepo struct {
	q Querier
}

// NewSupplyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSupplyRepository(q Querier) *SupplyRepo {
	return &SupplyRepo{q: q}
}

const supplyColumns = `id, shop_id, supplier_name, items, total_cost, notes, received_at,
	COALESCE(created_by::text, ''), created_at, updated_at`

func scanSupply(row pgxScanner) (*entity.Supply, error) {
	var s entity.Supply
	err := row.Scan(&s.ID, &s.ShopID, &s.SupplierName, &s.Items, &s.TotalCost, &s.Notes, &s.ReceivedAt,
		&s.CreatedBy, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SupplyRepo) Create(ctx context.Context, s *entity.Supply) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO supplies (id, shop_id, supplier_name, items, total_cost, notes, received_at, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		s.ID, s.ShopID, s.SupplierName, supplyItems(s.Items), s.TotalCost, s.Notes, s.ReceivedAt,
		nullable(s.CreatedBy), s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isFKViolation(err) {
			return fmt.Errorf("%w: tienda inexistente", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert supply: %w", err)
	}
	return nil
}

func (r *SupplyRepo) GetByID(ctx context.Context, id string) (*entity.Supply, error) {
	return r.getOne(ctx, `SELECT `+supplyColumns+` FROM supplies WHERE id = $1`, id)
}

// GetForUpdate bloquea el suministro hasta el fin de la transacción; edición y borrado
// revierten sus líneas y no deben solaparse.
func (r *SupplyRepo) GetForUpdate(ctx context.Context, id string) (*entity.Supply, error) {
	return r.getOne(ctx, `SELECT `+supplyColumns+` FROM supplies WHERE id = $1 FOR UPDATE`, id)
}

func (r *SupplyRepo) getOne(ctx context.Context, query, id string) (*entity.Supply, error) {
	if !validID(id) {
		return nil, nil
	}
	s, err := scanSupply(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supply: %w", err)
	}
	return s, nil
}

func (r *SupplyRepo) Update(ctx context.Context, s *entity.Supply) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE supplies SET supplier_name = $2, items = $3, total_cost = $4, notes = $5, received_at = $6, updated_at = $7
		WHERE id = $1`,
		s.ID, s.SupplierName, supplyItems(s.Items), s.TotalCost, s.Notes, s.ReceivedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update supply: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SupplyRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM supplies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete supply: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List suministros del alcance, los recibidos más recientemente primero.
func (r *SupplyRepo) List(ctx context.Context, f repository.SupplyFilter) ([]*entity.Supply, int, error) {
	var w where
	w.scope(f.Scope, scopeColumns{Shop: "shop_id", CreatedBy: "created_by"})
	w.during("received_at", f.ReceivedSince)
	total, err := count(ctx, r.q, "supplies", &w)
	if err != nil {
		return nil, 0, err
	}
	query := `SELECT ` + supplyColumns + ` FROM supplies` + w.sql() + ` ORDER BY received_at DESC, id DESC` + w.page(f.Page)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list supplies: %w", err)
	}
	defer rows.Close()
	var list []*entity.Supply
	for rows.Next() {
		s, err := scanSupply(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan supply: %w", err)
		}
		list = append(list, s)
	}
	return list, total, rows.Err()
}

func supplyItems(v []entity.SupplyItem) []entity.SupplyItem {
	if v == nil {
		return []entity.SupplyItem{}
	}
	return v
}

var _ repository.InventoryTransactionRepository = (*InventoryTransactionRepo)(nil)

// InventoryTransactionRepo ledger append-only: solo INSERT y SELECT.
type InventoryTransactionRepo struct {
	q Querier
}

// NewInventoryTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryTransactionRepository(q Querier) *InventoryTransactionRepo {
	return &InventoryTransactionRepo{q: q}
}

const transactionColumns = `id, shop_id, product_id, type, quantity, previous_stock, new_stock, reference_id, note,
	COALESCE(created_by::text, ''), created_at`

func (r *InventoryTransactionRepo) Create(ctx context.Context, t *entity.InventoryTransaction) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO inventory_transactions (id, shop_id, product_id, type, quantity, previous_stock, new_stock,
			reference_id, note, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		t.ID, t.ShopID, t.ProductID, t.Type, t.Quantity, t.PreviousStock, t.NewStock,
		t.ReferenceID, t.Note, nullable(t.CreatedBy), t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert inventory transaction: %w", err)
	}
	return nil
}

// List movimientos del alcance, más recientes primero.
func (r *InventoryTransactionRepo) List(ctx context.Context, f repository.TransactionFilter) ([]*entity.InventoryTransaction, int, error) {
	var w where
	w.scope(f.Scope, scopeColumns{Shop: "shop_id", CreatedBy: "created_by"})
	if f.ProductID != "" {
		w.eq(f.ProductID, "product_id")
	}
	if f.ReferenceID != "" {
		w.add("reference_id = $%d", f.ReferenceID)
	}
	total, err := count(ctx, r.q, "inventory_transactions", &w)
	if err != nil {
		return nil, 0, err
	}
	query := `SELECT ` + transactionColumns + ` FROM inventory_transactions` + w.sql() +
		` ORDER BY created_at DESC, id DESC` + w.page(f.Page)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list inventory transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryTransaction
	for rows.Next() {
		var t entity.InventoryTransaction
		if err := rows.Scan(&t.ID, &t.ShopID, &t.ProductID, &t.Type, &t.Quantity, &t.PreviousStock, &t.NewStock,
			&t.ReferenceID, &t.Note, &t.CreatedBy, &t.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan inventory transaction: %w", err)
		}
		list = append(list, &t)
	}
	return list, total, rows.Err()
}

var _ repository.CounterRepository = (*CounterRepo)(nil)

// CounterRepo secuencias con nombre. El UPSERT toma el lock de la fila, así que dos
// transacciones concurrentes nunca obtienen el mismo valor.
type CounterRepo struct {
	q Querier
}

// NewCounterRepository construye el adaptador.
func NewCounterRepository(q Querier) *CounterRepo {
	return &CounterRepo{q: q}
}

func (r *CounterRepo) Next(ctx context.Context, name string) (int64, error) {
	var v int64
	err := r.q.QueryRow(ctx, `
		INSERT INTO counters (name, value) VALUES ($1, 1)
		ON CONFLICT (name) DO UPDATE SET value = counters.value + 1
		RETURNING value`, name).Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("next counter %s: %w", name, err)
	}
	return v, nil
}
