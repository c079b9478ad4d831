package memory

import (
	"context"
	"time"

	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/access"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
)

// SupplyRepo suministros en memoria.
type SupplyRepo struct{ base }

var _ repository.SupplyRepository = (*SupplyRepo)(nil)

func (r *SupplyRepo) Create(ctx context.Context, s *entity.Supply) error {
	defer r.lock()()
	r.db().supplies[s.ID] = cloneSupply(s)
	return nil
}

func (r *SupplyRepo) GetByID(ctx context.Context, id string) (*entity.Supply, error) {
	defer r.lock()()
	if s, ok := r.db().supplies[id]; ok {
		return cloneSupply(s), nil
	}
	return nil, nil
}

func (r *SupplyRepo) GetForUpdate(ctx context.Context, id string) (*entity.Supply, error) {
	return r.GetByID(ctx, id)
}

func (r *SupplyRepo) Update(ctx context.Context, s *entity.Supply) error {
	defer r.lock()()
	d := r.db()
	if _, ok := d.supplies[s.ID]; !ok {
		return domain.ErrNotFound
	}
	d.supplies[s.ID] = cloneSupply(s)
	return nil
}

func (r *SupplyRepo) Delete(ctx context.Context, id string) error {
	defer r.lock()()
	d := r.db()
	if _, ok := d.supplies[id]; !ok {
		return domain.ErrNotFound
	}
	delete(d.supplies, id)
	return nil
}

func (r *SupplyRepo) List(ctx context.Context, f repository.SupplyFilter) ([]*entity.Supply, int, error) {
	defer r.lock()()
	var out []*entity.Supply
	for _, s := range r.db().supplies {
		if !f.Scope.Matches(access.Record{ShopID: s.ShopID, CreatedBy: s.CreatedBy}) {
			continue
		}
		if !f.ReceivedSince.Contains(s.ReceivedAt) {
			continue
		}
		out = append(out, s)
	}
	newestFirst(out, func(s *entity.Supply) (time.Time, string) { return s.ReceivedAt, s.ID })
	total := len(out)
	page := paginate(out, f.Page)
	for i, s := range page {
		page[i] = cloneSupply(s)
	}
	return page, total, nil
}

// InventoryTransactionRepo ledger en memoria; solo admite altas.
type InventoryTransactionRepo struct{ base }

var _ repository.InventoryTransactionRepository = (*InventoryTransactionRepo)(nil)

func (r *InventoryTransactionRepo) Create(ctx context.Context, tx *entity.InventoryTransaction) error {
	defer r.lock()()
	r.db().transactions[tx.ID] = shallow(tx)
	return nil
}

func (r *InventoryTransactionRepo) List(ctx context.Context, f repository.TransactionFilter) ([]*entity.InventoryTransaction, int, error) {
	defer r.lock()()
	var out []*entity.InventoryTransaction
	for _, t := range r.db().transactions {
		if !f.Scope.Matches(access.Record{ShopID: t.ShopID, CreatedBy: t.CreatedBy}) {
			continue
		}
		if f.ProductID != "" && t.ProductID != f.ProductID {
			continue
		}
		if f.ReferenceID != "" && t.ReferenceID != f.ReferenceID {
			continue
		}
		out = append(out, t)
	}
	newestFirst(out, func(t *entity.InventoryTransaction) (time.Time, string) { return t.CreatedAt, t.ID })
	total := len(out)
	page := paginate(out, f.Page)
	for i, t := range page {
		page[i] = shallow(t)
	}
	return page, total, nil
}

// CounterRepo secuencias con nombre.
type CounterRepo struct{ base }

var _ repository.CounterRepository = (*CounterRepo)(nil)

func (r *CounterRepo) Next(ctx context.Context, name string) (int64, error) {
	defer r.lock()()
	d := r.db()
	d.counters[name]++
	return d.counters[name], nil
}
