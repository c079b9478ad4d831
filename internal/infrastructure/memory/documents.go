package memory

import (
	"context"
	"time"

	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/access"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
)

// SaleRepo ventas en memoria.
type SaleRepo struct{ base }

var _ repository.SaleRepository = (*SaleRepo)(nil)

func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	defer r.lock()()
	r.db().sales[s.ID] = cloneSale(s)
	return nil
}

func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	defer r.lock()()
	if s, ok := r.db().sales[id]; ok {
		return cloneSale(s), nil
	}
	return nil, nil
}

func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.GetByID(ctx, id)
}

func (r *SaleRepo) Delete(ctx context.Context, id string) error {
	defer r.lock()()
	d := r.db()
	if _, ok := d.sales[id]; !ok {
		return domain.ErrNotFound
	}
	delete(d.sales, id)
	return nil
}

func (r *SaleRepo) List(ctx context.Context, f repository.DocumentFilter) ([]*entity.Sale, int, error) {
	defer r.lock()()
	out := filterSales(r.db(), f)
	total := len(out)
	page := paginate(out, f.Page)
	for i, s := range page {
		page[i] = cloneSale(s)
	}
	return page, total, nil
}

func (r *SaleRepo) ListAll(ctx context.Context, f repository.DocumentFilter) ([]*entity.Sale, error) {
	defer r.lock()()
	out := filterSales(r.db(), f)
	for i, s := range out {
		out[i] = cloneSale(s)
	}
	return out, nil
}

func filterSales(d *dataset, f repository.DocumentFilter) []*entity.Sale {
	var out []*entity.Sale
	for _, s := range d.sales {
		if f.Scope.Matches(access.Record{ShopID: s.ShopID, CreatedBy: s.CreatedBy}) && f.Range.Contains(s.CreatedAt) {
			out = append(out, s)
		}
	}
	newestFirst(out, func(s *entity.Sale) (time.Time, string) { return s.CreatedAt, s.ID })
	return out
}

// InvoiceRepo facturas en memoria.
type InvoiceRepo struct{ base }

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

func (r *InvoiceRepo) Create(ctx context.Context, i *entity.Invoice) error {
	defer r.lock()()
	r.db().invoices[i.ID] = cloneInvoice(i)
	return nil
}

func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	defer r.lock()()
	if i, ok := r.db().invoices[id]; ok {
		return cloneInvoice(i), nil
	}
	return nil, nil
}

func (r *InvoiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.GetByID(ctx, id)
}

func (r *InvoiceRepo) Update(ctx context.Context, i *entity.Invoice) error {
	defer r.lock()()
	d := r.db()
	if _, ok := d.invoices[i.ID]; !ok {
		return domain.ErrNotFound
	}
	d.invoices[i.ID] = cloneInvoice(i)
	return nil
}

func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	defer r.lock()()
	d := r.db()
	if _, ok := d.invoices[id]; !ok {
		return domain.ErrNotFound
	}
	delete(d.invoices, id)
	return nil
}

func (r *InvoiceRepo) List(ctx context.Context, f repository.DocumentFilter) ([]*entity.Invoice, int, error) {
	defer r.lock()()
	out := filterInvoices(r.db(), f)
	total := len(out)
	page := paginate(out, f.Page)
	for i, inv := range page {
		page[i] = cloneInvoice(inv)
	}
	return page, total, nil
}

func (r *InvoiceRepo) ListAll(ctx context.Context, f repository.DocumentFilter) ([]*entity.Invoice, error) {
	defer r.lock()()
	out := filterInvoices(r.db(), f)
	for i, inv := range out {
		out[i] = cloneInvoice(inv)
	}
	return out, nil
}

func filterInvoices(d *dataset, f repository.DocumentFilter) []*entity.Invoice {
	var out []*entity.Invoice
	for _, inv := range d.invoices {
		if !f.Scope.Matches(access.Record{ShopID: inv.ShopID, CreatedBy: inv.CreatedBy}) {
			continue
		}
		if f.Status != "" && inv.Status != f.Status {
			continue
		}
		if f.Range.Contains(inv.CreatedAt) {
			out = append(out, inv)
		}
	}
	newestFirst(out, func(i *entity.Invoice) (time.Time, string) { return i.CreatedAt, i.ID })
	return out
}

// OrderRepo pedidos en memoria.
type OrderRepo struct{ base }

var _ repository.OrderRepository = (*OrderRepo)(nil)

func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	defer r.lock()()
	r.db().orders[o.ID] = cloneOrder(o)
	return nil
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	defer r.lock()()
	if o, ok := r.db().orders[id]; ok {
		return cloneOrder(o), nil
	}
	return nil, nil
}

func (r *OrderRepo) Update(ctx context.Context, o *entity.Order) error {
	defer r.lock()()
	d := r.db()
	if _, ok := d.orders[o.ID]; !ok {
		return domain.ErrNotFound
	}
	d.orders[o.ID] = cloneOrder(o)
	return nil
}

func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	defer r.lock()()
	d := r.db()
	if _, ok := d.orders[id]; !ok {
		return domain.ErrNotFound
	}
	delete(d.orders, id)
	return nil
}

func (r *OrderRepo) List(ctx context.Context, f repository.DocumentFilter) ([]*entity.Order, int, error) {
	defer r.lock()()
	out := filterOrders(r.db(), f)
	total := len(out)
	page := paginate(out, f.Page)
	for i, o := range page {
		page[i] = cloneOrder(o)
	}
	return page, total, nil
}

func (r *OrderRepo) ListAll(ctx context.Context, f repository.DocumentFilter) ([]*entity.Order, error) {
	defer r.lock()()
	out := filterOrders(r.db(), f)
	for i, o := range out {
		out[i] = cloneOrder(o)
	}
	return out, nil
}

func filterOrders(d *dataset, f repository.DocumentFilter) []*entity.Order {
	var out []*entity.Order
	for _, o := range d.orders {
		if !f.Scope.Matches(access.Record{ShopID: o.ShopID, UserID: o.UserID}) {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.Range.Contains(o.CreatedAt) {
			out = append(out, o)
		}
	}
	newestFirst(out, func(o *entity.Order) (time.Time, string) { return o.CreatedAt, o.ID })
	return out
}
