package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/access"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
)

// UserRepo usuarios en memoria. El email es único sin distinguir mayúsculas.
type UserRepo struct{ base }

var _ repository.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	defer r.lock()()
	d := r.db()
	for _, other := range d.users {
		if strings.EqualFold(other.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	d.users[u.ID] = cloneUser(u)
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	defer r.lock()()
	if u, ok := r.db().users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	defer r.lock()()
	for _, u := range r.db().users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	defer r.lock()()
	d := r.db()
	if _, ok := d.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	for _, other := range d.users {
		if other.ID != u.ID && strings.EqualFold(other.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	d.users[u.ID] = cloneUser(u)
	return nil
}

// Delete falla con ErrConflict si el usuario es dueño de alguna tienda.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	defer r.lock()()
	d := r.db()
	if _, ok := d.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	for _, s := range d.shops {
		if s.OwnerID == id {
			return fmt.Errorf("%w: el usuario es propietario de la tienda %s", domain.ErrConflict, s.ID)
		}
	}
	delete(d.users, id)
	return nil
}

func (r *UserRepo) List(ctx context.Context, f repository.UserFilter) ([]*entity.User, int, error) {
	defer r.lock()()
	out := filterUsers(r.db(), f.Scope, f.Role)
	newestFirst(out, func(u *entity.User) (time.Time, string) { return u.CreatedAt, u.ID })
	total := len(out)
	page := paginate(out, f.Page)
	for i, u := range page {
		page[i] = cloneUser(u)
	}
	return page, total, nil
}

func filterUsers(d *dataset, scope access.Scope, role string) []*entity.User {
	var out []*entity.User
	for _, u := range d.users {
		if !scope.Matches(access.Record{ShopID: u.ShopID, UserID: u.ID}) {
			continue
		}
		if role != "" && u.Role != role {
			continue
		}
		out = append(out, u)
	}
	return out
}

// ShopRepo tiendas en memoria. Borrar una tienda elimina en cascada sus datos.
type ShopRepo struct{ base }

var _ repository.ShopRepository = (*ShopRepo)(nil)

func (r *ShopRepo) Create(ctx context.Context, s *entity.Shop) error {
	defer r.lock()()
	r.db().shops[s.ID] = cloneShop(s)
	return nil
}

func (r *ShopRepo) GetByID(ctx context.Context, id string) (*entity.Shop, error) {
	defer r.lock()()
	if s, ok := r.db().shops[id]; ok {
		return cloneShop(s), nil
	}
	return nil, nil
}

func (r *ShopRepo) Update(ctx context.Context, s *entity.Shop) error {
	defer r.lock()()
	d := r.db()
	if _, ok := d.shops[s.ID]; !ok {
		return domain.ErrNotFound
	}
	d.shops[s.ID] = cloneShop(s)
	return nil
}

func (r *ShopRepo) Delete(ctx context.Context, id string) error {
	defer r.lock()()
	d := r.db()
	if _, ok := d.shops[id]; !ok {
		return domain.ErrNotFound
	}
	delete(d.shops, id)

	for pid, p := range d.products {
		if p.ShopID == id {
			delete(d.products, pid)
			for rid, rv := range d.reviews {
				if rv.ProductID == pid {
					delete(d.reviews, rid)
				}
			}
		}
	}
	deleteWhere(d.categories, func(c *entity.Category) bool { return c.ShopID == id })
	deleteWhere(d.supplies, func(s *entity.Supply) bool { return s.ShopID == id })
	deleteWhere(d.transactions, func(t *entity.InventoryTransaction) bool { return t.ShopID == id })
	deleteWhere(d.sales, func(s *entity.Sale) bool { return s.ShopID == id })
	deleteWhere(d.invoices, func(i *entity.Invoice) bool { return i.ShopID == id })
	deleteWhere(d.orders, func(o *entity.Order) bool { return o.ShopID == id })
	deleteWhere(d.settings, func(s *entity.Setting) bool { return s.ShopID == id })
	for _, u := range d.users {
		if u.ShopID == id {
			u.ShopID = ""
		}
	}
	return nil
}

func (r *ShopRepo) List(ctx context.Context, f repository.ShopFilter) ([]*entity.Shop, int, error) {
	defer r.lock()()
	var out []*entity.Shop
	for _, s := range r.db().shops {
		if f.Status != "" && s.Status != f.Status {
			continue
		}
		if f.VisibleTo != "" && !s.IsApproved() && s.OwnerID != f.VisibleTo {
			continue
		}
		out = append(out, s)
	}
	newestFirst(out, func(s *entity.Shop) (time.Time, string) { return s.CreatedAt, s.ID })
	total := len(out)
	page := paginate(out, f.Page)
	for i, s := range page {
		page[i] = cloneShop(s)
	}
	return page, total, nil
}

func (r *ShopRepo) CountByStatus(ctx context.Context, status string) (int, error) {
	defer r.lock()()
	n := 0
	for _, s := range r.db().shops {
		if s.Status == status {
			n++
		}
	}
	return n, nil
}

func deleteWhere[T any](m map[string]*T, pred func(*T) bool) {
	for k, v := range m {
		if pred(v) {
			delete(m, k)
		}
	}
}
