package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/access"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
)

// ProductRepo productos en memoria.
type ProductRepo struct{ base }

var _ repository.ProductRepository = (*ProductRepo)(nil)

func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	defer r.lock()()
	r.db().products[p.ID] = cloneProduct(p)
	return nil
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	defer r.lock()()
	if p, ok := r.db().products[id]; ok {
		return cloneProduct(p), nil
	}
	return nil, nil
}

// GetForUpdate equivale a GetByID: dentro de Run el almacén ya está bloqueado.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) FindBySKU(ctx context.Context, shopID, sku string) (*entity.Product, error) {
	return r.findOne(shopID, func(p *entity.Product) bool { return p.SKU != "" && p.SKU == sku })
}

func (r *ProductRepo) FindByBarcode(ctx context.Context, shopID, barcode string) (*entity.Product, error) {
	return r.findOne(shopID, func(p *entity.Product) bool { return p.Barcode != "" && p.Barcode == barcode })
}

// findOne con shopID vacío busca en todas las tiendas.
func (r *ProductRepo) findOne(shopID string, match func(*entity.Product) bool) (*entity.Product, error) {
	defer r.lock()()
	for _, p := range r.db().products {
		if shopID != "" && p.ShopID != shopID {
			continue
		}
		if match(p) {
			return cloneProduct(p), nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	defer r.lock()()
	d := r.db()
	if _, ok := d.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	d.products[p.ID] = cloneProduct(p)
	return nil
}

func (r *ProductRepo) UpdateStock(ctx context.Context, productID string, stock int) error {
	return r.mutate(productID, func(p *entity.Product) { p.Stock = stock })
}

func (r *ProductRepo) UpdateCost(ctx context.Context, productID string, cost decimal.Decimal) error {
	return r.mutate(productID, func(p *entity.Product) { p.Cost = cost })
}

func (r *ProductRepo) UpdateRating(ctx context.Context, productID string, average decimal.Decimal, count int) error {
	return r.mutate(productID, func(p *entity.Product) {
		p.RatingAverage = average
		p.RatingCount = count
	})
}

func (r *ProductRepo) mutate(id string, fn func(*entity.Product)) error {
	defer r.lock()()
	p, ok := r.db().products[id]
	if !ok {
		return domain.ErrNotFound
	}
	fn(p)
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// Delete elimina el producto y sus reseñas. El ledger se conserva.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	defer r.lock()()
	d := r.db()
	if _, ok := d.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(d.products, id)
	deleteWhere(d.reviews, func(rv *entity.Review) bool { return rv.ProductID == id })
	return nil
}

func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	defer r.lock()()
	d := r.db()
	q := strings.ToLower(strings.TrimSpace(f.Query))
	var out []*entity.Product
	for _, p := range d.products {
		if !f.Scope.Matches(access.Record{ShopID: p.ShopID}) {
			continue
		}
		if f.CategoryID != "" && p.CategoryID != f.CategoryID {
			continue
		}
		if f.SKU != "" && p.SKU != f.SKU {
			continue
		}
		if f.Barcode != "" && p.Barcode != f.Barcode {
			continue
		}
		if q != "" && !matchesQuery(p, q) {
			continue
		}
		if f.OnlyApproved {
			shop, ok := d.shops[p.ShopID]
			if !p.IsActive || !ok || !shop.IsApproved() {
				continue
			}
		}
		out = append(out, p)
	}
	newestFirst(out, func(p *entity.Product) (time.Time, string) { return p.CreatedAt, p.ID })
	total := len(out)
	page := paginate(out, f.Page)
	for i, p := range page {
		page[i] = cloneProduct(p)
	}
	return page, total, nil
}

func matchesQuery(p *entity.Product, q string) bool {
	for _, field := range []string{p.Name, p.Description, p.SKU, p.Barcode} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

func (r *ProductRepo) ListAll(ctx context.Context, scope access.Scope) ([]*entity.Product, error) {
	defer r.lock()()
	var out []*entity.Product
	for _, p := range r.db().products {
		if scope.Matches(access.Record{ShopID: p.ShopID}) {
			out = append(out, cloneProduct(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// CategoryRepo categorías en memoria, ordenadas por nombre.
type CategoryRepo struct{ base }

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	defer r.lock()()
	r.db().categories[c.ID] = shallow(c)
	return nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	defer r.lock()()
	if c, ok := r.db().categories[id]; ok {
		return shallow(c), nil
	}
	return nil, nil
}

func (r *CategoryRepo) FindByNameOrSlug(ctx context.Context, shopID, name, slug string) (*entity.Category, error) {
	defer r.lock()()
	for _, c := range r.db().categories {
		if c.ShopID != shopID {
			continue
		}
		if strings.EqualFold(c.Name, name) || c.Slug == slug {
			return shallow(c), nil
		}
	}
	return nil, nil
}

func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	defer r.lock()()
	d := r.db()
	if _, ok := d.categories[c.ID]; !ok {
		return domain.ErrNotFound
	}
	d.categories[c.ID] = shallow(c)
	return nil
}

// Delete deja sin categoría a los productos que la usaban.
func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	defer r.lock()()
	d := r.db()
	if _, ok := d.categories[id]; !ok {
		return domain.ErrNotFound
	}
	delete(d.categories, id)
	for _, p := range d.products {
		if p.CategoryID == id {
			p.CategoryID = ""
		}
	}
	return nil
}

func (r *CategoryRepo) List(ctx context.Context, f repository.ScopedFilter) ([]*entity.Category, error) {
	defer r.lock()()
	var out []*entity.Category
	for _, c := range r.db().categories {
		if f.Scope.Matches(access.Record{ShopID: c.ShopID}) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	page := paginate(out, f.Page)
	for i, c := range page {
		page[i] = shallow(c)
	}
	return page, nil
}

// ReviewRepo reseñas en memoria: una por usuario y producto.
type ReviewRepo struct{ base }

var _ repository.ReviewRepository = (*ReviewRepo)(nil)

func (r *ReviewRepo) Create(ctx context.Context, rv *entity.Review) error {
	defer r.lock()()
	d := r.db()
	for _, other := range d.reviews {
		if other.ProductID == rv.ProductID && other.UserID == rv.UserID {
			return domain.ErrDuplicate
		}
	}
	d.reviews[rv.ID] = shallow(rv)
	return nil
}

func (r *ReviewRepo) GetByID(ctx context.Context, id string) (*entity.Review, error) {
	defer r.lock()()
	if rv, ok := r.db().reviews[id]; ok {
		return shallow(rv), nil
	}
	return nil, nil
}

func (r *ReviewRepo) Delete(ctx context.Context, id string) error {
	defer r.lock()()
	d := r.db()
	if _, ok := d.reviews[id]; !ok {
		return domain.ErrNotFound
	}
	delete(d.reviews, id)
	return nil
}

func (r *ReviewRepo) ListByProduct(ctx context.Context, productID string, page repository.Page) ([]*entity.Review, int, error) {
	defer r.lock()()
	var out []*entity.Review
	for _, rv := range r.db().reviews {
		if rv.ProductID == productID {
			out = append(out, rv)
		}
	}
	newestFirst(out, func(rv *entity.Review) (time.Time, string) { return rv.CreatedAt, rv.ID })
	total := len(out)
	res := paginate(out, page)
	for i, rv := range res {
		res[i] = shallow(rv)
	}
	return res, total, nil
}

func (r *ReviewRepo) RatingStats(ctx context.Context, productID string) (decimal.Decimal, int, error) {
	defer r.lock()()
	sum, count := 0, 0
	for _, rv := range r.db().reviews {
		if rv.ProductID == productID {
			sum += rv.Rating
			count++
		}
	}
	if count == 0 {
		return decimal.Zero, 0, nil
	}
	return decimal.NewFromInt(int64(sum)).Div(decimal.NewFromInt(int64(count))), count, nil
}
