package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/access"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `p.id, p.shop_id, p.name, p.description, p.sku, p.barcode, p.price, p.cost, p.stock,
	p.min_stock, COALESCE(p.category_id::text, ''), p.images, p.is_active, p.rating_average, p.rating_count,
	p.created_at, p.updated_at`

func scanProduct(row pgxScanner) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.ShopID, &p.Name, &p.Description, &p.SKU, &p.Barcode, &p.Price, &p.Cost, &p.Stock,
		&p.MinStock, &p.CategoryID, &p.Images, &p.IsActive, &p.RatingAverage, &p.RatingCount,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo producto. SKU repetido en la tienda → ErrDuplicate.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (id, shop_id, name, description, sku, barcode, price, cost, stock, min_stock,
			category_id, images, is_active, rating_average, rating_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.ShopID, p.Name, p.Description, p.SKU, p.Barcode, p.Price, p.Cost, p.Stock, p.MinStock,
		nullable(p.CategoryID), images(p.Images), p.IsActive, p.RatingAverage, p.RatingCount, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return fmt.Errorf("%w: sku ya existe en la tienda", domain.ErrDuplicate)
		case isFKViolation(err):
			return fmt.Errorf("%w: tienda o categoría inexistente", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products p WHERE p.id = $1`, id)
}

// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT ... FOR UPDATE).
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products p WHERE p.id = $1 FOR UPDATE`, id)
}

func (r *ProductRepo) getOne(ctx context.Context, query, id string) (*entity.Product, error) {
	if !validID(id) {
		return nil, nil
	}
	p, err := scanProduct(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// FindBySKU busca por SKU exacto; shopID vacío busca en todas las tiendas.
func (r *ProductRepo) FindBySKU(ctx context.Context, shopID, sku string) (*entity.Product, error) {
	return r.findOne(ctx, shopID, "p.sku", sku)
}

// FindByBarcode busca por código de barras exacto; shopID vacío busca en todas las tiendas.
func (r *ProductRepo) FindByBarcode(ctx context.Context, shopID, barcode string) (*entity.Product, error) {
	return r.findOne(ctx, shopID, "p.barcode", barcode)
}

func (r *ProductRepo) findOne(ctx context.Context, shopID, column, value string) (*entity.Product, error) {
	if value == "" {
		return nil, nil
	}
	var w where
	w.add(column+" = $%d", value)
	w.eq(shopID, "p.shop_id")
	query := `SELECT ` + productColumns + ` FROM products p` + w.sql() + ` ORDER BY p.created_at LIMIT 1`
	p, err := scanProduct(r.q.QueryRow(ctx, query, w.args...))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return p, nil
}

// Update actualiza los campos editables. No modifica tienda, stock, costo ni rating (tienen su propio camino).
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET name = $2, description = $3, sku = $4, barcode = $5, price = $6, min_stock = $7,
			category_id = $8, images = $9, is_active = $10, updated_at = $11
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.Description, p.SKU, p.Barcode, p.Price, p.MinStock,
		nullable(p.CategoryID), images(p.Images), p.IsActive, p.UpdatedAt,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return fmt.Errorf("%w: sku ya existe en la tienda", domain.ErrDuplicate)
		case isFKViolation(err):
			return fmt.Errorf("%w: categoría inexistente", domain.ErrInvalidInput)
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStock fija el stock (usado por el ledger de inventario).
func (r *ProductRepo) UpdateStock(ctx context.Context, productID string, stock int) error {
	return r.set(ctx, "update product stock", `UPDATE products SET stock = $2, updated_at = now() WHERE id = $1`, productID, stock)
}

// UpdateCost actualiza solo el costo del producto (usado por el motor de inventario).
func (r *ProductRepo) UpdateCost(ctx context.Context, productID string, cost decimal.Decimal) error {
	return r.set(ctx, "update product cost", `UPDATE products SET cost = $2, updated_at = now() WHERE id = $1`, productID, cost)
}

// UpdateRating guarda el promedio y la cantidad de reseñas.
func (r *ProductRepo) UpdateRating(ctx context.Context, productID string, average decimal.Decimal, count int) error {
	return r.set(ctx, "update product rating",
		`UPDATE products SET rating_average = $2, rating_count = $3, updated_at = now() WHERE id = $1`,
		productID, average, count)
}

func (r *ProductRepo) set(ctx context.Context, op, query, id string, args ...any) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	cmd, err := r.q.Exec(ctx, query, append([]any{id}, args...)...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un producto por ID; sus reseñas caen en cascada.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List productos del alcance con búsqueda libre y filtros exactos, más recientes primero.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	var w where
	from := "products p"
	w.scope(f.Scope, scopeColumns{Shop: "p.shop_id"})
	if f.CategoryID != "" {
		w.eq(f.CategoryID, "p.category_id")
	}
	if f.SKU != "" {
		w.add("p.sku = $%d", f.SKU)
	}
	if f.Barcode != "" {
		w.add("p.barcode = $%d", f.Barcode)
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		w.add(`(p.name ILIKE $%d OR p.description ILIKE $%d OR p.sku ILIKE $%d OR p.barcode ILIKE $%d)`, "%"+escapeLike(q)+"%")
	}
	if f.OnlyApproved {
		from = "products p JOIN shops s ON s.id = p.shop_id"
		w.raw("p.is_active AND s.status = 'approved'")
	}
	total, err := count(ctx, r.q, from, &w)
	if err != nil {
		return nil, 0, err
	}
	query := `SELECT ` + productColumns + ` FROM ` + from + w.sql() + ` ORDER BY p.created_at DESC, p.id DESC` + w.page(f.Page)
	list, err := r.query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListAll todos los productos del alcance ordenados por nombre.
func (r *ProductRepo) ListAll(ctx context.Context, scope access.Scope) ([]*entity.Product, error) {
	var w where
	w.scope(scope, scopeColumns{Shop: "p.shop_id"})
	return r.query(ctx, `SELECT `+productColumns+` FROM products p`+w.sql()+` ORDER BY p.name`, w.args...)
}

func (r *ProductRepo) query(ctx context.Context, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func images(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo implementación del puerto CategoryRepository.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador.
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

const categoryColumns = `id, shop_id, name, slug, description, is_active, created_at, updated_at`

func scanCategory(row pgxScanner) (*entity.Category, error) {
	var c entity.Category
	if err := row.Scan(&c.ID, &c.ShopID, &c.Name, &c.Slug, &c.Description, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO categories (id, shop_id, name, slug, description, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.ShopID, c.Name, c.Slug, c.Description, c.IsActive, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: la categoría ya existe", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	if !validID(id) {
		return nil, nil
	}
	c, err := scanCategory(r.q.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// FindByNameOrSlug nombre sin distinguir mayúsculas o slug exacto, dentro de la tienda.
func (r *CategoryRepo) FindByNameOrSlug(ctx context.Context, shopID, name, slug string) (*entity.Category, error) {
	if !validID(shopID) {
		return nil, nil
	}
	c, err := scanCategory(r.q.QueryRow(ctx, `
		SELECT `+categoryColumns+` FROM categories
		WHERE shop_id = $1 AND (lower(name) = lower($2) OR slug = $3)
		LIMIT 1`, shopID, name, slug))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find category: %w", err)
	}
	return c, nil
}

func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE categories SET name = $2, slug = $3, description = $4, is_active = $5, updated_at = $6
		WHERE id = $1`,
		c.ID, c.Name, c.Slug, c.Description, c.IsActive, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: la categoría ya existe", domain.ErrDuplicate)
		}
		return fmt.Errorf("update category: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la categoría; los productos quedan sin categoría (ON DELETE SET NULL).
func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CategoryRepo) List(ctx context.Context, f repository.ScopedFilter) ([]*entity.Category, error) {
	var w where
	w.scope(f.Scope, scopeColumns{Shop: "shop_id"})
	query := `SELECT ` + categoryColumns + ` FROM categories` + w.sql() + ` ORDER BY name, id` + w.page(f.Page)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	var list []*entity.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

var _ repository.ReviewRepository = (*ReviewRepo)(nil)

// ReviewRepo implementación del puerto ReviewRepository. UNIQUE (product_id, user_id).
type ReviewRepo struct {
	q Querier
}

// NewReviewRepository construye el adaptador.
func NewReviewRepository(q Querier) *ReviewRepo {
	return &ReviewRepo{q: q}
}

const reviewColumns = `id, product_id, user_id, rating, comment, created_at, updated_at`

func scanReview(row pgxScanner) (*entity.Review, error) {
	var rv entity.Review
	if err := row.Scan(&rv.ID, &rv.ProductID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.CreatedAt, &rv.UpdatedAt); err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *ReviewRepo) Create(ctx context.Context, rv *entity.Review) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO reviews (id, product_id, user_id, rating, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rv.ID, rv.ProductID, rv.UserID, rv.Rating, rv.Comment, rv.CreatedAt, rv.UpdatedAt,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrDuplicate
		case isFKViolation(err):
			return fmt.Errorf("%w: producto o usuario inexistente", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

func (r *ReviewRepo) GetByID(ctx context.Context, id string) (*entity.Review, error) {
	if !validID(id) {
		return nil, nil
	}
	rv, err := scanReview(r.q.QueryRow(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, id))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get review: %w", err)
	}
	return rv, nil
}

func (r *ReviewRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ReviewRepo) ListByProduct(ctx context.Context, productID string, page repository.Page) ([]*entity.Review, int, error) {
	var w where
	w.eq(productID, "product_id")
	total, err := count(ctx, r.q, "reviews", &w)
	if err != nil {
		return nil, 0, err
	}
	query := `SELECT ` + reviewColumns + ` FROM reviews` + w.sql() + ` ORDER BY created_at DESC, id DESC` + w.page(page)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()
	var list []*entity.Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan review: %w", err)
		}
		list = append(list, rv)
	}
	return list, total, rows.Err()
}

// RatingStats promedio y cantidad; sin reseñas devuelve 0, 0.
func (r *ReviewRepo) RatingStats(ctx context.Context, productID string) (decimal.Decimal, int, error) {
	if !validID(productID) {
		return decimal.Zero, 0, nil
	}
	var avg decimal.Decimal
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(AVG(rating), 0)::numeric, count(*) FROM reviews WHERE product_id = $1`, productID,
	).Scan(&avg, &n)
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("rating stats: %w", err)
	}
	return avg, n, nil
}
