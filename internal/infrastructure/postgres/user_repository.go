package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador. Pasar pool o tx (Querier).
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userColumns = `id, email, password_hash, name, phone, role, COALESCE(shop_id::text, ''), is_active,
	permissions, sales_target, commission_rate, COALESCE(created_by::text, ''), created_at, updated_at`

func scanUser(row pgxScanner) (*entity.User, error) {
	var u entity.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Phone, &u.Role, &u.ShopID, &u.IsActive,
		&u.Permissions, &u.SalesTarget, &u.CommissionRate, &u.CreatedBy, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create persiste un nuevo usuario. Email duplicado (sin distinguir mayúsculas) → ErrEmailAlreadyExists.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, name, phone, role, shop_id, is_active, permissions,
			sales_target, commission_rate, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		u.ID, u.Email, u.PasswordHash, u.Name, u.Phone, u.Role, nullable(u.ShopID), u.IsActive,
		permissions(u.Permissions), u.SalesTarget, u.CommissionRate, nullable(u.CreatedBy), u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if !validID(id) {
		return nil, nil
	}
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetByEmail obtiene un usuario por email sin distinguir mayúsculas.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// Update reemplaza los campos editables. La contraseña también, para el cambio de clave.
func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	query := `
		UPDATE users SET email = $2, password_hash = $3, name = $4, phone = $5, role = $6, shop_id = $7,
			is_active = $8, permissions = $9, sales_target = $10, commission_rate = $11, updated_at = $12
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		u.ID, u.Email, u.PasswordHash, u.Name, u.Phone, u.Role, nullable(u.ShopID),
		u.IsActive, permissions(u.Permissions), u.SalesTarget, u.CommissionRate, u.UpdatedAt,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrEmailAlreadyExists
		case isFKViolation(err):
			return fmt.Errorf("%w: la tienda no existe", domain.ErrInvalidInput)
		}
		return fmt.Errorf("update user: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Delete elimina el usuario. Si es propietario de una tienda la FK lo impide → ErrConflict.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrUserNotFound
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		if isFKViolation(err) {
			return fmt.Errorf("%w: el usuario es propietario de una tienda", domain.ErrConflict)
		}
		return fmt.Errorf("delete user: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// List usuarios del alcance, más recientes primero.
func (r *UserRepo) List(ctx context.Context, f repository.UserFilter) ([]*entity.User, int, error) {
	var w where
	w.scope(f.Scope, scopeColumns{Shop: "shop_id", User: "id"})
	if f.Role != "" {
		w.add("role = $%d", f.Role)
	}
	total, err := count(ctx, r.q, "users", &w)
	if err != nil {
		return nil, 0, err
	}
	query := `SELECT ` + userColumns + ` FROM users` + w.sql() + ` ORDER BY created_at DESC, id DESC` + w.page(f.Page)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, total, rows.Err()
}

// permissions evita NULL en la columna TEXT[] NOT NULL.
func permissions(p []string) []string {
	if p == nil {
		return []string{}
	}
	return p
}

var _ repository.ShopRepository = (*ShopRepo)(nil)

// ShopRepo implementación del puerto ShopRepository. El borrado en cascada lo resuelven las FK.
type ShopRepo struct {
	q Querier
}

// NewShopRepository construye el adaptador.
func NewShopRepository(q Querier) *ShopRepo {
	return &ShopRepo{q: q}
}

const shopColumns = `id, name, description, owner_id, address, phone, currency, vat_rate, status,
	COALESCE(approved_by::text, ''), approved_at, created_at, updated_at`

func scanShop(row pgxScanner) (*entity.Shop, error) {
	var s entity.Shop
	err := row.Scan(&s.ID, &s.Name, &s.Description, &s.OwnerID, &s.Address, &s.Phone, &s.Currency,
		&s.VATRate, &s.Status, &s.ApprovedBy, &s.ApprovedAt, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create persiste una tienda.
func (r *ShopRepo) Create(ctx context.Context, s *entity.Shop) error {
	query := `
		INSERT INTO shops (id, name, description, owner_id, address, phone, currency, vat_rate, status,
			approved_by, approved_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.Name, s.Description, s.OwnerID, s.Address, s.Phone, s.Currency, s.VATRate, s.Status,
		nullable(s.ApprovedBy), s.ApprovedAt, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isFKViolation(err) {
			return fmt.Errorf("%w: el propietario no existe", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert shop: %w", err)
	}
	return nil
}

// GetByID obtiene una tienda por ID.
func (r *ShopRepo) GetByID(ctx context.Context, id string) (*entity.Shop, error) {
	if !validID(id) {
		return nil, nil
	}
	s, err := scanShop(r.q.QueryRow(ctx, `SELECT `+shopColumns+` FROM shops WHERE id = $1`, id))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shop: %w", err)
	}
	return s, nil
}

// Update reemplaza los campos de la tienda, incluido el estado de aprobación.
func (r *ShopRepo) Update(ctx context.Context, s *entity.Shop) error {
	query := `
		UPDATE shops SET name = $2, description = $3, address = $4, phone = $5, currency = $6, vat_rate = $7,
			status = $8, approved_by = $9, approved_at = $10, updated_at = $11
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		s.ID, s.Name, s.Description, s.Address, s.Phone, s.Currency, s.VATRate,
		s.Status, nullable(s.ApprovedBy), s.ApprovedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update shop: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la tienda; productos, documentos y ajustes caen por ON DELETE CASCADE
// y los usuarios asociados quedan sin tienda.
func (r *ShopRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM shops WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete shop: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List tiendas filtradas por estado o visibles para un usuario.
func (r *ShopRepo) List(ctx context.Context, f repository.ShopFilter) ([]*entity.Shop, int, error) {
	var w where
	if f.Status != "" {
		w.add("status = $%d", f.Status)
	}
	if f.VisibleTo != "" {
		if validID(f.VisibleTo) {
			w.add("(status = 'approved' OR owner_id = $%d)", f.VisibleTo)
		} else {
			w.add("status = $%d", entity.ShopStatusApproved)
		}
	}
	total, err := count(ctx, r.q, "shops", &w)
	if err != nil {
		return nil, 0, err
	}
	query := `SELECT ` + shopColumns + ` FROM shops` + w.sql() + ` ORDER BY created_at DESC, id DESC` + w.page(f.Page)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list shops: %w", err)
	}
	defer rows.Close()
	var list []*entity.Shop
	for rows.Next() {
		s, err := scanShop(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan shop: %w", err)
		}
		list = append(list, s)
	}
	return list, total, rows.Err()
}

// CountByStatus cantidad de tiendas en el estado dado.
func (r *ShopRepo) CountByStatus(ctx context.Context, status string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM shops WHERE status = $1`, status).Scan(&n); err != nil {
		return 0, fmt.Errorf("count shops: %w", err)
	}
	return n, nil
}
