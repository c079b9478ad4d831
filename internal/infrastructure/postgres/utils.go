package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Tiendas-api/internal/domain/access"
	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
)

// Querier es lo común entre *pgxpool.Pool y pgx.Tx; los repositorios no distinguen uno de otro.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// pgxScanner abstrae pgx.Row y pgx.Rows para reutilizar los scan de cada entidad.
type pgxScanner interface {
	Scan(dest ...any) error
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return pgCode(err) == "23505"
}

// isFKViolation verifica si un error es una violación de llave foránea (23503).
func isFKViolation(err error) bool {
	return pgCode(err) == "23503"
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// validID descarta ids que no son UUID antes de llegar a la base (evita 22P02 como error interno).
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// nullable convierte "" en NULL para columnas uuid opcionales.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// ── constructor de WHERE ──────────────────────────────────────────────────────

// scopeColumns columnas que representan cada campo de access.Scope en una tabla.
// Una columna vacía significa que la tabla no tiene ese campo: el alcance que
// lo exija no coincide con nada.
type scopeColumns struct {
	Shop      string
	CreatedBy string
	User      string
}

// where acumula condiciones con placeholders numerados.
type where struct {
	conds []string
	args  []any
}

// add agrega una condición; cada %d del texto se reemplaza por el número del nuevo argumento.
func (w *where) add(cond string, arg any) {
	w.args = append(w.args, arg)
	n := len(w.args)
	w.conds = append(w.conds, strings.ReplaceAll(cond, "%d", fmt.Sprint(n)))
}

// raw agrega una condición sin argumentos.
func (w *where) raw(cond string) {
	w.conds = append(w.conds, cond)
}

// scope traduce el alcance de rol a condiciones SQL.
func (w *where) scope(s access.Scope, cols scopeColumns) {
	if s.None {
		w.raw("FALSE")
		return
	}
	w.eq(s.ShopID, cols.Shop)
	w.eq(s.CreatedBy, cols.CreatedBy)
	w.eq(s.UserID, cols.User)
}

func (w *where) eq(value, column string) {
	if value == "" {
		return
	}
	if column == "" || !validID(value) {
		w.raw("FALSE")
		return
	}
	w.add(column+" = $%d", value)
}

// during limita column al rango; los extremos en cero no restringen.
func (w *where) during(column string, r repository.DateRange) {
	if !r.From.IsZero() {
		w.add(column+" >= $%d", r.From)
	}
	if !r.To.IsZero() {
		w.add(column+" <= $%d", r.To)
	}
}

func (w *where) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// page agrega LIMIT/OFFSET con sus argumentos. Limit 0 = sin límite.
func (w *where) page(p repository.Page) string {
	var b strings.Builder
	if p.Limit > 0 {
		w.args = append(w.args, p.Limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(w.args))
	}
	if p.Offset > 0 {
		w.args = append(w.args, p.Offset)
		fmt.Fprintf(&b, " OFFSET $%d", len(w.args))
	}
	return b.String()
}

// count ejecuta SELECT count(*) con las condiciones acumuladas.
func count(ctx context.Context, q Querier, from string, w *where) (int, error) {
	var n int
	if err := q.QueryRow(ctx, "SELECT count(*) FROM "+from+w.sql(), w.args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", from, err)
	}
	return n, nil
}

// noRows traduce pgx.ErrNoRows al nil, nil de los repositorios.
func noRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
