package repository

import (
	"time"

	"github.com/jhoicas/Tiendas-api/internal/domain/access"
)

// Page paginación de listados.
type Page struct {
	Limit  int
	Offset int
}

// DateRange rango opcional [From, To]; cero = sin límite.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Contains indica si t cae dentro del rango.
func (r DateRange) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && t.After(r.To) {
		return false
	}
	return true
}

// ScopedFilter filtro base: alcance de rol más paginación.
type ScopedFilter struct {
	Scope access.Scope
	Page  Page
}
