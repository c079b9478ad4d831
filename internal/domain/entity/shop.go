package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tiendas-api/internal/domain"
)

// Estados de una tienda.
const (
	ShopStatusPending  = "pending"
	ShopStatusApproved = "approved"
	ShopStatusRejected = "rejected"
)

// Shop es la tienda de un vendedor; unidad de partición de productos, ventas, facturas y usuarios.
type Shop struct {
	ID          string
	Name        string
	Description string
	OwnerID     string
	Address     string
	Phone       string
	Currency    string
	VATRate     decimal.Decimal // porcentaje, ej. 19 = 19%
	Status      string
	ApprovedBy  string
	ApprovedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsApproved indica si la tienda puede operar (crear productos, recibir pedidos).
func (s *Shop) IsApproved() bool {
	return s.Status == ShopStatusApproved
}

// Approve pasa la tienda de pending a approved y registra quién y cuándo.
func (s *Shop) Approve(actorID string, now time.Time) error {
	return s.transition(ShopStatusApproved, actorID, now)
}

// Reject pasa la tienda de pending a rejected. Ambos estados finales son terminales.
func (s *Shop) Reject(actorID string, now time.Time) error {
	return s.transition(ShopStatusRejected, actorID, now)
}

func (s *Shop) transition(to, actorID string, now time.Time) error {
	if s.Status != ShopStatusPending {
		return domain.ErrConflict
	}
	s.Status = to
	s.ApprovedBy = actorID
	s.ApprovedAt = &now
	s.UpdatedAt = now
	return nil
}
