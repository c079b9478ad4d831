package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tiendas-api/internal/domain"
)

// Estados de factura.
const (
	InvoiceStatusDraft = "draft"
	InvoiceStatusSent  = "sent"
	InvoiceStatusPaid  = "paid"
	InvoiceStatusVoid  = "void"
)

var invoiceTransitions = map[string][]string{
	InvoiceStatusDraft: {InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusVoid},
	InvoiceStatusSent:  {InvoiceStatusPaid, InvoiceStatusVoid},
	InvoiceStatusPaid:  {InvoiceStatusVoid},
}

// Invoice factura a un cliente. El stock se descuenta cuando pasa a paid (StockApplied).
type Invoice struct {
	ID            string
	ShopID        string
	CustomerName  string
	CustomerEmail string
	Items         []LineItem
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
	Status        string
	DueDate       *time.Time
	PaidAt        *time.Time
	StockApplied  bool
	Notes         string
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ValidInvoiceStatus indica si el estado existe.
func ValidInvoiceStatus(s string) bool {
	_, ok := invoiceTransitions[s]
	return ok || s == InvoiceStatusVoid
}

// TransitionTo cambia el estado respetando draft→sent|paid|void, sent→paid|void, paid→void.
// Repetir el estado actual no es un error.
func (i *Invoice) TransitionTo(status string, now time.Time) error {
	if status == i.Status {
		return nil
	}
	if !ValidInvoiceStatus(status) {
		return domain.ErrInvalidInput
	}
	for _, next := range invoiceTransitions[i.Status] {
		if next == status {
			i.Status = status
			if status == InvoiceStatusPaid {
				i.PaidAt = &now
			}
			i.UpdatedAt = now
			return nil
		}
	}
	return domain.ErrConflict
}

// IsOverdue enviada y con vencimiento pasado.
func (i *Invoice) IsOverdue(now time.Time) bool {
	return i.Status == InvoiceStatusSent && i.DueDate != nil && i.DueDate.Before(now)
}
