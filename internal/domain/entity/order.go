package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tiendas-api/internal/domain"
)

// Estados de pedido.
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// OrderItem línea de pedido con precio congelado al momento de la compra.
type OrderItem struct {
	ProductID       string          `json:"product_id"`
	Name            string          `json:"name"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
}

// Order pedido de un cliente a una tienda.
type Order struct {
	ID              string
	UserID          string
	ShopID          string
	Items           []OrderItem
	Total           decimal.Decimal
	Status          string
	ShippingAddress string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ValidOrderStatus indica si el estado existe.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// IsTerminal completed y cancelled no admiten más cambios.
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusCompleted || o.Status == OrderStatusCancelled
}

// SetStatus cambia el estado si el pedido no está cerrado.
func (o *Order) SetStatus(status string, now time.Time) error {
	if !ValidOrderStatus(status) {
		return domain.ErrInvalidInput
	}
	if o.IsTerminal() {
		return domain.ErrConflict
	}
	o.Status = status
	o.UpdatedAt = now
	return nil
}

// CountsAsRevenue pedidos cobrados (pagados, enviados o completados).
func (o *Order) CountsAsRevenue() bool {
	return o.Status == OrderStatusPaid || o.Status == OrderStatusShipped || o.Status == OrderStatusCompleted
}
