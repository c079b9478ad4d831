package entity

import "github.com/shopspring/decimal"

// LineItem línea de venta o factura. ProductID es opcional (servicios o ítems libres).
type LineItem struct {
	ProductID   string          `json:"product_id,omitempty"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// Total cantidad × precio unitario.
func (l LineItem) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// DefaultItemDescription descripción usada cuando la línea no trae una.
const DefaultItemDescription = "Unnamed Item"
