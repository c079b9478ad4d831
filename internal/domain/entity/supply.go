package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SupplyItem línea recibida de un proveedor.
type SupplyItem struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// Supply recepción de mercancía. TotalCost = Σ quantity × unitCost.
type Supply struct {
	ID           string
	ShopID       string
	SupplierName string
	Items        []SupplyItem
	TotalCost    decimal.Decimal
	Notes        string
	ReceivedAt   time.Time
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ComputeTotalCost recalcula TotalCost a partir de las líneas.
func (s *Supply) ComputeTotalCost() {
	total := decimal.Zero
	for _, it := range s.Items {
		total = total.Add(it.UnitCost.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	s.TotalCost = total
}
