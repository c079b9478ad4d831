package entity

import "time"

// Tipos de transacción de inventario.
const (
	TxTypeSupply        = "supply"
	TxTypeSale          = "sale"
	TxTypeAdjustmentIn  = "adjustment_in"
	TxTypeAdjustmentOut = "adjustment_out"
)

// InventoryTransaction entrada inmutable del ledger de stock.
// Quantity lleva signo: positivo entra, negativo sale.
type InventoryTransaction struct {
	ID            string
	ShopID        string
	ProductID     string
	Type          string
	Quantity      int
	PreviousStock int
	NewStock      int
	ReferenceID   string // suministro, venta o factura que originó el movimiento
	Note          string
	CreatedBy     string
	CreatedAt     time.Time
}
