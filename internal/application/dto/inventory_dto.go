package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SupplyItemRequest línea de un suministro.
type SupplyItemRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  int             `json:"quantity" validate:"required,min=1"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// CreateSupplyRequest alta de suministro (suma stock).
type CreateSupplyRequest struct {
	ShopID       string              `json:"shop_id" validate:"omitempty,uuid"`
	SupplierName string              `json:"supplier_name" validate:"required,min=1,max=200"`
	Items        []SupplyItemRequest `json:"items" validate:"required,min=1,dive"`
	Notes        string              `json:"notes" validate:"omitempty,max=2000"`
	ReceivedAt   *time.Time          `json:"received_at"`
}

// UpdateSupplyRequest reemplazo de un suministro: revierte las líneas anteriores y aplica las nuevas.
type UpdateSupplyRequest struct {
	SupplierName *string             `json:"supplier_name" validate:"omitempty,min=1,max=200"`
	Items        []SupplyItemRequest `json:"items" validate:"omitempty,min=1,dive"`
	Notes        *string             `json:"notes" validate:"omitempty,max=2000"`
	ReceivedAt   *time.Time          `json:"received_at"`
}

// SupplyItemResponse línea de suministro.
type SupplyItemResponse struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// SupplyResponse salida de un suministro.
type SupplyResponse struct {
	ID           string               `json:"id"`
	ShopID       string               `json:"shop_id"`
	SupplierName string               `json:"supplier_name"`
	Items        []SupplyItemResponse `json:"items"`
	TotalCost    decimal.Decimal      `json:"total_cost"`
	Notes        string               `json:"notes"`
	ReceivedAt   time.Time            `json:"received_at"`
	CreatedBy    string               `json:"created_by"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// SupplyListResponse lista paginada de suministros.
type SupplyListResponse struct {
	Items []SupplyResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}

// InventoryTransactionResponse entrada del ledger.
type InventoryTransactionResponse struct {
	ID            string    `json:"id"`
	ShopID        string    `json:"shop_id"`
	ProductID     string    `json:"product_id"`
	Type          string    `json:"type"`
	Quantity      int       `json:"quantity"`
	PreviousStock int       `json:"previous_stock"`
	NewStock      int       `json:"new_stock"`
	ReferenceID   string    `json:"reference_id,omitempty"`
	Note          string    `json:"note"`
	CreatedBy     string    `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}

// InventoryTransactionListResponse lista paginada del ledger.
type InventoryTransactionListResponse struct {
	Items []InventoryTransactionResponse `json:"items"`
	Page  PageResponse                   `json:"page"`
}
