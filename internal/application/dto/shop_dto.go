package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateShopRequest alta de tienda (queda pendiente de aprobación).
type CreateShopRequest struct {
	Name        string           `json:"name" validate:"required,min=2,max=120"`
	Description string           `json:"description" validate:"omitempty,max=2000"`
	Address     string           `json:"address" validate:"omitempty,max=300"`
	Phone       string           `json:"phone" validate:"omitempty,max=40"`
	Currency    string           `json:"currency" validate:"omitempty,len=3"`
	VATRate     *decimal.Decimal `json:"vat_rate"`
}

// UpdateShopRequest cambios parciales; el estado no se edita por aquí.
type UpdateShopRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=2,max=120"`
	Description *string          `json:"description" validate:"omitempty,max=2000"`
	Address     *string          `json:"address" validate:"omitempty,max=300"`
	Phone       *string          `json:"phone" validate:"omitempty,max=40"`
	Currency    *string          `json:"currency" validate:"omitempty,len=3"`
	VATRate     *decimal.Decimal `json:"vat_rate"`
}

// ShopResponse salida de una tienda.
type ShopResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	OwnerID     string          `json:"owner_id"`
	Address     string          `json:"address"`
	Phone       string          `json:"phone"`
	Currency    string          `json:"currency"`
	VATRate     decimal.Decimal `json:"vat_rate"`
	Status      string          `json:"status"`
	ApprovedBy  string          `json:"approved_by,omitempty"`
	ApprovedAt  *time.Time      `json:"approved_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ShopListResponse lista paginada de tiendas.
type ShopListResponse struct {
	Items []ShopResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
