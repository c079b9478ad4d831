package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItemRequest línea de venta o factura. Sin unit_price se usa el precio del producto.
type LineItemRequest struct {
	ProductID   string           `json:"product_id" validate:"omitempty,uuid"`
	Description string           `json:"description" validate:"omitempty,max=300"`
	Quantity    int              `json:"quantity" validate:"required,min=1"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
}

// LineItemResponse línea con su total.
type LineItemResponse struct {
	ProductID   string          `json:"product_id,omitempty"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// CreateSaleRequest venta de mostrador. Tax y total siempre se calculan en el servidor.
type CreateSaleRequest struct {
	ShopID        string            `json:"shop_id" validate:"omitempty,uuid"`
	CustomerName  string            `json:"customer_name" validate:"omitempty,max=200"`
	CustomerEmail string            `json:"customer_email" validate:"omitempty,email"`
	Items         []LineItemRequest `json:"items" validate:"required,min=1,dive"`
	PaymentMethod string            `json:"payment_method" validate:"omitempty,oneof=cash card mobile bank_transfer"`
	Notes         string            `json:"notes" validate:"omitempty,max=2000"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID            string             `json:"id"`
	SaleNumber    string             `json:"sale_number"`
	ShopID        string             `json:"shop_id"`
	CustomerName  string             `json:"customer_name"`
	CustomerEmail string             `json:"customer_email,omitempty"`
	Items         []LineItemResponse `json:"items"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Tax           decimal.Decimal    `json:"tax"`
	Total         decimal.Decimal    `json:"total"`
	PaymentMethod string             `json:"payment_method"`
	Notes         string             `json:"notes"`
	CreatedBy     string             `json:"created_by"`
	CreatedAt     time.Time          `json:"created_at"`
}

// SaleListResponse lista paginada de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// CreateInvoiceRequest alta de factura.
type CreateInvoiceRequest struct {
	ShopID        string            `json:"shop_id" validate:"omitempty,uuid"`
	CustomerName  string            `json:"customer_name" validate:"required,min=1,max=200"`
	CustomerEmail string            `json:"customer_email" validate:"omitempty,email"`
	Items         []LineItemRequest `json:"items" validate:"required,min=1,dive"`
	Status        string            `json:"status" validate:"omitempty,oneof=draft sent paid"`
	DueDate       *time.Time        `json:"due_date"`
	Notes         string            `json:"notes" validate:"omitempty,max=2000"`
}

// UpdateInvoiceRequest cambios parciales. Las líneas solo se editan mientras no esté pagada.
type UpdateInvoiceRequest struct {
	CustomerName  *string           `json:"customer_name" validate:"omitempty,min=1,max=200"`
	CustomerEmail *string           `json:"customer_email" validate:"omitempty,email"`
	Items         []LineItemRequest `json:"items" validate:"omitempty,min=1,dive"`
	Status        *string           `json:"status" validate:"omitempty,oneof=draft sent paid void"`
	DueDate       *time.Time        `json:"due_date"`
	Notes         *string           `json:"notes" validate:"omitempty,max=2000"`
}

// InvoiceResponse salida de una factura.
type InvoiceResponse struct {
	ID            string             `json:"id"`
	ShopID        string             `json:"shop_id"`
	CustomerName  string             `json:"customer_name"`
	CustomerEmail string             `json:"customer_email,omitempty"`
	Items         []LineItemResponse `json:"items"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Tax           decimal.Decimal    `json:"tax"`
	Total         decimal.Decimal    `json:"total"`
	Status        string             `json:"status"`
	DueDate       *time.Time         `json:"due_date,omitempty"`
	PaidAt        *time.Time         `json:"paid_at,omitempty"`
	Notes         string             `json:"notes"`
	CreatedBy     string             `json:"created_by"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// InvoiceListResponse lista paginada de facturas.
type InvoiceListResponse struct {
	Items []InvoiceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// DocumentQuery filtros de listados de ventas, facturas y pedidos.
type DocumentQuery struct {
	PageRequest
	ShopID string `query:"shop_id"`
	Status string `query:"status"`
	Start  string `query:"start"`
	End    string `query:"end"`
}
