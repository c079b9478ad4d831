package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest alta de producto. ShopID solo lo usan admin y superadmin.
type CreateProductRequest struct {
	ShopID      string          `json:"shop_id" validate:"omitempty,uuid"`
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Description string          `json:"description" validate:"omitempty,max=5000"`
	SKU         string          `json:"sku" validate:"omitempty,max=100"`
	Barcode     string          `json:"barcode" validate:"omitempty,max=100"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
	Stock       int             `json:"stock" validate:"min=0"`
	MinStock    int             `json:"min_stock" validate:"min=0"`
	CategoryID  string          `json:"category_id" validate:"omitempty,uuid"`
	Images      []string        `json:"images" validate:"omitempty,dive,url"`
}

// UpdateProductRequest cambios parciales (sin tienda ni stock).
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description" validate:"omitempty,max=5000"`
	SKU         *string          `json:"sku" validate:"omitempty,max=100"`
	Barcode     *string          `json:"barcode" validate:"omitempty,max=100"`
	Price       *decimal.Decimal `json:"price"`
	Cost        *decimal.Decimal `json:"cost"`
	MinStock    *int             `json:"min_stock" validate:"omitempty,min=0"`
	CategoryID  *string          `json:"category_id" validate:"omitempty,uuid"`
	Images      []string         `json:"images" validate:"omitempty,dive,url"`
	IsActive    *bool            `json:"is_active"`
}

// UpdateStockRequest corrección manual de stock.
type UpdateStockRequest struct {
	Stock     *int   `json:"stock" validate:"required,min=0"`
	Operation string `json:"operation" validate:"omitempty,oneof=set add subtract"`
	Note      string `json:"note" validate:"omitempty,max=500"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            string          `json:"id"`
	ShopID        string          `json:"shop_id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	SKU           string          `json:"sku,omitempty"`
	Barcode       string          `json:"barcode,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Cost          decimal.Decimal `json:"cost"`
	Stock         int             `json:"stock"`
	MinStock      int             `json:"min_stock"`
	CategoryID    string          `json:"category_id,omitempty"`
	Images        []string        `json:"images"`
	IsActive      bool            `json:"is_active"`
	RatingAverage decimal.Decimal `json:"rating_average"`
	RatingCount   int             `json:"rating_count"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ProductQuery filtros del listado.
type ProductQuery struct {
	PageRequest
	ShopID     string `query:"shop_id"`
	Query      string `query:"q"`
	CategoryID string `query:"category_id"`
	SKU        string `query:"sku"`
	Barcode    string `query:"barcode"`
}

// CreateCategoryRequest alta de categoría.
type CreateCategoryRequest struct {
	ShopID      string `json:"shop_id" validate:"omitempty,uuid"`
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Slug        string `json:"slug" validate:"omitempty,max=100"`
	Description string `json:"description" validate:"omitempty,max=1000"`
}

// UpdateCategoryRequest cambios parciales.
type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	IsActive    *bool   `json:"is_active"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID          string    `json:"id"`
	ShopID      string    `json:"shop_id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateReviewRequest reseña de producto.
type CreateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"omitempty,max=2000"`
}

// ReviewResponse salida de una reseña.
type ReviewResponse struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	UserID    string    `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// ReviewListResponse lista paginada de reseñas.
type ReviewListResponse struct {
	Items []ReviewResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}
