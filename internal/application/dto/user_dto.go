package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateUserRequest alta de cuentas internas (staff, seller, admin).
type CreateUserRequest struct {
	Email          string           `json:"email" validate:"required,email"`
	Password       string           `json:"password" validate:"required,min=8,max=72"`
	Name           string           `json:"name" validate:"required,min=1,max=200"`
	Phone          string           `json:"phone" validate:"omitempty,max=40"`
	Role           string           `json:"role" validate:"required,oneof=customer staff seller admin"`
	ShopID         string           `json:"shop_id" validate:"omitempty,uuid"`
	Permissions    []string         `json:"permissions"`
	SalesTarget    *int             `json:"sales_target" validate:"omitempty,min=0"`
	CommissionRate *decimal.Decimal `json:"commission_rate"`
}

// UpdateUserRequest cambios parciales. Role, ShopID e IsActive solo los aplica un superadmin.
type UpdateUserRequest struct {
	Name           *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Phone          *string          `json:"phone" validate:"omitempty,max=40"`
	Password       *string          `json:"password" validate:"omitempty,min=8,max=72"`
	Permissions    []string         `json:"permissions"`
	SalesTarget    *int             `json:"sales_target" validate:"omitempty,min=0"`
	CommissionRate *decimal.Decimal `json:"commission_rate"`
	Role           *string          `json:"role" validate:"omitempty,oneof=customer staff seller admin superadmin"`
	ShopID         *string          `json:"shop_id"`
	IsActive       *bool            `json:"is_active"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID             string          `json:"id"`
	Email          string          `json:"email"`
	Name           string          `json:"name"`
	Phone          string          `json:"phone,omitempty"`
	Role           string          `json:"role"`
	ShopID         string          `json:"shop_id,omitempty"`
	IsActive       bool            `json:"is_active"`
	Permissions    []string        `json:"permissions"`
	SalesTarget    int             `json:"sales_target"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// UserListResponse lista paginada de usuarios.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
