package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Roles válidos para User.
const (
	RoleCustomer   = "customer"
	RoleStaff      = "staff"
	RoleSeller     = "seller"
	RoleAdmin      = "admin"
	RoleSuperadmin = "superadmin"
)

// IsPrivileged indica si el rol ve todas las tiendas (admin y superadmin).
func IsPrivileged(role string) bool {
	return role == RoleAdmin || role == RoleSuperadmin
}

// ValidRole indica si el rol existe.
func ValidRole(role string) bool {
	switch role {
	case RoleCustomer, RoleStaff, RoleSeller, RoleAdmin, RoleSuperadmin:
		return true
	}
	return false
}

// User representa una cuenta del sistema. Los clientes no pertenecen a ninguna tienda.
type User struct {
	ID             string
	Email          string
	PasswordHash   string // bcrypt hash
	Name           string
	Phone          string
	Role           string
	ShopID         string // vacío para customer, admin y superadmin
	IsActive       bool
	Permissions    []string
	SalesTarget    int             // meta de ventas del periodo
	CommissionRate decimal.Decimal // porcentaje sobre ingresos
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Valores por defecto de metas comerciales.
var (
	DefaultSalesTarget    = 100
	DefaultCommissionRate = decimal.NewFromInt(5)
)
