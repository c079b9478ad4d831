// Package access concentra la política de visibilidad por rol: qué registros puede
// ver o modificar una identidad según su rol, su tienda y el tipo de recurso.
// Los repositorios traducen el Scope resultante a SQL o a un predicado en memoria.
package access

import (
	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
)

// Identity identidad resuelta desde un token verificado (sin consultar la DB).
type Identity struct {
	UserID string
	Role   string
	ShopID string
}

// Resource tipo de recurso sobre el que se calcula el alcance.
type Resource string

const (
	ResourceProducts   Resource = "products"
	ResourceCategories Resource = "categories"
	ResourceSupplies   Resource = "supplies"
	ResourceInventory  Resource = "inventory"
	ResourceSales      Resource = "sales"
	ResourceInvoices   Resource = "invoices"
	ResourceOrders     Resource = "orders"
	ResourceUsers      Resource = "users"
)

// authored recursos donde el staff solo ve lo que él mismo creó.
var authored = map[Resource]bool{
	ResourceSales:    true,
	ResourceInvoices: true,
}

// Scope predicado de visibilidad. Los campos vacíos no restringen; None no coincide con nada.
type Scope struct {
	None      bool
	ShopID    string
	CreatedBy string
	UserID    string
}

// Nothing alcance vacío.
func Nothing() Scope { return Scope{None: true} }

// IsAll indica que el alcance no restringe nada (admin sin filtro de tienda).
func (s Scope) IsAll() bool {
	return !s.None && s.ShopID == "" && s.CreatedBy == "" && s.UserID == ""
}

// Record campos de un registro relevantes para el alcance.
// UserID es el comprador en pedidos y el propio id en usuarios.
type Record struct {
	ShopID    string
	CreatedBy string
	UserID    string
}

// Matches evalúa el predicado sobre un registro concreto.
func (s Scope) Matches(r Record) bool {
	if s.None {
		return false
	}
	if s.ShopID != "" && r.ShopID != s.ShopID {
		return false
	}
	if s.CreatedBy != "" && r.CreatedBy != s.CreatedBy {
		return false
	}
	if s.UserID != "" && r.UserID != s.UserID {
		return false
	}
	return true
}

// For construye el alcance de id sobre res. requestedShopID solo lo respetan admin y superadmin.
//
//	admin/superadmin  todo, o la tienda pedida
//	seller            su tienda
//	staff             su tienda; en ventas y facturas solo lo que creó
//	customer          sus pedidos; nada más
func For(id Identity, res Resource, requestedShopID string) Scope {
	switch id.Role {
	case entity.RoleAdmin, entity.RoleSuperadmin:
		return Scope{ShopID: requestedShopID}
	case entity.RoleSeller:
		if id.ShopID == "" {
			return Nothing()
		}
		return Scope{ShopID: id.ShopID}
	case entity.RoleStaff:
		if id.ShopID == "" {
			return Nothing()
		}
		s := Scope{ShopID: id.ShopID}
		if authored[res] {
			s.CreatedBy = id.UserID
		}
		if res == ResourceUsers {
			s.UserID = id.UserID
		}
		return s
	case entity.RoleCustomer:
		if res == ResourceOrders {
			return Scope{UserID: id.UserID}
		}
		if res == ResourceUsers {
			return Scope{UserID: id.UserID}
		}
		return Nothing()
	}
	return Nothing()
}

// ResolveShopID tienda destino de una creación. Vendedor y staff quedan atados a su tienda;
// admin y superadmin deben indicarla.
func ResolveShopID(id Identity, requested string) (string, error) {
	switch id.Role {
	case entity.RoleAdmin, entity.RoleSuperadmin:
		if requested == "" {
			return "", domain.ErrInvalidInput
		}
		return requested, nil
	case entity.RoleSeller, entity.RoleStaff:
		if id.ShopID == "" {
			return "", domain.ErrForbidden
		}
		if requested != "" && requested != id.ShopID {
			return "", domain.ErrForbidden
		}
		return id.ShopID, nil
	}
	return "", domain.ErrForbidden
}

// CanManageUser indica si actor puede modificar o eliminar target.
// superadmin sin restricción; admin cualquiera salvo superadmins; seller solo
// cuentas de su tienda que no sean admin; el resto solo a sí mismo.
func CanManageUser(actor Identity, target *entity.User) bool {
	switch actor.Role {
	case entity.RoleSuperadmin:
		return true
	case entity.RoleAdmin:
		return target.Role != entity.RoleSuperadmin
	case entity.RoleSeller:
		if actor.ShopID == "" || target.ShopID != actor.ShopID {
			return false
		}
		return !entity.IsPrivileged(target.Role)
	}
	return actor.UserID == target.ID
}

// CanChangeAccountControls solo superadmin cambia rol, tienda o estado activo de una cuenta.
func CanChangeAccountControls(actor Identity) bool {
	return actor.Role == entity.RoleSuperadmin
}
