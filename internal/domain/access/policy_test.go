package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/access"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
)

var (
	superadmin = access.Identity{UserID: "sa", Role: entity.RoleSuperadmin}
	admin      = access.Identity{UserID: "ad", Role: entity.RoleAdmin}
	seller     = access.Identity{UserID: "se", Role: entity.RoleSeller, ShopID: "shop-a"}
	staff      = access.Identity{UserID: "st", Role: entity.RoleStaff, ShopID: "shop-a"}
	customer   = access.Identity{UserID: "cu", Role: entity.RoleCustomer}
)

var allResources = []access.Resource{
	access.ResourceProducts, access.ResourceCategories, access.ResourceSupplies,
	access.ResourceInventory, access.ResourceSales, access.ResourceInvoices,
	access.ResourceOrders, access.ResourceUsers,
}

// ──────────────────────────────────────────────────────────────────────────────
// For
// ──────────────────────────────────────────────────────────────────────────────

func TestFor_AdminVeTodoONarrowa(t *testing.T) {
	for _, id := range []access.Identity{admin, superadmin} {
		s := access.For(id, access.ResourceSales, "")
		assert.True(t, s.IsAll())

		s = access.For(id, access.ResourceSales, "shop-b")
		assert.Equal(t, "shop-b", s.ShopID)
		assert.True(t, s.Matches(access.Record{ShopID: "shop-b"}))
		assert.False(t, s.Matches(access.Record{ShopID: "shop-a"}))
	}
}

func TestFor_SellerIgnoraTiendaSolicitada(t *testing.T) {
	s := access.For(seller, access.ResourceProducts, "shop-b")
	assert.Equal(t, "shop-a", s.ShopID)
	assert.False(t, s.Matches(access.Record{ShopID: "shop-b"}))
}

func TestFor_StaffSoloLoQueCreoEnVentasYFacturas(t *testing.T) {
	for _, res := range []access.Resource{access.ResourceSales, access.ResourceInvoices} {
		s := access.For(staff, res, "")
		assert.True(t, s.Matches(access.Record{ShopID: "shop-a", CreatedBy: "st"}))
		assert.False(t, s.Matches(access.Record{ShopID: "shop-a", CreatedBy: "se"}))
	}
	s := access.For(staff, access.ResourceProducts, "")
	assert.True(t, s.Matches(access.Record{ShopID: "shop-a", CreatedBy: "se"}))
}

func TestFor_CustomerSoloSusPedidos(t *testing.T) {
	s := access.For(customer, access.ResourceOrders, "")
	assert.True(t, s.Matches(access.Record{ShopID: "shop-a", UserID: "cu"}))
	assert.False(t, s.Matches(access.Record{ShopID: "shop-a", UserID: "otro"}))

	for _, res := range []access.Resource{access.ResourceProducts, access.ResourceSales, access.ResourceInvoices, access.ResourceSupplies} {
		assert.True(t, access.For(customer, res, "").None, "customer no ve %s", res)
	}
}

func TestFor_SinTiendaNoVeNada(t *testing.T) {
	orphan := access.Identity{UserID: "x", Role: entity.RoleSeller}
	for _, res := range allResources {
		assert.True(t, access.For(orphan, res, "shop-a").None)
	}
	unknown := access.Identity{UserID: "x", Role: "intruso", ShopID: "shop-a"}
	assert.True(t, access.For(unknown, access.ResourceProducts, "").None)
}

// Ningún rol distinto de admin/superadmin obtiene registros de otra tienda.
func TestFor_NuncaCruzaTiendasSinPrivilegio(t *testing.T) {
	foreign := access.Record{ShopID: "shop-z", CreatedBy: "st", UserID: "cu"}
	for _, id := range []access.Identity{seller, staff, customer} {
		for _, res := range allResources {
			s := access.For(id, res, "shop-z")
			if id.Role == entity.RoleCustomer && (res == access.ResourceOrders || res == access.ResourceUsers) {
				// los pedidos del cliente pueden ser de cualquier tienda, pero solo los suyos
				assert.False(t, s.Matches(access.Record{ShopID: "shop-z", UserID: "otro"}))
				continue
			}
			assert.False(t, s.Matches(foreign), "%s/%s", id.Role, res)
		}
	}
}

func TestNothing_NoCoincide(t *testing.T) {
	assert.False(t, access.Nothing().Matches(access.Record{}))
}

// ──────────────────────────────────────────────────────────────────────────────
// ResolveShopID / CanManageUser
// ──────────────────────────────────────────────────────────────────────────────

func TestResolveShopID(t *testing.T) {
	got, err := access.ResolveShopID(seller, "")
	require.NoError(t, err)
	assert.Equal(t, "shop-a", got)

	_, err = access.ResolveShopID(seller, "shop-b")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = access.ResolveShopID(admin, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err = access.ResolveShopID(admin, "shop-b")
	require.NoError(t, err)
	assert.Equal(t, "shop-b", got)

	_, err = access.ResolveShopID(customer, "shop-a")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCanManageUser(t *testing.T) {
	sameShopStaff := &entity.User{ID: "u1", Role: entity.RoleStaff, ShopID: "shop-a"}
	otherShopStaff := &entity.User{ID: "u2", Role: entity.RoleStaff, ShopID: "shop-b"}
	root := &entity.User{ID: "u3", Role: entity.RoleSuperadmin}

	assert.True(t, access.CanManageUser(seller, sameShopStaff))
	assert.False(t, access.CanManageUser(seller, otherShopStaff))
	assert.True(t, access.CanManageUser(admin, otherShopStaff))
	assert.False(t, access.CanManageUser(admin, root))
	assert.True(t, access.CanManageUser(superadmin, root))
	assert.False(t, access.CanManageUser(staff, sameShopStaff))
	assert.True(t, access.CanManageUser(access.Identity{UserID: "u1", Role: entity.RoleStaff, ShopID: "shop-a"}, sameShopStaff))

	assert.True(t, access.CanChangeAccountControls(superadmin))
	assert.False(t, access.CanChangeAccountControls(admin))
}
