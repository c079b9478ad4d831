package shop_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tiendas-api/internal/application/catalog"
	"github.com/jhoicas/Tiendas-api/internal/application/dto"
	"github.com/jhoicas/Tiendas-api/internal/application/ports"
	"github.com/jhoicas/Tiendas-api/internal/application/shop"
	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/access"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
	"github.com/jhoicas/Tiendas-api/internal/infrastructure/memory"
)

type recorder struct{ events []ports.Event }

func (r *recorder) Publish(_ context.Context, ev ports.Event) error {
	r.events = append(r.events, ev)
	return nil
}

func (r *recorder) types() []string {
	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Type)
	}
	return out
}

type fixture struct {
	store      *memory.Store
	repos      memory.Repositories
	events     *recorder
	uc         *shop.ShopUseCase
	superadmin access.Identity
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	f := &fixture{store: store, repos: store.Repos(), events: &recorder{}}
	f.uc = shop.NewShopUseCase(f.repos.Shops, f.repos.Users, f.repos.Notifications, f.events)
	f.superadmin = f.user(t, entity.RoleSuperadmin)
	return f
}

func (f *fixture) user(t *testing.T, role string) access.Identity {
	t.Helper()
	id := uuid.NewString()
	require.NoError(t, f.repos.Users.Create(context.Background(), &entity.User{
		ID: id, Email: id + "@test.local", Name: role, Role: role, IsActive: true, CreatedAt: time.Now().UTC(),
	}))
	return access.Identity{UserID: id, Role: role}
}

func (f *fixture) notifications(t *testing.T, userID string) []*entity.Notification {
	t.Helper()
	list, _, err := f.repos.Notifications.ListByUser(context.Background(), userID, false, repository.Page{Limit: 50})
	require.NoError(t, err)
	return list
}

// ───────────────────────────────────────────────────────────────
// Alta y aprobación
// ───────────────────────────────────────────────────────────────

func TestCreate_PendienteYAsociaAlSeller(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	seller := f.user(t, entity.RoleSeller)

	out, err := f.uc.Create(ctx, seller, dto.CreateShopRequest{Name: "Mi Tienda", Currency: "cop"})
	require.NoError(t, err)
	assert.Equal(t, entity.ShopStatusPending, out.Status)
	assert.Equal(t, "COP", out.Currency)
	assert.Equal(t, seller.UserID, out.OwnerID)
	assert.True(t, out.VATRate.IsZero())

	u, _ := f.repos.Users.GetByID(ctx, seller.UserID)
	assert.Equal(t, out.ID, u.ShopID)

	notes := f.notifications(t, f.superadmin.UserID)
	require.Len(t, notes, 1)
	assert.Equal(t, entity.NotificationShopPending, notes[0].Type)
	assert.Equal(t, []string{ports.EventShopCreated}, f.events.types())
}

func TestCreate_SellerConTiendaConflicto(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	seller := f.user(t, entity.RoleSeller)
	_, err := f.uc.Create(ctx, seller, dto.CreateShopRequest{Name: "Primera"})
	require.NoError(t, err)
	_, err = f.uc.Create(ctx, seller, dto.CreateShopRequest{Name: "Segunda"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCreate_IVANegativo(t *testing.T) {
	f := newFixture(t)
	seller := f.user(t, entity.RoleSeller)
	vat := decimal.NewFromInt(-1)
	_, err := f.uc.Create(context.Background(), seller, dto.CreateShopRequest{Name: "Mala", VATRate: &vat})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestApprove_SoloSuperadminYSoloDesdePending(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	seller := f.user(t, entity.RoleSeller)
	admin := f.user(t, entity.RoleAdmin)
	created, err := f.uc.Create(ctx, seller, dto.CreateShopRequest{Name: "Mi Tienda"})
	require.NoError(t, err)

	_, err = f.uc.Approve(ctx, admin, created.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	approved, err := f.uc.Approve(ctx, f.superadmin, created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ShopStatusApproved, approved.Status)
	assert.Equal(t, f.superadmin.UserID, approved.ApprovedBy)
	require.NotNil(t, approved.ApprovedAt)

	_, err = f.uc.Reject(ctx, f.superadmin, created.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	notes := f.notifications(t, seller.UserID)
	require.Len(t, notes, 1)
	assert.Equal(t, entity.NotificationShopApproved, notes[0].Type)
}

// Una tienda pendiente no puede publicar productos; al aprobarla sí.
func TestApprove_HabilitaCatalogo(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	seller := f.user(t, entity.RoleSeller)
	created, err := f.uc.Create(ctx, seller, dto.CreateShopRequest{Name: "Mi Tienda"})
	require.NoError(t, err)
	seller.ShopID = created.ID

	products := catalog.NewProductUseCase(f.store, f.repos.Products, f.repos.Shops, f.repos.Categories)
	req := dto.CreateProductRequest{Name: "Pan", Price: decimal.NewFromInt(2), Stock: 3}

	_, err = products.Create(ctx, seller, req)
	require.ErrorIs(t, err, domain.ErrShopNotApproved)

	_, err = f.uc.Approve(ctx, f.superadmin, created.ID)
	require.NoError(t, err)

	p, err := products.Create(ctx, seller, req)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Stock)
	assert.NotEmpty(t, p.Barcode)

	public, err := products.Catalog(ctx, dto.ProductQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, public.Page.Total)
}

// ───────────────────────────────────────────────────────────────
// Visibilidad
// ───────────────────────────────────────────────────────────────

func TestList_Visibilidad(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.user(t, entity.RoleSeller)
	other := f.user(t, entity.RoleSeller)
	pending, err := f.uc.Create(ctx, owner, dto.CreateShopRequest{Name: "Pendiente"})
	require.NoError(t, err)
	approved, err := f.uc.Create(ctx, other, dto.CreateShopRequest{Name: "Aprobada"})
	require.NoError(t, err)
	_, err = f.uc.Approve(ctx, f.superadmin, approved.ID)
	require.NoError(t, err)

	anon, err := f.uc.List(ctx, access.Identity{}, shop.Query{})
	require.NoError(t, err)
	assert.Equal(t, 1, anon.Page.Total)

	mine, err := f.uc.List(ctx, owner, shop.Query{})
	require.NoError(t, err)
	assert.Equal(t, 2, mine.Page.Total, "aprobadas más la propia")

	all, err := f.uc.List(ctx, f.superadmin, shop.Query{Status: entity.ShopStatusPending})
	require.NoError(t, err)
	require.Equal(t, 1, all.Page.Total)
	assert.Equal(t, pending.ID, all.Items[0].ID)

	_, err = f.uc.GetByID(ctx, other, pending.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_SoloPropietario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.user(t, entity.RoleSeller)
	other := f.user(t, entity.RoleSeller)
	created, err := f.uc.Create(ctx, owner, dto.CreateShopRequest{Name: "Mi Tienda"})
	require.NoError(t, err)

	name := "Otra"
	_, err = f.uc.Update(ctx, other, created.ID, dto.UpdateShopRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	out, err := f.uc.Update(ctx, owner, created.ID, dto.UpdateShopRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Otra", out.Name)
}
