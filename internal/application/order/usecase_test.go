package order_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tiendas-api/internal/application/dto"
	"github.com/jhoicas/Tiendas-api/internal/application/order"
	"github.com/jhoicas/Tiendas-api/internal/application/ports"
	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/access"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
	"github.com/jhoicas/Tiendas-api/internal/infrastructure/memory"
)

type fixture struct {
	repos     memory.Repositories
	uc        *order.OrderUseCase
	shopID    string
	productID string
	seller    access.Identity
	customer  access.Identity
}

func newFixture(t *testing.T, shopStatus string) *fixture {
	t.Helper()
	ctx := context.Background()
	repos := memory.NewStore().Repos()
	f := &fixture{
		repos:     repos,
		uc:        order.NewOrderUseCase(repos.Orders, repos.Products, repos.Shops, repos.Notifications, ports.NopPublisher{}),
		shopID:    uuid.NewString(),
		productID: uuid.NewString(),
	}
	f.seller = access.Identity{UserID: uuid.NewString(), Role: entity.RoleSeller, ShopID: f.shopID}
	f.customer = access.Identity{UserID: uuid.NewString(), Role: entity.RoleCustomer}
	require.NoError(t, repos.Shops.Create(ctx, &entity.Shop{ID: f.shopID, Name: "Tienda", OwnerID: f.seller.UserID, Status: shopStatus}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{
		ID: f.productID, ShopID: f.shopID, Name: "Té", Price: decimal.RequireFromString("4.50"), Stock: 10, IsActive: true, CreatedAt: time.Now().UTC(),
	}))
	return f
}

func (f *fixture) place(t *testing.T, qty int) *dto.OrderResponse {
	t.Helper()
	out, err := f.uc.Create(context.Background(), f.customer, dto.CreateOrderRequest{
		ShopID: f.shopID, Items: []dto.OrderItemRequest{{ProductID: f.productID, Quantity: qty}},
	})
	require.NoError(t, err)
	return out
}

func TestCreate_CongelaPrecioYNoTocaStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, entity.ShopStatusApproved)
	out := f.place(t, 2)
	assert.Equal(t, entity.OrderStatusPending, out.Status)
	assert.True(t, out.Total.Equal(decimal.NewFromInt(9)))
	assert.Equal(t, "Té", out.Items[0].Name)

	p, _ := f.repos.Products.GetByID(ctx, f.productID)
	p.Price = decimal.NewFromInt(100)
	require.NoError(t, f.repos.Products.Update(ctx, p))
	got, err := f.uc.GetByID(ctx, f.customer, out.ID)
	require.NoError(t, err)
	assert.True(t, got.Items[0].PriceAtPurchase.Equal(decimal.RequireFromString("4.50")))

	p, _ = f.repos.Products.GetByID(ctx, f.productID)
	assert.Equal(t, 10, p.Stock)

	notes, _, _ := f.repos.Notifications.ListByUser(ctx, f.seller.UserID, false, repository.Page{Limit: 10})
	require.Len(t, notes, 1)
	assert.Equal(t, entity.NotificationOrderCreated, notes[0].Type)
}

func TestCreate_TiendaNoAprobada(t *testing.T) {
	f := newFixture(t, entity.ShopStatusPending)
	_, err := f.uc.Create(context.Background(), f.customer, dto.CreateOrderRequest{
		ShopID: f.shopID, Items: []dto.OrderItemRequest{{ProductID: f.productID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrShopNotApproved)
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, entity.ShopStatusApproved)
	o := f.place(t, 1)

	_, err := f.uc.UpdateStatus(ctx, f.customer, o.ID, dto.UpdateOrderStatusRequest{Status: entity.OrderStatusPaid})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	out, err := f.uc.UpdateStatus(ctx, f.seller, o.ID, dto.UpdateOrderStatusRequest{Status: entity.OrderStatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCompleted, out.Status)

	_, err = f.uc.UpdateStatus(ctx, f.seller, o.ID, dto.UpdateOrderStatusRequest{Status: entity.OrderStatusPending})
	assert.ErrorIs(t, err, domain.ErrConflict, "completed es terminal")

	notes, _, _ := f.repos.Notifications.ListByUser(ctx, f.customer.UserID, false, repository.Page{Limit: 10})
	require.Len(t, notes, 1)
	assert.Equal(t, entity.NotificationOrderStatus, notes[0].Type)
}

func TestList_Alcance(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, entity.ShopStatusApproved)
	f.place(t, 1)
	other := access.Identity{UserID: uuid.NewString(), Role: entity.RoleCustomer}

	mine, err := f.uc.List(ctx, f.customer, dto.DocumentQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, mine.Page.Total)

	theirs, err := f.uc.List(ctx, other, dto.DocumentQuery{})
	require.NoError(t, err)
	assert.Zero(t, theirs.Page.Total)

	shop, err := f.uc.List(ctx, f.seller, dto.DocumentQuery{Status: entity.OrderStatusPending})
	require.NoError(t, err)
	assert.Equal(t, 1, shop.Page.Total)

	_, err = f.uc.List(ctx, f.seller, dto.DocumentQuery{Status: "lost"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDelete_ClienteSoloPendientes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, entity.ShopStatusApproved)
	pending := f.place(t, 1)
	paid := f.place(t, 1)
	_, err := f.uc.UpdateStatus(ctx, f.seller, paid.ID, dto.UpdateOrderStatusRequest{Status: entity.OrderStatusPaid})
	require.NoError(t, err)

	assert.ErrorIs(t, f.uc.Delete(ctx, f.customer, paid.ID), domain.ErrConflict)
	require.NoError(t, f.uc.Delete(ctx, f.customer, pending.ID))
	require.NoError(t, f.uc.Delete(ctx, f.seller, paid.ID))
}
