package notification_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tiendas-api/internal/application/notification"
	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/access"
	"github.com/jhoicas/Tiendas-api/internal/domain/alerts"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/infrastructure/memory"
)

func newUseCase(repos memory.Repositories) *notification.NotificationUseCase {
	return notification.NewNotificationUseCase(repos.Notifications, repos.Products, repos.Invoices, repos.Supplies, 7)
}

func TestList_YMarkRead(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repos()
	uc := newUseCase(repos)
	me := access.Identity{UserID: uuid.NewString(), Role: entity.RoleCustomer}
	other := access.Identity{UserID: uuid.NewString(), Role: entity.RoleCustomer}
	now := time.Now().UTC()
	for i := 0; i < 3; i++ {
		require.NoError(t, repos.Notifications.Create(ctx, &entity.Notification{
			ID: uuid.NewString(), UserID: me.UserID, Type: entity.NotificationOrderStatus, Title: "x", CreatedAt: now.Add(time.Duration(i) * time.Second),
		}))
	}

	list, err := uc.List(ctx, me, notification.Query{})
	require.NoError(t, err)
	require.Len(t, list.Items, 3)
	assert.Equal(t, 3, list.Unread)

	_, err = uc.MarkRead(ctx, other, list.Items[0].ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "un aviso ajeno no existe para el solicitante")

	read, err := uc.MarkRead(ctx, me, list.Items[0].ID)
	require.NoError(t, err)
	assert.True(t, read.Read)

	unread, err := uc.List(ctx, me, notification.Query{Unread: true})
	require.NoError(t, err)
	assert.Equal(t, 2, unread.Page.Total)
	assert.Equal(t, 2, unread.Unread)
}

func TestAlerts_SoloDeLaTiendaDelSolicitante(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repos()
	uc := newUseCase(repos)
	shopID, otherShop := uuid.NewString(), uuid.NewString()
	seller := access.Identity{UserID: uuid.NewString(), Role: entity.RoleSeller, ShopID: shopID}
	now := time.Now().UTC()
	past := now.Add(-72 * time.Hour)

	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: uuid.NewString(), ShopID: shopID, Name: "Agotado", Stock: 0, UpdatedAt: now}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: uuid.NewString(), ShopID: shopID, Name: "Bajo", Stock: 2, MinStock: 5, UpdatedAt: now}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: uuid.NewString(), ShopID: shopID, Name: "Normal", Stock: 50, MinStock: 5, UpdatedAt: now}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: uuid.NewString(), ShopID: otherShop, Name: "Ajeno", Stock: 0, UpdatedAt: now}))
	require.NoError(t, repos.Invoices.Create(ctx, &entity.Invoice{
		ID: uuid.NewString(), ShopID: shopID, CustomerName: "ACME", Status: entity.InvoiceStatusSent, DueDate: &past, Total: decimal.NewFromInt(10), CreatedAt: past,
	}))
	require.NoError(t, repos.Supplies.Create(ctx, &entity.Supply{ID: uuid.NewString(), ShopID: shopID, SupplierName: "Dist", ReceivedAt: now.Add(-time.Hour)}))
	require.NoError(t, repos.Supplies.Create(ctx, &entity.Supply{ID: uuid.NewString(), ShopID: shopID, SupplierName: "Viejo", ReceivedAt: now.Add(-30 * 24 * time.Hour)}))

	out, err := uc.Alerts(ctx, seller, "")
	require.NoError(t, err)
	kinds := map[string]int{}
	for _, a := range out.Alerts {
		kinds[a.Type]++
	}
	assert.Equal(t, map[string]int{
		alerts.KindOutOfStock:     1,
		alerts.KindLowStock:       1,
		alerts.KindInvoiceOverdue: 1,
		alerts.KindSupplyReceived: 1,
	}, kinds)
	assert.Equal(t, 2, out.Counts[alerts.SeverityError])
	assert.Equal(t, 1, out.Counts[alerts.SeverityWarning])
	assert.Equal(t, 1, out.Counts[alerts.SeverityInfo])

	customer := access.Identity{UserID: uuid.NewString(), Role: entity.RoleCustomer}
	none, err := uc.Alerts(ctx, customer, "")
	require.NoError(t, err)
	assert.Empty(t, none.Alerts)
}
