package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tiendas-api/internal/application/analytics"
	"github.com/jhoicas/Tiendas-api/internal/application/dto"
	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/access"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/infrastructure/memory"
)

var day1 = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	repos   memory.Repositories
	uc      *analytics.ReportUseCase
	shopID  string
	seller  access.Identity
	staff   access.Identity
	coffee  string
	snacksC string
}

// newFixture tienda con un seller, un staff, dos productos y documentos en dos días.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	repos := memory.NewStore().Repos()
	f := &fixture{repos: repos, uc: analytics.NewReportUseCase(repos.Reports, repos.Shops), shopID: uuid.NewString()}
	f.seller = access.Identity{UserID: uuid.NewString(), Role: entity.RoleSeller, ShopID: f.shopID}
	f.staff = access.Identity{UserID: uuid.NewString(), Role: entity.RoleStaff, ShopID: f.shopID}

	require.NoError(t, repos.Shops.Create(ctx, &entity.Shop{ID: f.shopID, OwnerID: f.seller.UserID, Status: entity.ShopStatusApproved}))
	require.NoError(t, repos.Shops.Create(ctx, &entity.Shop{ID: uuid.NewString(), OwnerID: uuid.NewString(), Status: entity.ShopStatusPending}))
	require.NoError(t, repos.Users.Create(ctx, &entity.User{
		ID: f.seller.UserID, Email: "seller@test.local", Name: "Sara", Role: entity.RoleSeller, ShopID: f.shopID,
		SalesTarget: 4, CommissionRate: decimal.NewFromInt(10),
	}))
	require.NoError(t, repos.Users.Create(ctx, &entity.User{
		ID: f.staff.UserID, Email: "staff@test.local", Name: "Tomás", Role: entity.RoleStaff, ShopID: f.shopID,
		SalesTarget: 0, CommissionRate: decimal.NewFromInt(5),
	}))

	f.snacksC = uuid.NewString()
	require.NoError(t, repos.Categories.Create(ctx, &entity.Category{ID: f.snacksC, ShopID: f.shopID, Name: "Snacks"}))
	f.coffee = uuid.NewString()
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: f.coffee, ShopID: f.shopID, Name: "Café", Price: decimal.NewFromInt(10), Cost: decimal.NewFromInt(6), Stock: 0}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: uuid.NewString(), ShopID: f.shopID, Name: "Papas", CategoryID: f.snacksC, Price: decimal.NewFromInt(2), Cost: decimal.NewFromInt(1), Stock: 3, MinStock: 5}))

	line := func(qty int) []entity.LineItem {
		return []entity.LineItem{{ProductID: f.coffee, Description: "Café", Quantity: qty, UnitPrice: decimal.NewFromInt(10)}}
	}
	require.NoError(t, repos.Sales.Create(ctx, &entity.Sale{ID: uuid.NewString(), ShopID: f.shopID, Items: line(2), Total: decimal.NewFromInt(20), CreatedBy: f.seller.UserID, CreatedAt: day1}))
	require.NoError(t, repos.Sales.Create(ctx, &entity.Sale{ID: uuid.NewString(), ShopID: f.shopID, Items: line(1), Total: decimal.NewFromInt(10), CreatedBy: f.staff.UserID, CreatedAt: day1.Add(2 * time.Hour)}))
	require.NoError(t, repos.Invoices.Create(ctx, &entity.Invoice{ID: uuid.NewString(), ShopID: f.shopID, Items: line(3), Total: decimal.NewFromInt(30), Status: entity.InvoiceStatusPaid, CreatedBy: f.seller.UserID, CreatedAt: day1.Add(24 * time.Hour)}))
	require.NoError(t, repos.Invoices.Create(ctx, &entity.Invoice{ID: uuid.NewString(), ShopID: f.shopID, Items: line(9), Total: decimal.NewFromInt(90), Status: entity.InvoiceStatusDraft, CreatedBy: f.seller.UserID, CreatedAt: day1.Add(24 * time.Hour)}))
	require.NoError(t, repos.Orders.Create(ctx, &entity.Order{ID: uuid.NewString(), ShopID: f.shopID, UserID: uuid.NewString(), Total: decimal.NewFromInt(5), Status: entity.OrderStatusShipped, CreatedAt: day1.Add(24 * time.Hour)}))
	require.NoError(t, repos.Orders.Create(ctx, &entity.Order{ID: uuid.NewString(), ShopID: f.shopID, UserID: uuid.NewString(), Total: decimal.NewFromInt(7), Status: entity.OrderStatusPending, CreatedAt: day1}))
	return f
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	out, err := f.uc.Dashboard(ctx, f.seller, dto.ReportQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, out.ProductsCount)
	assert.Equal(t, 2, out.SalesCount)
	assert.Equal(t, 2, out.InvoicesCount)
	assert.Equal(t, 2, out.OrdersCount)
	assert.Equal(t, 1, out.LowStockCount)
	assert.Equal(t, 1, out.OutOfStockCount)
	assert.True(t, out.Revenue.Sales.Equal(decimal.NewFromInt(30)))
	assert.True(t, out.Revenue.Invoices.Equal(decimal.NewFromInt(30)), "solo facturas pagadas")
	assert.True(t, out.Revenue.Orders.Equal(decimal.NewFromInt(5)))
	assert.True(t, out.Revenue.Total.Equal(decimal.NewFromInt(65)))
	assert.Nil(t, out.ShopsPending, "shops_pending solo para privilegiados")

	admin := access.Identity{UserID: uuid.NewString(), Role: entity.RoleAdmin}
	adminOut, err := f.uc.Dashboard(ctx, admin, dto.ReportQuery{})
	require.NoError(t, err)
	require.NotNil(t, adminOut.ShopsPending)
	assert.Equal(t, 1, *adminOut.ShopsPending)
}

func TestDashboard_StockNegativoCuentaComoAgotado(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.repos.Products.Create(ctx, &entity.Product{ID: uuid.NewString(), ShopID: f.shopID, Name: "Sobrevendido", Price: decimal.NewFromInt(1), Stock: -4, MinStock: 2}))

	out, err := f.uc.Dashboard(ctx, f.seller, dto.ReportQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, out.OutOfStockCount)
	assert.Equal(t, 1, out.LowStockCount)
}

func TestDashboard_StaffSoloSusDocumentos(t *testing.T) {
	f := newFixture(t)
	out, err := f.uc.Dashboard(context.Background(), f.staff, dto.ReportQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, out.SalesCount)
	assert.Zero(t, out.InvoicesCount)
	assert.True(t, out.Revenue.Sales.Equal(decimal.NewFromInt(10)))
}

func TestSales_SerieDiaria(t *testing.T) {
	f := newFixture(t)
	out, err := f.uc.Sales(context.Background(), f.seller, dto.ReportQuery{})
	require.NoError(t, err)
	require.Len(t, out.Series, 2)
	assert.Equal(t, "2026-03-01", out.Series[0].Date)
	assert.Equal(t, 2, out.Series[0].Count)
	assert.True(t, out.Series[0].TotalRevenue.Equal(decimal.NewFromInt(30)))
	assert.Equal(t, "2026-03-02", out.Series[1].Date)
	assert.True(t, out.Series[1].TotalRevenue.Equal(decimal.NewFromInt(35)), "factura pagada más pedido enviado")
	assert.True(t, out.TotalRevenue.Equal(decimal.NewFromInt(65)))
	assert.Equal(t, 4, out.TotalCount)

	oneDay, err := f.uc.Sales(context.Background(), f.seller, dto.ReportQuery{Start: "2026-03-02", End: "2026-03-02"})
	require.NoError(t, err)
	require.Len(t, oneDay.Series, 1)
	assert.Equal(t, "2026-03-02", oneDay.Series[0].Date)
}

func TestSales_RangoInvertido(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Sales(context.Background(), f.seller, dto.ReportQuery{Start: "2026-03-05", End: "2026-03-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProducts_TopYStockPorCategoria(t *testing.T) {
	f := newFixture(t)
	out, err := f.uc.Products(context.Background(), f.seller, dto.ReportQuery{})
	require.NoError(t, err)
	require.Len(t, out.TopProducts, 1)
	assert.Equal(t, f.coffee, out.TopProducts[0].ProductID)
	assert.Equal(t, 6, out.TopProducts[0].Quantity, "ventas más facturas pagadas; el borrador no cuenta")
	assert.True(t, out.TopProducts[0].Revenue.Equal(decimal.NewFromInt(60)))

	require.Len(t, out.StockByCategory, 2)
	byName := map[string]dto.CategoryStockDTO{}
	for _, c := range out.StockByCategory {
		byName[c.CategoryName] = c
	}
	snacks := byName["Snacks"]
	assert.Equal(t, 3, snacks.Units)
	assert.True(t, snacks.CostValue.Equal(decimal.NewFromInt(3)))
	assert.True(t, snacks.RetailValue.Equal(decimal.NewFromInt(6)))
	assert.Equal(t, 1, byName[memory.UncategorizedName].Products)
}

func TestStaff_ComisionYCumplimiento(t *testing.T) {
	f := newFixture(t)
	out, err := f.uc.Staff(context.Background(), f.seller, dto.ReportQuery{})
	require.NoError(t, err)
	require.Len(t, out.Staff, 2)

	sara := out.Staff[0]
	assert.Equal(t, f.seller.UserID, sara.UserID)
	assert.Equal(t, 2, sara.TotalSales)
	assert.True(t, sara.Revenue.Equal(decimal.NewFromInt(50)))
	assert.True(t, sara.Commission.Equal(decimal.NewFromInt(5)))
	assert.True(t, sara.Achievement.Equal(decimal.NewFromInt(50)))

	tomas := out.Staff[1]
	assert.Equal(t, 1, tomas.TotalSales)
	assert.True(t, tomas.Commission.Equal(decimal.RequireFromString("0.5")))
	assert.True(t, tomas.Achievement.IsZero(), "sin meta el cumplimiento es 0")

	own, err := f.uc.Staff(context.Background(), f.staff, dto.ReportQuery{})
	require.NoError(t, err)
	require.Len(t, own.Staff, 1)
	assert.Equal(t, f.staff.UserID, own.Staff[0].UserID)
}

func TestCommissionYAchievement(t *testing.T) {
	assert.True(t, analytics.Commission(decimal.RequireFromString("1234.56"), decimal.NewFromInt(5)).Equal(decimal.RequireFromString("61.73")))
	assert.True(t, analytics.Achievement(1, 3).Equal(decimal.RequireFromString("33.33")))
	assert.True(t, analytics.Achievement(5, 0).IsZero())
}
