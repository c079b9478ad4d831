package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tiendas-api/internal/application/billing"
	"github.com/jhoicas/Tiendas-api/internal/application/dto"
	"github.com/jhoicas/Tiendas-api/internal/application/ports"
	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/access"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/infrastructure/memory"
)

type fixture struct {
	store  *memory.Store
	repos  memory.Repositories
	shopID string
	seller access.Identity
	staff  access.Identity
}

func newFixture(t *testing.T, status string) *fixture {
	t.Helper()
	store := memory.NewStore()
	f := &fixture{store: store, repos: store.Repos(), shopID: uuid.NewString()}
	f.seller = access.Identity{UserID: uuid.NewString(), Role: entity.RoleSeller, ShopID: f.shopID}
	f.staff = access.Identity{UserID: uuid.NewString(), Role: entity.RoleStaff, ShopID: f.shopID}
	require.NoError(t, f.repos.Shops.Create(context.Background(), &entity.Shop{
		ID: f.shopID, Name: "Tienda", OwnerID: f.seller.UserID, Status: status,
		VATRate: decimal.NewFromInt(19), Currency: "USD", CreatedAt: time.Now().UTC(),
	}))
	return f
}

func (f *fixture) product(t *testing.T, stock int, price string) string {
	t.Helper()
	id := uuid.NewString()
	require.NoError(t, f.repos.Products.Create(context.Background(), &entity.Product{
		ID: id, ShopID: f.shopID, Name: "Café", Price: decimal.RequireFromString(price), Stock: stock, IsActive: true, CreatedAt: time.Now().UTC(),
	}))
	return id
}

func (f *fixture) stock(t *testing.T, id string) int {
	t.Helper()
	p, err := f.repos.Products.GetByID(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

func (f *fixture) sales() *billing.SaleUseCase {
	return billing.NewSaleUseCase(f.store, f.repos.Sales, f.repos.Shops, ports.NopPublisher{})
}

func (f *fixture) invoices() *billing.InvoiceUseCase {
	return billing.NewInvoiceUseCase(f.store, f.repos.Invoices, f.repos.Shops, ports.NopPublisher{})
}

func strPtr(s string) *string { return &s }

// ───────────────────────────────────────────────────────────────
// Ventas
// ───────────────────────────────────────────────────────────────

func TestSale_CreateCalculaTotalesYDescuentaStock(t *testing.T) {
	f := newFixture(t, entity.ShopStatusApproved)
	pid := f.product(t, 10, "100")
	free := decimal.NewFromInt(50)

	out, err := f.sales().Create(context.Background(), f.staff, dto.CreateSaleRequest{
		Items: []dto.LineItemRequest{
			{ProductID: pid, Quantity: 2},
			{Description: "Empaque", Quantity: 1, UnitPrice: &free},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "SALE-000001", out.SaleNumber)
	assert.Equal(t, billing.DefaultCustomerName, out.CustomerName)
	assert.Equal(t, entity.PaymentCash, out.PaymentMethod)
	assert.True(t, out.Subtotal.Equal(decimal.NewFromInt(250)))
	assert.True(t, out.Tax.Equal(decimal.RequireFromString("47.5")))
	assert.True(t, out.Total.Equal(decimal.RequireFromString("297.5")))
	assert.Equal(t, "Café", out.Items[0].Description, "la descripción se toma del producto")
	assert.Equal(t, 8, f.stock(t, pid))
}

func TestSale_NumeracionConsecutiva(t *testing.T) {
	f := newFixture(t, entity.ShopStatusApproved)
	pid := f.product(t, 10, "1")
	uc := f.sales()
	for i, want := range []string{"SALE-000001", "SALE-000002", "SALE-000003"} {
		out, err := uc.Create(context.Background(), f.seller, dto.CreateSaleRequest{Items: []dto.LineItemRequest{{ProductID: pid, Quantity: 1}}})
		require.NoError(t, err, "venta %d", i)
		assert.Equal(t, want, out.SaleNumber)
	}
}

func TestSale_TiendaNoAprobada(t *testing.T) {
	f := newFixture(t, entity.ShopStatusPending)
	pid := f.product(t, 10, "1")
	_, err := f.sales().Create(context.Background(), f.seller, dto.CreateSaleRequest{Items: []dto.LineItemRequest{{ProductID: pid, Quantity: 1}}})
	assert.ErrorIs(t, err, domain.ErrShopNotApproved)
}

func TestSale_LineaLibreSinPrecio(t *testing.T) {
	f := newFixture(t, entity.ShopStatusApproved)
	_, err := f.sales().Create(context.Background(), f.seller, dto.CreateSaleRequest{Items: []dto.LineItemRequest{{Description: "Servicio", Quantity: 1}}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSale_DeleteDevuelveStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, entity.ShopStatusApproved)
	pid := f.product(t, 5, "1")
	uc := f.sales()
	out, err := uc.Create(ctx, f.seller, dto.CreateSaleRequest{Items: []dto.LineItemRequest{{ProductID: pid, Quantity: 3}}})
	require.NoError(t, err)
	require.Equal(t, 2, f.stock(t, pid))

	require.NoError(t, uc.Delete(ctx, f.seller, out.ID))
	assert.Equal(t, 5, f.stock(t, pid))
}

func TestSale_BorradoConcurrenteDevuelveStockUnaVez(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, entity.ShopStatusApproved)
	pid := f.product(t, 5, "1")
	uc := f.sales()
	out, err := uc.Create(ctx, f.seller, dto.CreateSaleRequest{Items: []dto.LineItemRequest{{ProductID: pid, Quantity: 3}}})
	require.NoError(t, err)

	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() { errs <- uc.Delete(ctx, f.seller, out.ID) }()
	}
	var failed []error
	for i := 0; i < 2; i++ {
		if err := <-errs; err != nil {
			failed = append(failed, err)
		}
	}
	require.Len(t, failed, 1)
	assert.ErrorIs(t, failed[0], domain.ErrNotFound)
	assert.Equal(t, 5, f.stock(t, pid), "el stock vuelve una sola vez")
}

func TestSale_StaffSoloVeLasPropias(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, entity.ShopStatusApproved)
	pid := f.product(t, 10, "1")
	uc := f.sales()
	mine, err := uc.Create(ctx, f.staff, dto.CreateSaleRequest{Items: []dto.LineItemRequest{{ProductID: pid, Quantity: 1}}})
	require.NoError(t, err)
	other, err := uc.Create(ctx, f.seller, dto.CreateSaleRequest{Items: []dto.LineItemRequest{{ProductID: pid, Quantity: 1}}})
	require.NoError(t, err)

	list, err := uc.List(ctx, f.staff, dto.DocumentQuery{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, mine.ID, list.Items[0].ID)

	_, err = uc.GetByID(ctx, f.staff, other.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	all, err := uc.List(ctx, f.seller, dto.DocumentQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, all.Page.Total)
}

// ───────────────────────────────────────────────────────────────
// Facturas
// ───────────────────────────────────────────────────────────────

func TestInvoice_BorradorNoMueveStock(t *testing.T) {
	f := newFixture(t, entity.ShopStatusApproved)
	pid := f.product(t, 10, "10")
	out, err := f.invoices().Create(context.Background(), f.seller, dto.CreateInvoiceRequest{
		CustomerName: "ACME", Items: []dto.LineItemRequest{{ProductID: pid, Quantity: 4}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusDraft, out.Status)
	assert.True(t, out.Total.Equal(decimal.RequireFromString("47.6")))
	assert.Equal(t, 10, f.stock(t, pid))
}

func TestInvoice_PagarYAnular(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, entity.ShopStatusApproved)
	pid := f.product(t, 10, "10")
	uc := f.invoices()
	inv, err := uc.Create(ctx, f.seller, dto.CreateInvoiceRequest{
		CustomerName: "ACME", Items: []dto.LineItemRequest{{ProductID: pid, Quantity: 4}},
	})
	require.NoError(t, err)

	paid, err := uc.Update(ctx, f.seller, inv.ID, dto.UpdateInvoiceRequest{Status: strPtr(entity.InvoiceStatusPaid)})
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusPaid, paid.Status)
	assert.NotNil(t, paid.PaidAt)
	assert.Equal(t, 6, f.stock(t, pid))

	_, err = uc.Update(ctx, f.seller, inv.ID, dto.UpdateInvoiceRequest{Items: []dto.LineItemRequest{{ProductID: pid, Quantity: 1}}})
	assert.ErrorIs(t, err, domain.ErrConflict, "las líneas de una factura pagada no se editan")

	void, err := uc.Update(ctx, f.seller, inv.ID, dto.UpdateInvoiceRequest{Status: strPtr(entity.InvoiceStatusVoid)})
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusVoid, void.Status)
	assert.Equal(t, 10, f.stock(t, pid))

	_, err = uc.Update(ctx, f.seller, inv.ID, dto.UpdateInvoiceRequest{Notes: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestInvoice_EditarLineasDeBorrador(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, entity.ShopStatusApproved)
	pid := f.product(t, 10, "10")
	uc := f.invoices()
	inv, err := uc.Create(ctx, f.seller, dto.CreateInvoiceRequest{
		CustomerName: "ACME", Items: []dto.LineItemRequest{{ProductID: pid, Quantity: 4}},
	})
	require.NoError(t, err)

	type result struct {
		out *dto.InvoiceResponse
		err error
	}
	done := make(chan result, 1)
	go func() {
		out, err := uc.Update(ctx, f.seller, inv.ID, dto.UpdateInvoiceRequest{Items: []dto.LineItemRequest{{ProductID: pid, Quantity: 2}}})
		done <- result{out, err}
	}()

	select {
	case r := <-done:
		require.NoError(t, r.err)
		require.Len(t, r.out.Items, 1)
		assert.Equal(t, 2, r.out.Items[0].Quantity)
		assert.True(t, r.out.Total.Equal(decimal.RequireFromString("23.8")), "recalcula con el IVA de la tienda: %s", r.out.Total)
	case <-time.After(2 * time.Second):
		t.Fatal("la edición de líneas no terminó")
	}
	assert.Equal(t, 10, f.stock(t, pid), "un borrador no mueve stock")
}

func TestInvoice_CreadaPagadaYBorrada(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, entity.ShopStatusApproved)
	pid := f.product(t, 10, "10")
	uc := f.invoices()
	inv, err := uc.Create(ctx, f.seller, dto.CreateInvoiceRequest{
		CustomerName: "ACME", Status: entity.InvoiceStatusPaid, Items: []dto.LineItemRequest{{ProductID: pid, Quantity: 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, 7, f.stock(t, pid))

	require.NoError(t, uc.Delete(ctx, f.seller, inv.ID))
	assert.Equal(t, 10, f.stock(t, pid))
}

func TestInvoice_TransicionInvalida(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, entity.ShopStatusApproved)
	uc := f.invoices()
	price := decimal.NewFromInt(5)
	inv, err := uc.Create(ctx, f.seller, dto.CreateInvoiceRequest{
		CustomerName: "ACME", Status: entity.InvoiceStatusSent, Items: []dto.LineItemRequest{{Description: "Consultoría", Quantity: 1, UnitPrice: &price}},
	})
	require.NoError(t, err)
	_, err = uc.Update(ctx, f.seller, inv.ID, dto.UpdateInvoiceRequest{Status: strPtr(entity.InvoiceStatusDraft)})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestInvoice_NoSeCreaAnulada(t *testing.T) {
	f := newFixture(t, entity.ShopStatusApproved)
	price := decimal.NewFromInt(5)
	_, err := f.invoices().Create(context.Background(), f.seller, dto.CreateInvoiceRequest{
		CustomerName: "ACME", Status: entity.InvoiceStatusVoid, Items: []dto.LineItemRequest{{Description: "x", Quantity: 1, UnitPrice: &price}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ───────────────────────────────────────────────────────────────
// PDF
// ───────────────────────────────────────────────────────────────

type fakePDF struct{ calls int }

func (g *fakePDF) GenerateInvoicePDF(_ context.Context, inv *entity.Invoice, shop *entity.Shop) ([]byte, error) {
	g.calls++
	return []byte("%PDF-" + inv.ID + shop.Name), nil
}

func TestPDF_DescargaFactura(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, entity.ShopStatusApproved)
	price := decimal.NewFromInt(5)
	inv, err := f.invoices().Create(ctx, f.seller, dto.CreateInvoiceRequest{
		CustomerName: "ACME", Items: []dto.LineItemRequest{{Description: "x", Quantity: 1, UnitPrice: &price}},
	})
	require.NoError(t, err)

	gen := &fakePDF{}
	uc := billing.NewPDFUseCase(f.repos.Invoices, f.repos.Shops, gen)
	body, name, err := uc.DownloadInvoicePDF(ctx, f.seller, inv.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, body)
	assert.Equal(t, "factura_"+billing.ShortNumber(inv.ID)+".pdf", name)
	assert.Equal(t, 1, gen.calls)

	intruder := access.Identity{UserID: uuid.NewString(), Role: entity.RoleSeller, ShopID: uuid.NewString()}
	_, _, err = uc.DownloadInvoicePDF(ctx, intruder, inv.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestShortNumber(t *testing.T) {
	assert.Equal(t, "INV-ABCDEF12", billing.ShortNumber("abcdef12-3456-7890"))
}
