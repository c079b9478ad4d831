package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
)

var now = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

// ──────────────────────────────────────────────────────────────────────────────
// Shop
// ──────────────────────────────────────────────────────────────────────────────

func TestShop_ApproveDesdePending(t *testing.T) {
	s := &entity.Shop{Status: entity.ShopStatusPending}
	require.NoError(t, s.Approve("sa-1", now))

	assert.True(t, s.IsApproved())
	assert.Equal(t, "sa-1", s.ApprovedBy)
	require.NotNil(t, s.ApprovedAt)
	assert.Equal(t, now, *s.ApprovedAt)
}

func TestShop_EstadosFinalesSonTerminales(t *testing.T) {
	s := &entity.Shop{Status: entity.ShopStatusPending}
	require.NoError(t, s.Reject("sa-1", now))
	assert.ErrorIs(t, s.Approve("sa-1", now), domain.ErrConflict)

	s = &entity.Shop{Status: entity.ShopStatusApproved}
	assert.ErrorIs(t, s.Reject("sa-1", now), domain.ErrConflict)
}

// ──────────────────────────────────────────────────────────────────────────────
// Invoice
// ──────────────────────────────────────────────────────────────────────────────

func TestInvoice_Transiciones(t *testing.T) {
	cases := []struct {
		from, to string
		err      error
	}{
		{entity.InvoiceStatusDraft, entity.InvoiceStatusSent, nil},
		{entity.InvoiceStatusDraft, entity.InvoiceStatusPaid, nil},
		{entity.InvoiceStatusSent, entity.InvoiceStatusPaid, nil},
		{entity.InvoiceStatusPaid, entity.InvoiceStatusVoid, nil},
		{entity.InvoiceStatusPaid, entity.InvoiceStatusSent, domain.ErrConflict},
		{entity.InvoiceStatusVoid, entity.InvoiceStatusDraft, domain.ErrConflict},
		{entity.InvoiceStatusDraft, "archivada", domain.ErrInvalidInput},
	}
	for _, c := range cases {
		inv := &entity.Invoice{Status: c.from}
		err := inv.TransitionTo(c.to, now)
		if c.err == nil {
			require.NoError(t, err, "%s→%s", c.from, c.to)
			assert.Equal(t, c.to, inv.Status)
		} else {
			assert.ErrorIs(t, err, c.err, "%s→%s", c.from, c.to)
			assert.Equal(t, c.from, inv.Status)
		}
	}
}

func TestInvoice_PagadaRegistraFecha(t *testing.T) {
	inv := &entity.Invoice{Status: entity.InvoiceStatusSent}
	require.NoError(t, inv.TransitionTo(entity.InvoiceStatusPaid, now))
	require.NotNil(t, inv.PaidAt)
	assert.Equal(t, now, *inv.PaidAt)
}

// ──────────────────────────────────────────────────────────────────────────────
// Order / Supply
// ──────────────────────────────────────────────────────────────────────────────

func TestOrder_TerminalNoCambia(t *testing.T) {
	o := &entity.Order{Status: entity.OrderStatusCompleted}
	assert.ErrorIs(t, o.SetStatus(entity.OrderStatusPending, now), domain.ErrConflict)

	o = &entity.Order{Status: entity.OrderStatusPending}
	require.NoError(t, o.SetStatus(entity.OrderStatusShipped, now))
	assert.True(t, o.CountsAsRevenue())
}

func TestSupply_TotalCost(t *testing.T) {
	s := &entity.Supply{Items: []entity.SupplyItem{
		{ProductID: "a", Quantity: 5, UnitCost: decimalFromString("2")},
		{ProductID: "b", Quantity: 3, UnitCost: decimalFromString("1.5")},
	}}
	s.ComputeTotalCost()
	assert.Equal(t, "14.5", s.TotalCost.String())
}

func TestProduct_EstadoDeStock(t *testing.T) {
	cases := []struct {
		stock, min int
		out, low   bool
	}{
		{stock: -3, min: 2, out: true},
		{stock: 0, min: 0, out: true},
		{stock: 2, min: 2, low: true},
		{stock: 3, min: 2},
	}
	for _, c := range cases {
		p := &entity.Product{Stock: c.stock, MinStock: c.min}
		assert.Equal(t, c.out, p.IsOutOfStock(), "stock %d", c.stock)
		assert.Equal(t, c.low, p.IsLowStock(), "stock %d", c.stock)
	}
}
