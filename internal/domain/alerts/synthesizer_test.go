package alerts_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tiendas-api/internal/domain/alerts"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func product(id string, stock, minStock int) *entity.Product {
	return &entity.Product{ID: id, Name: "P-" + id, Stock: stock, MinStock: minStock, UpdatedAt: now.Add(-time.Hour)}
}

func TestSynthesize_Stock(t *testing.T) {
	got := alerts.Synthesize(alerts.Input{Products: []*entity.Product{
		product("a", 0, 2),
		product("b", 2, 2),
		product("c", 3, 2),
	}}, now)

	require.Len(t, got, 2)
	byID := map[string]alerts.Alert{}
	for _, a := range got {
		byID[a.ID] = a
	}
	assert.Equal(t, alerts.SeverityError, byID["out-of-stock-a"].Severity)
	assert.Equal(t, alerts.SeverityWarning, byID["low-stock-b"].Severity)
	_, hasC := byID["low-stock-c"]
	assert.False(t, hasC, "stock por encima del mínimo no genera alerta")
}

func TestSynthesize_ProductoAgotadoUnaSolaAlerta(t *testing.T) {
	got := alerts.Synthesize(alerts.Input{Products: []*entity.Product{product("x", 0, 0)}}, now)
	require.Len(t, got, 1)
	assert.Equal(t, "out-of-stock-x", got[0].ID)
}

func TestSynthesize_StockNegativoEsAgotado(t *testing.T) {
	got := alerts.Synthesize(alerts.Input{Products: []*entity.Product{product("n", -3, 2)}}, now)
	require.Len(t, got, 1)
	assert.Equal(t, "out-of-stock-n", got[0].ID)
	assert.Equal(t, alerts.SeverityError, got[0].Severity)
}

func TestSynthesize_Facturas(t *testing.T) {
	due := now.Add(-(3*24*time.Hour + 5*time.Hour))
	paidAt := now.Add(-2 * time.Hour)
	got := alerts.Synthesize(alerts.Input{Invoices: []*entity.Invoice{
		{ID: "i1", Status: entity.InvoiceStatusPaid, PaidAt: &paidAt, CustomerName: "Ana", Total: decimal.NewFromInt(10)},
		{ID: "i2", Status: entity.InvoiceStatusSent, DueDate: &due, CustomerName: "Luis"},
		{ID: "i3", Status: entity.InvoiceStatusDraft, DueDate: &due},
	}}, now)

	require.Len(t, got, 2)
	assert.Equal(t, "payment-received-i1", got[0].ID, "más reciente primero")
	assert.Equal(t, alerts.SeveritySuccess, got[0].Severity)
	assert.Equal(t, "invoice-overdue-i2", got[1].ID)
	assert.Equal(t, alerts.SeverityError, got[1].Severity)
	assert.Contains(t, got[1].Message, "3 días")
}

func TestSynthesize_SuministrosRecientes(t *testing.T) {
	got := alerts.Synthesize(alerts.Input{
		Supplies: []*entity.Supply{
			{ID: "s1", SupplierName: "Acme", ReceivedAt: now.Add(-24 * time.Hour)},
			{ID: "s2", SupplierName: "Old", ReceivedAt: now.Add(-30 * 24 * time.Hour)},
		},
		SupplyWindow: 7 * 24 * time.Hour,
	}, now)

	require.Len(t, got, 1)
	assert.Equal(t, "supply-received-s1", got[0].ID)
	assert.Equal(t, alerts.SeverityInfo, got[0].Severity)
}

func TestSynthesize_IDsEstables(t *testing.T) {
	in := alerts.Input{Products: []*entity.Product{product("a", 0, 1), product("b", 1, 1)}}
	first := alerts.Synthesize(in, now)
	second := alerts.Synthesize(in, now)
	assert.Equal(t, first, second)
}
