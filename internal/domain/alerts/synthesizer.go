// Package alerts deriva avisos efímeros a partir del estado actual de productos,
// facturas y suministros. Nada se persiste: cada llamada recalcula el conjunto y
// los IDs son deterministas ({tipo}-{id del documento}).
package alerts

import (
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
)

// Severidades.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeveritySuccess = "success"
	SeverityInfo    = "info"
)

// Tipos de alerta.
const (
	KindOutOfStock      = "out-of-stock"
	KindLowStock        = "low-stock"
	KindPaymentReceived = "payment-received"
	KindInvoiceOverdue  = "invoice-overdue"
	KindSupplyReceived  = "supply-received"
)

// Alert aviso derivado.
type Alert struct {
	ID        string
	Kind      string
	Severity  string
	Title     string
	Message   string
	Link      string
	CreatedAt time.Time
}

// Input estado actual ya filtrado por el alcance del solicitante.
type Input struct {
	Products []*entity.Product
	Invoices []*entity.Invoice
	Supplies []*entity.Supply
	// SupplyWindow antigüedad máxima de un suministro para generar aviso.
	SupplyWindow time.Duration
}

// Synthesize devuelve los avisos ordenados por CreatedAt descendente.
func Synthesize(in Input, now time.Time) []Alert {
	out := make([]Alert, 0)

	for _, p := range in.Products {
		switch {
		case p.IsOutOfStock():
			out = append(out, Alert{
				ID:        alertID(KindOutOfStock, p.ID),
				Kind:      KindOutOfStock,
				Severity:  SeverityError,
				Title:     "Producto agotado",
				Message:   fmt.Sprintf("%s no tiene existencias", p.Name),
				Link:      "/products/" + p.ID,
				CreatedAt: p.UpdatedAt,
			})
		case p.IsLowStock():
			out = append(out, Alert{
				ID:        alertID(KindLowStock, p.ID),
				Kind:      KindLowStock,
				Severity:  SeverityWarning,
				Title:     "Stock bajo",
				Message:   fmt.Sprintf("%s tiene %d unidades (mínimo %d)", p.Name, p.Stock, p.MinStock),
				Link:      "/products/" + p.ID,
				CreatedAt: p.UpdatedAt,
			})
		}
	}

	for _, inv := range in.Invoices {
		switch {
		case inv.Status == entity.InvoiceStatusPaid:
			at := inv.UpdatedAt
			if inv.PaidAt != nil {
				at = *inv.PaidAt
			}
			out = append(out, Alert{
				ID:        alertID(KindPaymentReceived, inv.ID),
				Kind:      KindPaymentReceived,
				Severity:  SeveritySuccess,
				Title:     "Pago recibido",
				Message:   fmt.Sprintf("%s pagó %s", inv.CustomerName, inv.Total.StringFixed(2)),
				Link:      "/invoices/" + inv.ID,
				CreatedAt: at,
			})
		case inv.IsOverdue(now):
			days := int(now.Sub(*inv.DueDate) / (24 * time.Hour))
			out = append(out, Alert{
				ID:        alertID(KindInvoiceOverdue, inv.ID),
				Kind:      KindInvoiceOverdue,
				Severity:  SeverityError,
				Title:     "Factura vencida",
				Message:   fmt.Sprintf("La factura de %s lleva %d días vencida", inv.CustomerName, days),
				Link:      "/invoices/" + inv.ID,
				CreatedAt: *inv.DueDate,
			})
		}
	}

	if in.SupplyWindow > 0 {
		since := now.Add(-in.SupplyWindow)
		for _, s := range in.Supplies {
			if s.ReceivedAt.Before(since) || s.ReceivedAt.After(now) {
				continue
			}
			out = append(out, Alert{
				ID:        alertID(KindSupplyReceived, s.ID),
				Kind:      KindSupplyReceived,
				Severity:  SeverityInfo,
				Title:     "Suministro recibido",
				Message:   fmt.Sprintf("%s entregó %d líneas", s.SupplierName, len(s.Items)),
				Link:      "/supplies/" + s.ID,
				CreatedAt: s.ReceivedAt,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func alertID(kind, id string) string {
	return kind + "-" + id
}
