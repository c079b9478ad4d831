// Package pdf genera la representación imprimible de una factura de tienda.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tienda + dirección  │  N° Factura + Fecha + Estado │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre + email     │  Vencimiento / Pago          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Descripción | P.Unit | Total                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / IVA (x%) / TOTAL                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR de verificación + notas                         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appbilling "github.com/jhoicas/Tiendas-api/internal/application/billing"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
)

var _ appbilling.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 22, Green: 101, Blue: 52}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorVoid    = &props.Color{Red: 185, Green: 28, Blue: 28}
)

var statusLabels = map[string]string{
	entity.InvoiceStatusDraft: "BORRADOR",
	entity.InvoiceStatusSent:  "ENVIADA",
	entity.InvoiceStatusPaid:  "PAGADA",
	entity.InvoiceStatusVoid:  "ANULADA",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateInvoicePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(_ context.Context, invoice *entity.Invoice, shop *entity.Shop) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Factura "+appbilling.ShortNumber(invoice.ID), true).
		WithAuthor(shop.Name, true).
		Build()

	m := maroto.New(cfg)
	cur := currency(shop)

	m.AddRows(headerRow(invoice, shop))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(invoice))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(itemRows(invoice.Items, cur)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(invoice, shop, cur))

	m.AddRows(line.NewRow(4))
	m.AddRows(footerRow(invoice, shop))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(invoice *entity.Invoice, shop *entity.Shop) core.Row {
	statusColor := colorGray
	if invoice.Status == entity.InvoiceStatusVoid {
		statusColor = colorVoid
	}
	return row.New(20).Add(
		col.New(7).Add(
			text.New(shop.Name, props.Text{Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1}),
			text.New(nonEmpty(shop.Address, "—"), props.Text{Size: 8, Top: 9, Color: colorGray}),
			text.New("Tel: "+nonEmpty(shop.Phone, "—"), props.Text{Size: 8, Top: 13, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("FACTURA", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1}),
			text.New(appbilling.ShortNumber(invoice.ID), props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6}),
			text.New("Fecha: "+invoice.CreatedAt.Format("02/01/2006"), props.Text{Size: 8, Align: align.Right, Top: 12, Color: colorGray}),
			text.New(statusLabels[invoice.Status], props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 16, Color: statusColor}),
		),
	)
}

func customerRow(invoice *entity.Invoice) core.Row {
	due := "—"
	if invoice.DueDate != nil {
		due = invoice.DueDate.Format("02/01/2006")
	}
	paid := "—"
	if invoice.PaidAt != nil {
		paid = invoice.PaidAt.Format("02/01/2006")
	}
	return row.New(16).Add(
		col.New(8).Add(
			text.New("CLIENTE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(invoice.CustomerName, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(nonEmpty(invoice.CustomerEmail, "—"), props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("Vence: "+due, props.Text{Size: 8, Align: align.Right, Top: 6, Color: colorGray}),
			text.New("Pagada: "+paid, props.Text{Size: 8, Align: align.Right, Top: 11, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Descripción", 6, align.Left),
		h("Precio unit.", 2, align.Right),
		h("Total", 3, align.Right),
	)
}

func itemRows(items []entity.LineItem, cur string) []core.Row {
	out := make([]core.Row, 0, len(items))
	for _, it := range items {
		out = append(out, row.New(7).Add(
			col.New(1).Add(text.New(fmt.Sprint(it.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(6).Add(text.New(nonEmpty(it.Description, entity.DefaultItemDescription), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(money(it.UnitPrice, cur), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(money(it.Total(), cur), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return out
}

func totalsRow(invoice *entity.Invoice, shop *entity.Shop, cur string) core.Row {
	label := func(s string, p props.Text) core.Component {
		p.Align, p.Right = align.Right, 2
		return text.New(s, p)
	}
	bold := props.Text{Style: fontstyle.Bold, Size: 9}
	grand := props.Text{Style: fontstyle.Bold, Size: 10, Color: colorPrimary}
	top := func(p props.Text, t float64) props.Text { p.Top = t; return p }

	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label("Subtotal:", top(bold, 1)),
			label(fmt.Sprintf("IVA (%s%%):", shop.VATRate.String()), top(bold, 6)),
			label("TOTAL:", top(grand, 12)),
		),
		col.New(3).Add(
			label(money(invoice.Subtotal, cur), props.Text{Size: 9, Top: 1}),
			label(money(invoice.Tax, cur), props.Text{Size: 9, Top: 6}),
			label(money(invoice.Total, cur), top(grand, 12)),
		),
	)
}

// footerRow QR con los datos mínimos para verificar la factura más las notas.
func footerRow(invoice *entity.Invoice, shop *entity.Shop) core.Row {
	qr := strings.Join([]string{appbilling.ShortNumber(invoice.ID), invoice.ID, shop.ID, invoice.Total.StringFixed(2)}, "|")
	return row.New(36).Add(
		col.New(3).Add(code.NewQr(qr, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New("Notas", props.Text{Style: fontstyle.Bold, Size: 8, Top: 2, Left: 3, Color: colorPrimary}),
			text.New(nonEmpty(invoice.Notes, "—"), props.Text{Size: 8, Top: 7, Left: 3, Color: colorGray}),
			text.New("Documento generado por "+shop.Name+". Conserve este comprobante.", props.Text{Size: 6.5, Top: 28, Left: 3, Color: colorGray}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func currency(shop *entity.Shop) string {
	if shop.Currency == "" {
		return "USD"
	}
	return shop.Currency
}

// money formatea con dos decimales y separador de miles: "1234567.5" → "USD 1,234,567.50".
func money(v decimal.Decimal, cur string) string {
	s := v.Abs().StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-2:]
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	sign := ""
	if v.IsNegative() {
		sign = "-"
	}
	return cur + " " + sign + string(buf) + "." + frac
}
