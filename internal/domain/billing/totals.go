package billing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Totals importes de un documento de venta.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// ComputeTax impuesto = subtotal × vatRate / 100.
func ComputeTax(subtotal, vatRate decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(vatRate).Div(hundred)
}

// ComputeTotals suma las líneas y aplica el IVA de la tienda.
// Tax y Total se redondean a centavos; los valores enviados por el cliente nunca se usan.
func ComputeTotals(items []entity.LineItem, vatRate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Total())
	}
	tax := ComputeTax(subtotal, vatRate).Round(2)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}
