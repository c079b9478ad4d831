package billing

import (
	"context"

	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
)

// InvoicePDFGenerator genera la representación gráfica de una factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, invoice *entity.Invoice, shop *entity.Shop) ([]byte, error)
}
