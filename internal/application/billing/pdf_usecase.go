package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/access"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
)

// PDFUseCase genera la representación gráfica (PDF) de una factura.
type PDFUseCase struct {
	invoiceRepo repository.InvoiceRepository
	shopRepo    repository.ShopRepository
	generator   InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(invoiceRepo repository.InvoiceRepository, shopRepo repository.ShopRepository, generator InvoicePDFGenerator) *PDFUseCase {
	return &PDFUseCase{invoiceRepo: invoiceRepo, shopRepo: shopRepo, generator: generator}
}

// DownloadInvoicePDF genera el PDF de una factura visible para el solicitante.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la factura no existe.
//   - domain.ErrForbidden        si la factura está fuera del alcance del solicitante.
//   - domain.ErrConflict         si la factura está anulada.
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, id access.Identity, invoiceID string) (pdfBytes []byte, filename string, err error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, "", domain.ErrNotFound
	}
	if !access.For(id, access.ResourceInvoices, "").Matches(invoiceRecord(inv)) {
		return nil, "", domain.ErrForbidden
	}
	if inv.Status == entity.InvoiceStatusVoid {
		return nil, "", fmt.Errorf("%w: la factura está anulada", domain.ErrConflict)
	}

	shop, err := uc.shopRepo.GetByID(ctx, inv.ShopID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener tienda: %w", err)
	}
	if shop == nil {
		return nil, "", fmt.Errorf("pdf: tienda %s: %w", inv.ShopID, domain.ErrNotFound)
	}

	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, inv, shop)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("factura_%s.pdf", ShortNumber(inv.ID)), nil
}

// ShortNumber número visible de una factura: los primeros 8 caracteres del id en mayúsculas.
func ShortNumber(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return "INV-" + strings.ToUpper(id)
}
