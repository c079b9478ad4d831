package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Tiendas-api/internal/application/dto"
	"github.com/jhoicas/Tiendas-api/internal/application/inventory"
	"github.com/jhoicas/Tiendas-api/internal/application/ports"
	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/access"
	dombilling "github.com/jhoicas/Tiendas-api/internal/domain/billing"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
)

// InvoiceUseCase facturas a clientes. Las líneas con producto descuentan stock
// cuando la factura pasa a paid; anular o eliminar una factura pagada lo devuelve.
type InvoiceUseCase struct {
	txRunner    inventory.TxRunner
	invoiceRepo repository.InvoiceRepository
	shopRepo    repository.ShopRepository
	events      ports.EventPublisher
	ledger      inventory.Ledger
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(txRunner inventory.TxRunner, invoiceRepo repository.InvoiceRepository, shopRepo repository.ShopRepository, events ports.EventPublisher) *InvoiceUseCase {
	return &InvoiceUseCase{txRunner: txRunner, invoiceRepo: invoiceRepo, shopRepo: shopRepo, events: events}
}

// Create registra la factura (draft por defecto). Si nace pagada descuenta el stock en la misma transacción.
func (uc *InvoiceUseCase) Create(ctx context.Context, id access.Identity, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	shopID, err := access.ResolveShopID(id, in.ShopID)
	if err != nil {
		return nil, err
	}
	shop, err := loadShop(ctx, uc.shopRepo, shopID)
	if err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = entity.InvoiceStatusDraft
	}
	if status == entity.InvoiceStatusVoid || !entity.ValidInvoiceStatus(status) {
		return nil, fmt.Errorf("%w: estado inicial inválido %q", domain.ErrInvalidInput, status)
	}

	now := time.Now().UTC()
	inv := &entity.Invoice{
		ID:            uuid.New().String(),
		ShopID:        shopID,
		CustomerName:  in.CustomerName,
		CustomerEmail: in.CustomerEmail,
		Status:        status,
		DueDate:       utcPtr(in.DueDate),
		Notes:         in.Notes,
		CreatedBy:     id.UserID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if status == entity.InvoiceStatusPaid {
		inv.PaidAt = &now
	}

	err = uc.txRunner.Run(ctx, func(repos inventory.TxRepos) error {
		items, err := buildLines(ctx, repos.Products, shopID, in.Items)
		if err != nil {
			return err
		}
		totals := dombilling.ComputeTotals(items, shop.VATRate)
		inv.Items, inv.Subtotal, inv.Tax, inv.Total = items, totals.Subtotal, totals.Tax, totals.Total
		if inv.Status == entity.InvoiceStatusPaid {
			if err := uc.applyStock(ctx, repos, inv, id.UserID, now); err != nil {
				return err
			}
		}
		return repos.Invoices.Create(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	if inv.Status == entity.InvoiceStatusPaid {
		uc.publishPaid(ctx, inv, id.UserID, now)
	}
	return toInvoiceResponse(inv), nil
}

// Update cambios parciales y transición de estado. Las líneas solo se editan antes del pago;
// una factura anulada no admite cambios.
func (uc *InvoiceUseCase) Update(ctx context.Context, id access.Identity, invoiceID string, in dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	now := time.Now().UTC()
	var (
		updated    *entity.Invoice
		wasPaid    bool
		becamePaid bool
	)
	err := uc.txRunner.Run(ctx, func(repos inventory.TxRepos) error {
		inv, err := repos.Invoices.GetForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if !access.For(id, access.ResourceInvoices, "").Matches(invoiceRecord(inv)) {
			return domain.ErrForbidden
		}
		if inv.Status == entity.InvoiceStatusVoid {
			return fmt.Errorf("%w: la factura está anulada", domain.ErrConflict)
		}
		wasPaid = inv.Status == entity.InvoiceStatusPaid

		if in.Items != nil {
			if inv.Status == entity.InvoiceStatusPaid {
				return fmt.Errorf("%w: no se pueden editar las líneas de una factura pagada", domain.ErrConflict)
			}
			shop, err := repos.Shops.GetByID(ctx, inv.ShopID)
			if err != nil {
				return err
			}
			if shop == nil {
				return fmt.Errorf("%w: tienda %s", domain.ErrNotFound, inv.ShopID)
			}
			items, err := buildLines(ctx, repos.Products, inv.ShopID, in.Items)
			if err != nil {
				return err
			}
			totals := dombilling.ComputeTotals(items, shop.VATRate)
			inv.Items, inv.Subtotal, inv.Tax, inv.Total = items, totals.Subtotal, totals.Tax, totals.Total
		}
		if in.CustomerName != nil {
			inv.CustomerName = *in.CustomerName
		}
		if in.CustomerEmail != nil {
			inv.CustomerEmail = *in.CustomerEmail
		}
		if in.DueDate != nil {
			inv.DueDate = utcPtr(in.DueDate)
		}
		if in.Notes != nil {
			inv.Notes = *in.Notes
		}
		if in.Status != nil {
			if err := inv.TransitionTo(*in.Status, now); err != nil {
				return fmt.Errorf("%w: %s → %s", err, inv.Status, *in.Status)
			}
		}

		switch {
		case inv.Status == entity.InvoiceStatusPaid && !inv.StockApplied:
			if err := uc.applyStock(ctx, repos, inv, id.UserID, now); err != nil {
				return err
			}
			becamePaid = !wasPaid
		case inv.Status == entity.InvoiceStatusVoid && inv.StockApplied:
			if err := uc.reverseStock(ctx, repos, inv, id.UserID, now, "Anulación de factura"); err != nil {
				return err
			}
		}
		inv.UpdatedAt = now
		if err := repos.Invoices.Update(ctx, inv); err != nil {
			return err
		}
		updated = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	if becamePaid {
		uc.publishPaid(ctx, updated, id.UserID, now)
	}
	return toInvoiceResponse(updated), nil
}

// Delete elimina la factura; si ya había descontado stock lo devuelve en la misma transacción.
func (uc *InvoiceUseCase) Delete(ctx context.Context, id access.Identity, invoiceID string) error {
	now := time.Now().UTC()
	return uc.txRunner.Run(ctx, func(repos inventory.TxRepos) error {
		inv, err := repos.Invoices.GetForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if !access.For(id, access.ResourceInvoices, "").Matches(invoiceRecord(inv)) {
			return domain.ErrForbidden
		}
		if inv.StockApplied {
			if err := uc.reverseStock(ctx, repos, inv, id.UserID, now, "Eliminación de factura"); err != nil {
				return err
			}
		}
		return repos.Invoices.Delete(ctx, inv.ID)
	})
}

// GetByID factura del alcance del solicitante.
func (uc *InvoiceUseCase) GetByID(ctx context.Context, id access.Identity, invoiceID string) (*dto.InvoiceResponse, error) {
	inv, err := uc.load(ctx, id, invoiceID)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

// List facturas del alcance con filtro opcional de estado y fechas.
func (uc *InvoiceUseCase) List(ctx context.Context, id access.Identity, q dto.DocumentQuery) (*dto.InvoiceListResponse, error) {
	q.Normalize()
	if q.Status != "" && !entity.ValidInvoiceStatus(q.Status) {
		return nil, fmt.Errorf("%w: estado desconocido %q", domain.ErrInvalidInput, q.Status)
	}
	from, to, err := dto.ParseDateRange(q.Start, q.End)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	list, total, err := uc.invoiceRepo.List(ctx, repository.DocumentFilter{
		ScopedFilter: repository.ScopedFilter{
			Scope: access.For(id, access.ResourceInvoices, q.ShopID),
			Page:  repository.Page{Limit: q.Limit, Offset: q.Offset()},
		},
		Status: q.Status,
		Range:  repository.DateRange{From: from, To: to},
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		items = append(items, *toInvoiceResponse(inv))
	}
	return &dto.InvoiceListResponse{Items: items, Page: dto.NewPageResponse(q.PageRequest, total)}, nil
}

func (uc *InvoiceUseCase) load(ctx context.Context, id access.Identity, invoiceID string) (*entity.Invoice, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if !access.For(id, access.ResourceInvoices, "").Matches(invoiceRecord(inv)) {
		return nil, domain.ErrForbidden
	}
	return inv, nil
}

func (uc *InvoiceUseCase) applyStock(ctx context.Context, repos inventory.TxRepos, inv *entity.Invoice, actorID string, now time.Time) error {
	origin := inventory.Origin{ShopID: inv.ShopID, ReferenceID: inv.ID, Note: "Factura pagada", ActorID: actorID, At: now}
	if _, err := uc.ledger.Apply(ctx, repos, origin, inventory.SaleMovements(inv.Items)); err != nil {
		return err
	}
	inv.StockApplied = true
	return nil
}

func (uc *InvoiceUseCase) reverseStock(ctx context.Context, repos inventory.TxRepos, inv *entity.Invoice, actorID string, now time.Time, note string) error {
	origin := inventory.Origin{ShopID: inv.ShopID, ReferenceID: inv.ID, Note: note, ActorID: actorID, At: now}
	if _, err := uc.ledger.Apply(ctx, repos, origin, inventory.ReverseSaleMovements(inv.Items)); err != nil {
		return err
	}
	inv.StockApplied = false
	return nil
}

func (uc *InvoiceUseCase) publishPaid(ctx context.Context, inv *entity.Invoice, actorID string, now time.Time) {
	_ = uc.events.Publish(ctx, ports.Event{
		Type: ports.EventInvoicePaid, Key: inv.ID, ShopID: inv.ShopID, ActorID: actorID,
		Payload: map[string]any{"customer": inv.CustomerName, "total": inv.Total}, OccurredAt: now,
	})
}

func invoiceRecord(inv *entity.Invoice) access.Record {
	return access.Record{ShopID: inv.ShopID, CreatedBy: inv.CreatedBy}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func toInvoiceResponse(inv *entity.Invoice) *dto.InvoiceResponse {
	return &dto.InvoiceResponse{
		ID:            inv.ID,
		ShopID:        inv.ShopID,
		CustomerName:  inv.CustomerName,
		CustomerEmail: inv.CustomerEmail,
		Items:         toLineResponses(inv.Items),
		Subtotal:      inv.Subtotal,
		Tax:           inv.Tax,
		Total:         inv.Total,
		Status:        inv.Status,
		DueDate:       inv.DueDate,
		PaidAt:        inv.PaidAt,
		Notes:         inv.Notes,
		CreatedBy:     inv.CreatedBy,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
}
