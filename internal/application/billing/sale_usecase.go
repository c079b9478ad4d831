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

// SaleCounter nombre de la secuencia de numeración de ventas.
const SaleCounter = "sales"

// DefaultCustomerName cliente de mostrador cuando la venta no lo indica.
const DefaultCustomerName = "Cliente ocasional"

// SaleUseCase ventas de mostrador: siempre liquidadas, descuentan stock al crearse.
type SaleUseCase struct {
	txRunner inventory.TxRunner
	saleRepo repository.SaleRepository
	shopRepo repository.ShopRepository
	events   ports.EventPublisher
	ledger   inventory.Ledger
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(txRunner inventory.TxRunner, saleRepo repository.SaleRepository, shopRepo repository.ShopRepository, events ports.EventPublisher) *SaleUseCase {
	return &SaleUseCase{txRunner: txRunner, saleRepo: saleRepo, shopRepo: shopRepo, events: events}
}

// FormatSaleNumber SALE-000042.
func FormatSaleNumber(n int64) string {
	return fmt.Sprintf("SALE-%06d", n)
}

// Create registra la venta, asigna el número con el contador atómico y descuenta el stock
// de las líneas con producto, todo en una transacción. Tax y total se calculan con el IVA de la tienda.
func (uc *SaleUseCase) Create(ctx context.Context, id access.Identity, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	shopID, err := access.ResolveShopID(id, in.ShopID)
	if err != nil {
		return nil, err
	}
	shop, err := loadShop(ctx, uc.shopRepo, shopID)
	if err != nil {
		return nil, err
	}
	payment := in.PaymentMethod
	if payment == "" {
		payment = entity.PaymentCash
	}
	if !entity.ValidPaymentMethod(payment) {
		return nil, fmt.Errorf("%w: payment_method desconocido %q", domain.ErrInvalidInput, payment)
	}
	customer := in.CustomerName
	if customer == "" {
		customer = DefaultCustomerName
	}

	now := time.Now().UTC()
	sale := &entity.Sale{
		ID:            uuid.New().String(),
		ShopID:        shopID,
		CustomerName:  customer,
		CustomerEmail: in.CustomerEmail,
		PaymentMethod: payment,
		Notes:         in.Notes,
		CreatedBy:     id.UserID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = uc.txRunner.Run(ctx, func(repos inventory.TxRepos) error {
		items, err := buildLines(ctx, repos.Products, shopID, in.Items)
		if err != nil {
			return err
		}
		totals := dombilling.ComputeTotals(items, shop.VATRate)
		sale.Items, sale.Subtotal, sale.Tax, sale.Total = items, totals.Subtotal, totals.Tax, totals.Total

		n, err := repos.Counters.Next(ctx, SaleCounter)
		if err != nil {
			return err
		}
		sale.SaleNumber = FormatSaleNumber(n)
		if err := repos.Sales.Create(ctx, sale); err != nil {
			return err
		}
		origin := inventory.Origin{ShopID: shopID, ReferenceID: sale.ID, Note: "Venta " + sale.SaleNumber, ActorID: id.UserID, At: now}
		_, err = uc.ledger.Apply(ctx, repos, origin, inventory.SaleMovements(sale.Items))
		return err
	})
	if err != nil {
		return nil, err
	}

	_ = uc.events.Publish(ctx, ports.Event{
		Type: ports.EventSaleCreated, Key: sale.ID, ShopID: shopID, ActorID: id.UserID,
		Payload: map[string]any{"sale_number": sale.SaleNumber, "total": sale.Total}, OccurredAt: now,
	})
	return toSaleResponse(sale), nil
}

// List ventas del alcance (staff: solo las propias), más recientes primero.
func (uc *SaleUseCase) List(ctx context.Context, id access.Identity, q dto.DocumentQuery) (*dto.SaleListResponse, error) {
	q.Normalize()
	from, to, err := dto.ParseDateRange(q.Start, q.End)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	list, total, err := uc.saleRepo.List(ctx, repository.DocumentFilter{
		ScopedFilter: repository.ScopedFilter{
			Scope: access.For(id, access.ResourceSales, q.ShopID),
			Page:  repository.Page{Limit: q.Limit, Offset: q.Offset()},
		},
		Range: repository.DateRange{From: from, To: to},
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSaleResponse(s))
	}
	return &dto.SaleListResponse{Items: items, Page: dto.NewPageResponse(q.PageRequest, total)}, nil
}

// GetByID venta del alcance del solicitante.
func (uc *SaleUseCase) GetByID(ctx context.Context, id access.Identity, saleID string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if !access.For(id, access.ResourceSales, "").Matches(saleRecord(sale)) {
		return nil, domain.ErrForbidden
	}
	return toSaleResponse(sale), nil
}

// Delete anula la venta devolviendo al stock sus líneas (adjustment_in) en la misma transacción.
func (uc *SaleUseCase) Delete(ctx context.Context, id access.Identity, saleID string) error {
	now := time.Now().UTC()
	return uc.txRunner.Run(ctx, func(repos inventory.TxRepos) error {
		sale, err := repos.Sales.GetForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if !access.For(id, access.ResourceSales, "").Matches(saleRecord(sale)) {
			return domain.ErrForbidden
		}
		origin := inventory.Origin{ShopID: sale.ShopID, ReferenceID: sale.ID, Note: "Anulación de venta " + sale.SaleNumber, ActorID: id.UserID, At: now}
		if _, err := uc.ledger.Apply(ctx, repos, origin, inventory.ReverseSaleMovements(sale.Items)); err != nil {
			return err
		}
		return repos.Sales.Delete(ctx, sale.ID)
	})
}

func saleRecord(s *entity.Sale) access.Record {
	return access.Record{ShopID: s.ShopID, CreatedBy: s.CreatedBy}
}

func toSaleResponse(s *entity.Sale) *dto.SaleResponse {
	return &dto.SaleResponse{
		ID:            s.ID,
		SaleNumber:    s.SaleNumber,
		ShopID:        s.ShopID,
		CustomerName:  s.CustomerName,
		CustomerEmail: s.CustomerEmail,
		Items:         toLineResponses(s.Items),
		Subtotal:      s.Subtotal,
		Tax:           s.Tax,
		Total:         s.Total,
		PaymentMethod: s.PaymentMethod,
		Notes:         s.Notes,
		CreatedBy:     s.CreatedBy,
		CreatedAt:     s.CreatedAt,
	}
}
