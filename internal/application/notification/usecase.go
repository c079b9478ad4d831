package notification

import (
	"context"
	"time"

	"github.com/jhoicas/Tiendas-api/internal/application/dto"
	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/access"
	"github.com/jhoicas/Tiendas-api/internal/domain/alerts"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
)

// maxRecentSupplies tope de suministros recientes que se revisan por llamada.
const maxRecentSupplies = 500

// Query filtros de la bandeja de avisos.
type Query struct {
	dto.PageRequest
	Unread bool `query:"unread"`
}

// NotificationUseCase avisos persistidos y alertas derivadas del estado actual.
type NotificationUseCase struct {
	notifRepo    repository.NotificationRepository
	productRepo  repository.ProductRepository
	invoiceRepo  repository.InvoiceRepository
	supplyRepo   repository.SupplyRepository
	supplyWindow time.Duration
	now          func() time.Time
}

// NewNotificationUseCase construye el caso de uso. supplyWindowDays limita los suministros que generan alerta.
func NewNotificationUseCase(
	notifRepo repository.NotificationRepository,
	productRepo repository.ProductRepository,
	invoiceRepo repository.InvoiceRepository,
	supplyRepo repository.SupplyRepository,
	supplyWindowDays int,
) *NotificationUseCase {
	if supplyWindowDays <= 0 {
		supplyWindowDays = 7
	}
	return &NotificationUseCase{
		notifRepo:    notifRepo,
		productRepo:  productRepo,
		invoiceRepo:  invoiceRepo,
		supplyRepo:   supplyRepo,
		supplyWindow: time.Duration(supplyWindowDays) * 24 * time.Hour,
		now:          time.Now,
	}
}

// List avisos propios, más recientes primero, con el total de no leídos.
func (uc *NotificationUseCase) List(ctx context.Context, id access.Identity, q Query) (*dto.NotificationListResponse, error) {
	q.Normalize()
	list, total, err := uc.notifRepo.ListByUser(ctx, id.UserID, q.Unread, repository.Page{Limit: q.Limit, Offset: q.Offset()})
	if err != nil {
		return nil, err
	}
	_, unread, err := uc.notifRepo.ListByUser(ctx, id.UserID, true, repository.Page{Limit: 1})
	if err != nil {
		return nil, err
	}
	items := make([]dto.NotificationResponse, 0, len(list))
	for _, n := range list {
		items = append(items, toResponse(n))
	}
	return &dto.NotificationListResponse{Items: items, Page: dto.NewPageResponse(q.PageRequest, total), Unread: unread}, nil
}

// MarkRead marca un aviso propio como leído. Uno ajeno se reporta como inexistente.
func (uc *NotificationUseCase) MarkRead(ctx context.Context, id access.Identity, notificationID string) (*dto.NotificationResponse, error) {
	n, err := uc.notifRepo.MarkRead(ctx, notificationID, id.UserID)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, domain.ErrNotFound
	}
	out := toResponse(n)
	return &out, nil
}

// Alerts recalcula las alertas sobre el estado visible para el solicitante.
func (uc *NotificationUseCase) Alerts(ctx context.Context, id access.Identity, shopID string) (*dto.AlertListResponse, error) {
	now := uc.now().UTC()
	products, err := uc.productRepo.ListAll(ctx, access.For(id, access.ResourceProducts, shopID))
	if err != nil {
		return nil, err
	}
	invoices, err := uc.invoiceRepo.ListAll(ctx, repository.DocumentFilter{
		ScopedFilter: repository.ScopedFilter{Scope: access.For(id, access.ResourceInvoices, shopID)},
	})
	if err != nil {
		return nil, err
	}
	supplies, _, err := uc.supplyRepo.List(ctx, repository.SupplyFilter{
		ScopedFilter: repository.ScopedFilter{
			Scope: access.For(id, access.ResourceSupplies, shopID),
			Page:  repository.Page{Limit: maxRecentSupplies},
		},
		ReceivedSince: repository.DateRange{From: now.Add(-uc.supplyWindow)},
	})
	if err != nil {
		return nil, err
	}

	list := alerts.Synthesize(alerts.Input{
		Products:     products,
		Invoices:     invoices,
		Supplies:     supplies,
		SupplyWindow: uc.supplyWindow,
	}, now)

	out := &dto.AlertListResponse{Alerts: make([]dto.AlertResponse, 0, len(list)), Counts: map[string]int{}}
	for _, a := range list {
		out.Alerts = append(out.Alerts, dto.AlertResponse{
			ID:        a.ID,
			Type:      a.Kind,
			Severity:  a.Severity,
			Title:     a.Title,
			Message:   a.Message,
			Link:      a.Link,
			CreatedAt: a.CreatedAt,
		})
		out.Counts[a.Severity]++
	}
	return out, nil
}

func toResponse(n *entity.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Link:      n.Link,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}
