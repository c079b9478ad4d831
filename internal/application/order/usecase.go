package order

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tiendas-api/internal/application/dto"
	"github.com/jhoicas/Tiendas-api/internal/application/ports"
	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/access"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
)

// OrderUseCase pedidos de clientes a tiendas aprobadas. Los pedidos no mueven stock.
type OrderUseCase struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	shopRepo    repository.ShopRepository
	notifRepo   repository.NotificationRepository
	events      ports.EventPublisher
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, shopRepo repository.ShopRepository, notifRepo repository.NotificationRepository, events ports.EventPublisher) *OrderUseCase {
	return &OrderUseCase{orderRepo: orderRepo, productRepo: productRepo, shopRepo: shopRepo, notifRepo: notifRepo, events: events}
}

// Create congela el precio de cada producto al momento de la compra y avisa al dueño de la tienda.
func (uc *OrderUseCase) Create(ctx context.Context, id access.Identity, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: el pedido no tiene líneas", domain.ErrInvalidInput)
	}
	shop, err := uc.shopRepo.GetByID(ctx, in.ShopID)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return nil, fmt.Errorf("%w: tienda %s", domain.ErrNotFound, in.ShopID)
	}
	if !shop.IsApproved() {
		return nil, domain.ErrShopNotApproved
	}

	items := make([]entity.OrderItem, 0, len(in.Items))
	total := decimal.Zero
	for i, it := range in.Items {
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("%w: línea %d: quantity debe ser > 0", domain.ErrInvalidInput, i+1)
		}
		p, err := uc.productRepo.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil || !p.IsActive {
			return nil, fmt.Errorf("%w: línea %d: producto %s", domain.ErrNotFound, i+1, it.ProductID)
		}
		if p.ShopID != shop.ID {
			return nil, fmt.Errorf("%w: línea %d: el producto no pertenece a la tienda", domain.ErrInvalidInput, i+1)
		}
		items = append(items, entity.OrderItem{ProductID: p.ID, Name: p.Name, Quantity: it.Quantity, PriceAtPurchase: p.Price})
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}

	now := time.Now().UTC()
	o := &entity.Order{
		ID:              uuid.New().String(),
		UserID:          id.UserID,
		ShopID:          shop.ID,
		Items:           items,
		Total:           total,
		Status:          entity.OrderStatusPending,
		ShippingAddress: in.ShippingAddress,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.orderRepo.Create(ctx, o); err != nil {
		return nil, err
	}

	_ = uc.notifRepo.Create(ctx, &entity.Notification{
		ID: uuid.New().String(), UserID: shop.OwnerID, Type: entity.NotificationOrderCreated,
		Title:   "Nuevo pedido",
		Message: fmt.Sprintf("Pedido por %s en %s.", o.Total.StringFixed(2), shop.Name),
		Link:    "/orders/" + o.ID, CreatedAt: now,
	})
	_ = uc.events.Publish(ctx, ports.Event{
		Type: ports.EventOrderCreated, Key: o.ID, ShopID: o.ShopID, ActorID: id.UserID,
		Payload: map[string]any{"total": o.Total, "lines": len(o.Items)}, OccurredAt: now,
	})
	return toResponse(o), nil
}

// List pedidos del alcance: el cliente ve los suyos; la tienda ve los recibidos.
func (uc *OrderUseCase) List(ctx context.Context, id access.Identity, q dto.DocumentQuery) (*dto.OrderListResponse, error) {
	q.Normalize()
	if q.Status != "" && !entity.ValidOrderStatus(q.Status) {
		return nil, fmt.Errorf("%w: estado desconocido %q", domain.ErrInvalidInput, q.Status)
	}
	from, to, err := dto.ParseDateRange(q.Start, q.End)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	list, total, err := uc.orderRepo.List(ctx, repository.DocumentFilter{
		ScopedFilter: repository.ScopedFilter{
			Scope: access.For(id, access.ResourceOrders, q.ShopID),
			Page:  repository.Page{Limit: q.Limit, Offset: q.Offset()},
		},
		Status: q.Status,
		Range:  repository.DateRange{From: from, To: to},
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *toResponse(o))
	}
	return &dto.OrderListResponse{Items: items, Page: dto.NewPageResponse(q.PageRequest, total)}, nil
}

// GetByID pedido del alcance del solicitante.
func (uc *OrderUseCase) GetByID(ctx context.Context, id access.Identity, orderID string) (*dto.OrderResponse, error) {
	o, err := uc.load(ctx, id, orderID)
	if err != nil {
		return nil, err
	}
	return toResponse(o), nil
}

// UpdateStatus cambia el estado y avisa al cliente. completed y cancelled son terminales (ErrConflict).
func (uc *OrderUseCase) UpdateStatus(ctx context.Context, id access.Identity, orderID string, in dto.UpdateOrderStatusRequest) (*dto.OrderResponse, error) {
	if id.Role == entity.RoleCustomer {
		return nil, domain.ErrForbidden
	}
	o, err := uc.load(ctx, id, orderID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	prev := o.Status
	if err := o.SetStatus(in.Status, now); err != nil {
		return nil, fmt.Errorf("%w: el pedido está en estado %s", err, prev)
	}
	if err := uc.orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	if prev != o.Status {
		_ = uc.notifRepo.Create(ctx, &entity.Notification{
			ID: uuid.New().String(), UserID: o.UserID, Type: entity.NotificationOrderStatus,
			Title:   "Estado de tu pedido",
			Message: fmt.Sprintf("Tu pedido pasó de %s a %s.", prev, o.Status),
			Link:    "/orders/" + o.ID, CreatedAt: now,
		})
		_ = uc.events.Publish(ctx, ports.Event{
			Type: ports.EventOrderStatusChanged, Key: o.ID, ShopID: o.ShopID, ActorID: id.UserID,
			Payload: map[string]any{"from": prev, "to": o.Status}, OccurredAt: now,
		})
	}
	return toResponse(o), nil
}

// Delete la tienda elimina pedidos de su alcance; el cliente solo los propios aún pendientes.
func (uc *OrderUseCase) Delete(ctx context.Context, id access.Identity, orderID string) error {
	o, err := uc.load(ctx, id, orderID)
	if err != nil {
		return err
	}
	if id.Role == entity.RoleCustomer && o.Status != entity.OrderStatusPending {
		return fmt.Errorf("%w: solo se eliminan pedidos pendientes", domain.ErrConflict)
	}
	return uc.orderRepo.Delete(ctx, o.ID)
}

func (uc *OrderUseCase) load(ctx context.Context, id access.Identity, orderID string) (*entity.Order, error) {
	o, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	if !access.For(id, access.ResourceOrders, "").Matches(access.Record{ShopID: o.ShopID, UserID: o.UserID}) {
		return nil, domain.ErrForbidden
	}
	return o, nil
}

func toResponse(o *entity.Order) *dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.OrderItemResponse{
			ProductID:       it.ProductID,
			Name:            it.Name,
			Quantity:        it.Quantity,
			PriceAtPurchase: it.PriceAtPurchase,
		})
	}
	return &dto.OrderResponse{
		ID:              o.ID,
		UserID:          o.UserID,
		ShopID:          o.ShopID,
		Items:           items,
		Total:           o.Total,
		Status:          o.Status,
		ShippingAddress: o.ShippingAddress,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}
