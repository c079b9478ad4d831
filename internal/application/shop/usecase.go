package shop

import (
	"context"
	"fmt"
	"strings"
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

const defaultCurrency = "USD"

// Query filtros del listado de tiendas.
type Query struct {
	dto.PageRequest
	Status string `query:"status"`
}

// ShopUseCase alta, aprobación y mantenimiento de tiendas.
type ShopUseCase struct {
	shopRepo  repository.ShopRepository
	userRepo  repository.UserRepository
	notifRepo repository.NotificationRepository
	events    ports.EventPublisher
}

// NewShopUseCase construye el caso de uso.
func NewShopUseCase(shopRepo repository.ShopRepository, userRepo repository.UserRepository, notifRepo repository.NotificationRepository, events ports.EventPublisher) *ShopUseCase {
	return &ShopUseCase{shopRepo: shopRepo, userRepo: userRepo, notifRepo: notifRepo, events: events}
}

// Create registra la tienda en pending con el solicitante como propietario.
// Un seller sin tienda queda asociado a ella; el próximo refresh del token la incluye.
func (uc *ShopUseCase) Create(ctx context.Context, id access.Identity, in dto.CreateShopRequest) (*dto.ShopResponse, error) {
	var owner *entity.User
	if id.Role == entity.RoleSeller {
		u, err := uc.userRepo.GetByID(ctx, id.UserID)
		if err != nil {
			return nil, err
		}
		if u == nil {
			return nil, domain.ErrUnauthorized
		}
		if u.ShopID != "" {
			return nil, fmt.Errorf("%w: el vendedor ya tiene una tienda", domain.ErrConflict)
		}
		owner = u
	}

	vat := decimal.Zero
	if in.VATRate != nil {
		if in.VATRate.IsNegative() {
			return nil, fmt.Errorf("%w: vat_rate no puede ser negativo", domain.ErrInvalidInput)
		}
		vat = *in.VATRate
	}
	currency := strings.ToUpper(in.Currency)
	if currency == "" {
		currency = defaultCurrency
	}
	now := time.Now().UTC()
	shop := &entity.Shop{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		OwnerID:     id.UserID,
		Address:     in.Address,
		Phone:       in.Phone,
		Currency:    currency,
		VATRate:     vat,
		Status:      entity.ShopStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.shopRepo.Create(ctx, shop); err != nil {
		return nil, err
	}
	if owner != nil {
		owner.ShopID = shop.ID
		owner.UpdatedAt = now
		if err := uc.userRepo.Update(ctx, owner); err != nil {
			_ = uc.shopRepo.Delete(ctx, shop.ID)
			return nil, err
		}
	}

	uc.notifySuperadmins(ctx, shop, now)
	_ = uc.events.Publish(ctx, ports.Event{
		Type: ports.EventShopCreated, Key: shop.ID, ShopID: shop.ID, ActorID: id.UserID,
		Payload: map[string]any{"name": shop.Name}, OccurredAt: now,
	})
	return ToResponse(shop), nil
}

// List admin y superadmin ven todas (filtro opcional por estado); el resto ve
// las aprobadas más las propias; sin identidad, solo las aprobadas.
func (uc *ShopUseCase) List(ctx context.Context, id access.Identity, q Query) (*dto.ShopListResponse, error) {
	q.Normalize()
	f := repository.ShopFilter{Status: q.Status, Page: repository.Page{Limit: q.Limit, Offset: q.Offset()}}
	switch {
	case entity.IsPrivileged(id.Role):
	case id.UserID != "":
		f.VisibleTo = id.UserID
	default:
		f.Status = entity.ShopStatusApproved
	}
	list, total, err := uc.shopRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ShopResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *ToResponse(s))
	}
	return &dto.ShopListResponse{Items: items, Page: dto.NewPageResponse(q.PageRequest, total)}, nil
}

// GetByID una tienda no aprobada solo la ven su propietario y los privilegiados.
func (uc *ShopUseCase) GetByID(ctx context.Context, id access.Identity, shopID string) (*dto.ShopResponse, error) {
	shop, err := uc.shopRepo.GetByID(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if shop == nil || !visible(id, shop) {
		return nil, domain.ErrNotFound
	}
	return ToResponse(shop), nil
}

// Update cambios parciales por el propietario o un privilegiado. El estado no se edita aquí.
func (uc *ShopUseCase) Update(ctx context.Context, id access.Identity, shopID string, in dto.UpdateShopRequest) (*dto.ShopResponse, error) {
	shop, err := uc.shopRepo.GetByID(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return nil, domain.ErrNotFound
	}
	if !entity.IsPrivileged(id.Role) && shop.OwnerID != id.UserID {
		return nil, domain.ErrForbidden
	}
	if in.Name != nil {
		shop.Name = *in.Name
	}
	if in.Description != nil {
		shop.Description = *in.Description
	}
	if in.Address != nil {
		shop.Address = *in.Address
	}
	if in.Phone != nil {
		shop.Phone = *in.Phone
	}
	if in.Currency != nil {
		shop.Currency = strings.ToUpper(*in.Currency)
	}
	if in.VATRate != nil {
		if in.VATRate.IsNegative() {
			return nil, fmt.Errorf("%w: vat_rate no puede ser negativo", domain.ErrInvalidInput)
		}
		shop.VATRate = *in.VATRate
	}
	shop.UpdatedAt = time.Now().UTC()
	if err := uc.shopRepo.Update(ctx, shop); err != nil {
		return nil, err
	}
	return ToResponse(shop), nil
}

// Delete elimina la tienda.
func (uc *ShopUseCase) Delete(ctx context.Context, shopID string) error {
	shop, err := uc.shopRepo.GetByID(ctx, shopID)
	if err != nil {
		return err
	}
	if shop == nil {
		return domain.ErrNotFound
	}
	return uc.shopRepo.Delete(ctx, shopID)
}

// Approve pending → approved. Cualquier otro estado devuelve ErrConflict.
func (uc *ShopUseCase) Approve(ctx context.Context, id access.Identity, shopID string) (*dto.ShopResponse, error) {
	return uc.decide(ctx, id, shopID, true)
}

// Reject pending → rejected.
func (uc *ShopUseCase) Reject(ctx context.Context, id access.Identity, shopID string) (*dto.ShopResponse, error) {
	return uc.decide(ctx, id, shopID, false)
}

func (uc *ShopUseCase) decide(ctx context.Context, id access.Identity, shopID string, approve bool) (*dto.ShopResponse, error) {
	if id.Role != entity.RoleSuperadmin {
		return nil, domain.ErrForbidden
	}
	shop, err := uc.shopRepo.GetByID(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return nil, domain.ErrNotFound
	}
	now := time.Now().UTC()
	evType, nType := ports.EventShopApproved, entity.NotificationShopApproved
	title, msg := "Tienda aprobada", fmt.Sprintf("Tu tienda %s fue aprobada y ya puede publicar productos.", shop.Name)
	if approve {
		err = shop.Approve(id.UserID, now)
	} else {
		err = shop.Reject(id.UserID, now)
		evType, nType = ports.EventShopRejected, entity.NotificationShopRejected
		title, msg = "Tienda rechazada", fmt.Sprintf("Tu tienda %s fue rechazada.", shop.Name)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: la tienda está en estado %s", err, shop.Status)
	}
	if err := uc.shopRepo.Update(ctx, shop); err != nil {
		return nil, err
	}

	_ = uc.notifRepo.Create(ctx, &entity.Notification{
		ID: uuid.New().String(), UserID: shop.OwnerID, Type: nType,
		Title: title, Message: msg, Link: "/shops/" + shop.ID, CreatedAt: now,
	})
	_ = uc.events.Publish(ctx, ports.Event{
		Type: evType, Key: shop.ID, ShopID: shop.ID, ActorID: id.UserID,
		Payload: map[string]any{"status": shop.Status}, OccurredAt: now,
	})
	return ToResponse(shop), nil
}

func (uc *ShopUseCase) notifySuperadmins(ctx context.Context, shop *entity.Shop, now time.Time) {
	admins, _, err := uc.userRepo.List(ctx, repository.UserFilter{
		ScopedFilter: repository.ScopedFilter{Page: repository.Page{Limit: 100}},
		Role:         entity.RoleSuperadmin,
	})
	if err != nil {
		return
	}
	for _, a := range admins {
		_ = uc.notifRepo.Create(ctx, &entity.Notification{
			ID: uuid.New().String(), UserID: a.ID, Type: entity.NotificationShopPending,
			Title:   "Nueva tienda pendiente",
			Message: fmt.Sprintf("La tienda %s espera aprobación.", shop.Name),
			Link:    "/shops/" + shop.ID, CreatedAt: now,
		})
	}
}

func visible(id access.Identity, shop *entity.Shop) bool {
	return shop.IsApproved() || entity.IsPrivileged(id.Role) || (id.UserID != "" && shop.OwnerID == id.UserID)
}

// ToResponse mapea una tienda a su DTO.
func ToResponse(s *entity.Shop) *dto.ShopResponse {
	return &dto.ShopResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		OwnerID:     s.OwnerID,
		Address:     s.Address,
		Phone:       s.Phone,
		Currency:    s.Currency,
		VATRate:     s.VATRate,
		Status:      s.Status,
		ApprovedBy:  s.ApprovedBy,
		ApprovedAt:  s.ApprovedAt,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
