package inventory

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

// SupplyUseCase recepciones de mercancía. Crear, editar y borrar un suministro
// modifica el stock en la misma transacción que el documento.
type SupplyUseCase struct {
	txRunner   TxRunner
	supplyRepo repository.SupplyRepository
	events     ports.EventPublisher
	ledger     Ledger
}

// NewSupplyUseCase construye el caso de uso.
func NewSupplyUseCase(txRunner TxRunner, supplyRepo repository.SupplyRepository, events ports.EventPublisher) *SupplyUseCase {
	return &SupplyUseCase{txRunner: txRunner, supplyRepo: supplyRepo, events: events}
}

// Create registra el suministro y suma cada línea al stock (transacción supply por línea).
func (uc *SupplyUseCase) Create(ctx context.Context, id access.Identity, in dto.CreateSupplyRequest) (*dto.SupplyResponse, error) {
	shopID, err := access.ResolveShopID(id, in.ShopID)
	if err != nil {
		return nil, err
	}
	items, err := toSupplyItems(in.Items)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	supply := &entity.Supply{
		ID:           uuid.New().String(),
		ShopID:       shopID,
		SupplierName: in.SupplierName,
		Items:        items,
		Notes:        in.Notes,
		ReceivedAt:   now,
		CreatedBy:    id.UserID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.ReceivedAt != nil {
		supply.ReceivedAt = in.ReceivedAt.UTC()
	}
	supply.ComputeTotalCost()

	err = uc.txRunner.Run(ctx, func(repos TxRepos) error {
		if err := repos.Supplies.Create(ctx, supply); err != nil {
			return err
		}
		origin := Origin{ShopID: shopID, ReferenceID: supply.ID, Note: "Suministro de " + supply.SupplierName, ActorID: id.UserID, At: now}
		_, err := uc.ledger.Apply(ctx, repos, origin, SupplyMovements(supply.Items))
		return err
	})
	if err != nil {
		return nil, err
	}

	_ = uc.events.Publish(ctx, ports.Event{
		Type: ports.EventSupplyReceived, Key: supply.ID, ShopID: shopID, ActorID: id.UserID,
		Payload:    map[string]any{"supplier": supply.SupplierName, "total_cost": supply.TotalCost, "lines": len(supply.Items)},
		OccurredAt: now,
	})
	return toSupplyResponse(supply), nil
}

// Update reemplaza el suministro. Si cambian las líneas, revierte las anteriores
// (adjustment_out) y aplica las nuevas (supply) dentro de una única transacción.
func (uc *SupplyUseCase) Update(ctx context.Context, id access.Identity, supplyID string, in dto.UpdateSupplyRequest) (*dto.SupplyResponse, error) {
	var newItems []entity.SupplyItem
	if in.Items != nil {
		var err error
		if newItems, err = toSupplyItems(in.Items); err != nil {
			return nil, err
		}
	}
	now := time.Now().UTC()
	var updated *entity.Supply

	err := uc.txRunner.Run(ctx, func(repos TxRepos) error {
		supply, err := uc.loadForMutation(ctx, repos.Supplies, id, supplyID)
		if err != nil {
			return err
		}
		if newItems != nil {
			origin := Origin{ShopID: supply.ShopID, ReferenceID: supply.ID, Note: "Reverso por edición de suministro", ActorID: id.UserID, At: now}
			if _, err := uc.ledger.Apply(ctx, repos, origin, ReverseSupplyMovements(supply.Items)); err != nil {
				return err
			}
			origin.Note = "Suministro editado"
			if _, err := uc.ledger.Apply(ctx, repos, origin, SupplyMovements(newItems)); err != nil {
				return err
			}
			supply.Items = newItems
			supply.ComputeTotalCost()
		}
		if in.SupplierName != nil {
			supply.SupplierName = *in.SupplierName
		}
		if in.Notes != nil {
			supply.Notes = *in.Notes
		}
		if in.ReceivedAt != nil {
			supply.ReceivedAt = in.ReceivedAt.UTC()
		}
		supply.UpdatedAt = now
		if err := repos.Supplies.Update(ctx, supply); err != nil {
			return err
		}
		updated = supply
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toSupplyResponse(updated), nil
}

// Delete revierte todo lo que sumó el suministro y lo elimina, en una transacción.
func (uc *SupplyUseCase) Delete(ctx context.Context, id access.Identity, supplyID string) error {
	now := time.Now().UTC()
	return uc.txRunner.Run(ctx, func(repos TxRepos) error {
		supply, err := uc.loadForMutation(ctx, repos.Supplies, id, supplyID)
		if err != nil {
			return err
		}
		origin := Origin{ShopID: supply.ShopID, ReferenceID: supply.ID, Note: "Reverso por eliminación de suministro", ActorID: id.UserID, At: now}
		if _, err := uc.ledger.Apply(ctx, repos, origin, ReverseSupplyMovements(supply.Items)); err != nil {
			return err
		}
		return repos.Supplies.Delete(ctx, supply.ID)
	})
}

// GetByID devuelve el suministro si está en el alcance del solicitante.
func (uc *SupplyUseCase) GetByID(ctx context.Context, id access.Identity, supplyID string) (*dto.SupplyResponse, error) {
	supply, err := uc.supplyRepo.GetByID(ctx, supplyID)
	if err != nil {
		return nil, err
	}
	if supply == nil {
		return nil, domain.ErrNotFound
	}
	if !access.For(id, access.ResourceSupplies, "").Matches(supplyRecord(supply)) {
		return nil, domain.ErrForbidden
	}
	return toSupplyResponse(supply), nil
}

// List suministros visibles, del más reciente al más antiguo.
func (uc *SupplyUseCase) List(ctx context.Context, id access.Identity, q dto.DocumentQuery) (*dto.SupplyListResponse, error) {
	q.Normalize()
	from, to, err := dto.ParseDateRange(q.Start, q.End)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	list, total, err := uc.supplyRepo.List(ctx, repository.SupplyFilter{
		ScopedFilter: repository.ScopedFilter{
			Scope: access.For(id, access.ResourceSupplies, q.ShopID),
			Page:  repository.Page{Limit: q.Limit, Offset: q.Offset()},
		},
		ReceivedSince: repository.DateRange{From: from, To: to},
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.SupplyResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSupplyResponse(s))
	}
	return &dto.SupplyListResponse{Items: items, Page: dto.NewPageResponse(q.PageRequest, total)}, nil
}

func (uc *SupplyUseCase) loadForMutation(ctx context.Context, repo repository.SupplyRepository, id access.Identity, supplyID string) (*entity.Supply, error) {
	supply, err := repo.GetForUpdate(ctx, supplyID)
	if err != nil {
		return nil, err
	}
	if supply == nil {
		return nil, domain.ErrNotFound
	}
	if !access.For(id, access.ResourceSupplies, "").Matches(supplyRecord(supply)) {
		return nil, domain.ErrForbidden
	}
	return supply, nil
}

func supplyRecord(s *entity.Supply) access.Record {
	return access.Record{ShopID: s.ShopID, CreatedBy: s.CreatedBy}
}

func toSupplyItems(in []dto.SupplyItemRequest) ([]entity.SupplyItem, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: el suministro requiere al menos una línea", domain.ErrInvalidInput)
	}
	items := make([]entity.SupplyItem, 0, len(in))
	for _, it := range in {
		if it.ProductID == "" || it.Quantity <= 0 {
			return nil, fmt.Errorf("%w: cada línea requiere product_id y quantity > 0", domain.ErrInvalidInput)
		}
		if it.UnitCost.LessThan(decimal.Zero) {
			return nil, fmt.Errorf("%w: unit_cost no puede ser negativo", domain.ErrInvalidInput)
		}
		items = append(items, entity.SupplyItem{ProductID: it.ProductID, Quantity: it.Quantity, UnitCost: it.UnitCost})
	}
	return items, nil
}

func toSupplyResponse(s *entity.Supply) *dto.SupplyResponse {
	items := make([]dto.SupplyItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, dto.SupplyItemResponse{ProductID: it.ProductID, Quantity: it.Quantity, UnitCost: it.UnitCost})
	}
	return &dto.SupplyResponse{
		ID:           s.ID,
		ShopID:       s.ShopID,
		SupplierName: s.SupplierName,
		Items:        items,
		TotalCost:    s.TotalCost,
		Notes:        s.Notes,
		ReceivedAt:   s.ReceivedAt,
		CreatedBy:    s.CreatedBy,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}
