package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Tiendas-api/internal/application/dto"
	"github.com/jhoicas/Tiendas-api/internal/application/ports"
	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/access"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
)

// Operaciones de corrección manual de stock.
const (
	StockSet      = "set"
	StockAdd      = "add"
	StockSubtract = "subtract"
)

// StockUseCase corrección manual de stock y consulta del ledger.
type StockUseCase struct {
	txRunner TxRunner
	txRepo   repository.InventoryTransactionRepository
	events   ports.EventPublisher
	ledger   Ledger
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(txRunner TxRunner, txRepo repository.InventoryTransactionRepository, events ports.EventPublisher) *StockUseCase {
	return &StockUseCase{txRunner: txRunner, txRepo: txRepo, events: events}
}

// AdjustStock aplica set/add/subtract sobre el stock del producto. El valor debe ser >= 0
// y el resultado no puede quedar negativo. La diferencia se registra como adjustment_in/out.
func (uc *StockUseCase) AdjustStock(ctx context.Context, id access.Identity, productID string, in dto.UpdateStockRequest) (*dto.ProductResponse, error) {
	if in.Stock == nil || *in.Stock < 0 {
		return nil, fmt.Errorf("%w: stock debe ser un número >= 0", domain.ErrInvalidInput)
	}
	op := in.Operation
	if op == "" {
		op = StockSet
	}
	now := time.Now().UTC()
	var result *entity.Product

	err := uc.txRunner.Run(ctx, func(repos TxRepos) error {
		product, err := repos.Products.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if !access.For(id, access.ResourceInventory, "").Matches(access.Record{ShopID: product.ShopID}) {
			return domain.ErrForbidden
		}

		var target int
		switch op {
		case StockSet:
			target = *in.Stock
		case StockAdd:
			target = product.Stock + *in.Stock
		case StockSubtract:
			target = product.Stock - *in.Stock
		default:
			return fmt.Errorf("%w: operation debe ser set, add o subtract", domain.ErrInvalidInput)
		}
		if target < 0 {
			return fmt.Errorf("%w: el stock resultante no puede ser negativo", domain.ErrInvalidInput)
		}

		delta := target - product.Stock
		txType := entity.TxTypeAdjustmentIn
		if delta < 0 {
			txType = entity.TxTypeAdjustmentOut
		}
		note := in.Note
		if note == "" {
			note = "Ajuste manual (" + op + ")"
		}
		origin := Origin{ShopID: product.ShopID, ReferenceID: product.ID, Note: note, ActorID: id.UserID, At: now}
		if _, err := uc.ledger.Apply(ctx, repos, origin, []Movement{{ProductID: product.ID, Quantity: delta, Type: txType}}); err != nil {
			return err
		}
		product.Stock = target
		product.UpdatedAt = now
		result = product
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = uc.events.Publish(ctx, ports.Event{
		Type: ports.EventStockAdjusted, Key: result.ID, ShopID: result.ShopID, ActorID: id.UserID,
		Payload: map[string]any{"operation": op, "stock": result.Stock}, OccurredAt: now,
	})
	return ProductToResponse(result), nil
}

// TransactionQuery filtros del ledger.
type TransactionQuery struct {
	dto.PageRequest
	ShopID    string `query:"shop_id"`
	ProductID string `query:"product_id"`
}

// ListTransactions entradas del ledger visibles para el solicitante.
func (uc *StockUseCase) ListTransactions(ctx context.Context, id access.Identity, q TransactionQuery) (*dto.InventoryTransactionListResponse, error) {
	q.Normalize()
	list, total, err := uc.txRepo.List(ctx, repository.TransactionFilter{
		ScopedFilter: repository.ScopedFilter{
			Scope: access.For(id, access.ResourceInventory, q.ShopID),
			Page:  repository.Page{Limit: q.Limit, Offset: q.Offset()},
		},
		ProductID: q.ProductID,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.InventoryTransactionResponse, 0, len(list))
	for _, t := range list {
		items = append(items, dto.InventoryTransactionResponse{
			ID:            t.ID,
			ShopID:        t.ShopID,
			ProductID:     t.ProductID,
			Type:          t.Type,
			Quantity:      t.Quantity,
			PreviousStock: t.PreviousStock,
			NewStock:      t.NewStock,
			ReferenceID:   t.ReferenceID,
			Note:          t.Note,
			CreatedBy:     t.CreatedBy,
			CreatedAt:     t.CreatedAt,
		})
	}
	return &dto.InventoryTransactionListResponse{Items: items, Page: dto.NewPageResponse(q.PageRequest, total)}, nil
}

// ProductToResponse mapea un producto a su DTO de salida (compartido con el catálogo).
func ProductToResponse(p *entity.Product) *dto.ProductResponse {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return &dto.ProductResponse{
		ID:            p.ID,
		ShopID:        p.ShopID,
		Name:          p.Name,
		Description:   p.Description,
		SKU:           p.SKU,
		Barcode:       p.Barcode,
		Price:         p.Price,
		Cost:          p.Cost,
		Stock:         p.Stock,
		MinStock:      p.MinStock,
		CategoryID:    p.CategoryID,
		Images:        images,
		IsActive:      p.IsActive,
		RatingAverage: p.RatingAverage,
		RatingCount:   p.RatingCount,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
