package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tiendas-api/internal/domain"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
	invdomain "github.com/jhoicas/Tiendas-api/internal/domain/inventory"
)

// Movement delta de stock sobre un producto.
type Movement struct {
	ProductID string
	Quantity  int // con signo
	Type      string
	// UnitCost recalcula el costo promedio: en una entrada lo incorpora y en el
	// reverso de un suministro lo retira.
	UnitCost *decimal.Decimal
}

// Origin datos comunes de las entradas del ledger que genera una operación.
type Origin struct {
	ShopID      string
	ReferenceID string
	Note        string
	ActorID     string
	At          time.Time
}

// Ledger aplica deltas de stock y registra cada uno en el ledger. Debe usarse
// con los repositorios de una transacción abierta (TxRunner.Run): bloquea la fila
// del producto (SELECT FOR UPDATE) antes de modificarla.
//
// Los deltas no tienen piso: el ledger puede dejar stock negativo. La validación
// stock >= 0 solo existe en la corrección manual (StockUseCase).
type Ledger struct{}

// Apply aplica los movimientos en orden y devuelve las entradas creadas.
func (Ledger) Apply(ctx context.Context, repos TxRepos, origin Origin, moves []Movement) ([]*entity.InventoryTransaction, error) {
	out := make([]*entity.InventoryTransaction, 0, len(moves))
	for _, mv := range moves {
		if mv.Quantity == 0 {
			continue
		}
		product, err := repos.Products.GetForUpdate(ctx, mv.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, mv.ProductID)
		}
		if product.ShopID != origin.ShopID {
			return nil, fmt.Errorf("%w: el producto %s no pertenece a la tienda", domain.ErrForbidden, mv.ProductID)
		}

		newStock := product.Stock + mv.Quantity
		if err := repos.Products.UpdateStock(ctx, product.ID, newStock); err != nil {
			return nil, err
		}
		if mv.UnitCost != nil {
			var cost decimal.Decimal
			if mv.Quantity > 0 {
				cost = invdomain.WeightedAverageCost(product.Stock, product.Cost, mv.Quantity, *mv.UnitCost)
			} else {
				cost = invdomain.ReverseWeightedAverageCost(product.Stock, product.Cost, -mv.Quantity, *mv.UnitCost)
			}
			if !cost.Equal(product.Cost) {
				if err := repos.Products.UpdateCost(ctx, product.ID, cost); err != nil {
					return nil, err
				}
			}
		}
		tx := &entity.InventoryTransaction{
			ID:            uuid.New().String(),
			ShopID:        origin.ShopID,
			ProductID:     product.ID,
			Type:          mv.Type,
			Quantity:      mv.Quantity,
			PreviousStock: product.Stock,
			NewStock:      newStock,
			ReferenceID:   origin.ReferenceID,
			Note:          origin.Note,
			CreatedBy:     origin.ActorID,
			CreatedAt:     origin.At,
		}
		if err := repos.Transactions.Create(ctx, tx); err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, nil
}

// SupplyMovements suma cada línea recibida (tipo supply).
func SupplyMovements(items []entity.SupplyItem) []Movement {
	moves := make([]Movement, 0, len(items))
	for _, it := range items {
		unitCost := it.UnitCost
		moves = append(moves, Movement{ProductID: it.ProductID, Quantity: it.Quantity, Type: entity.TxTypeSupply, UnitCost: &unitCost})
	}
	return moves
}

// ReverseSupplyMovements resta lo que sumó un suministro (tipo adjustment_out) y
// retira su aporte al costo promedio.
func ReverseSupplyMovements(items []entity.SupplyItem) []Movement {
	moves := make([]Movement, 0, len(items))
	for _, it := range items {
		unitCost := it.UnitCost
		moves = append(moves, Movement{ProductID: it.ProductID, Quantity: -it.Quantity, Type: entity.TxTypeAdjustmentOut, UnitCost: &unitCost})
	}
	return moves
}

// SaleMovements resta las líneas con producto (tipo sale). Las líneas libres no tocan stock.
func SaleMovements(items []entity.LineItem) []Movement {
	moves := make([]Movement, 0, len(items))
	for _, it := range items {
		if it.ProductID == "" {
			continue
		}
		moves = append(moves, Movement{ProductID: it.ProductID, Quantity: -it.Quantity, Type: entity.TxTypeSale})
	}
	return moves
}

// ReverseSaleMovements devuelve al stock lo que restó una venta o factura (tipo adjustment_in).
func ReverseSaleMovements(items []entity.LineItem) []Movement {
	moves := make([]Movement, 0, len(items))
	for _, it := range items {
		if it.ProductID == "" {
			continue
		}
		moves = append(moves, Movement{ProductID: it.ProductID, Quantity: it.Quantity, Type: entity.TxTypeAdjustmentIn})
	}
	return moves
}
