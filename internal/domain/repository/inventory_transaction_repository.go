package repository

import (
	"context"

	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
)

// TransactionFilter filtros del ledger.
type TransactionFilter struct {
	ScopedFilter
	ProductID   string
	ReferenceID string
}

// InventoryTransactionRepository ledger append-only: no expone Update ni Delete.
type InventoryTransactionRepository interface {
	Create(ctx context.Context, tx *entity.InventoryTransaction) error
	List(ctx context.Context, f TransactionFilter) ([]*entity.InventoryTransaction, int, error)
}
