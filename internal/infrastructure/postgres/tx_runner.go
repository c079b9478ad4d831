package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Tiendas-api/internal/application/inventory"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner implementa inventory.TxRunner: una transacción por llamada, con
// repositorios atados a ella. Si fn devuelve error se hace rollback.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run abre la transacción, ejecuta fn y confirma.
func (r *TxRunner) Run(ctx context.Context, fn func(repos inventory.TxRepos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := inventory.TxRepos{
		Products:     NewProductRepository(tx),
		Transactions: NewInventoryTransactionRepository(tx),
		Supplies:     NewSupplyRepository(tx),
		Sales:        NewSaleRepository(tx),
		Invoices:     NewInvoiceRepository(tx),
		Counters:     NewCounterRepository(tx),
		Shops:        NewShopRepository(tx),
	}
	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
