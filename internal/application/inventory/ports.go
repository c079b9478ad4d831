package inventory

import (
	"context"

	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Products     repository.ProductRepository
	Transactions repository.InventoryTransactionRepository
	Supplies     repository.SupplyRepository
	Sales        repository.SaleRepository
	Invoices     repository.InvoiceRepository
	Counters     repository.CounterRepository
	Shops        repository.ShopRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback de todo: stock, ledger y documento.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}
