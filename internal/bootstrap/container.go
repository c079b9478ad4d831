// Package bootstrap arma los casos de uso sobre el driver de almacenamiento elegido.
package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Tiendas-api/internal/application/analytics"
	"github.com/jhoicas/Tiendas-api/internal/application/auth"
	"github.com/jhoicas/Tiendas-api/internal/application/billing"
	"github.com/jhoicas/Tiendas-api/internal/application/catalog"
	"github.com/jhoicas/Tiendas-api/internal/application/inventory"
	"github.com/jhoicas/Tiendas-api/internal/application/notification"
	"github.com/jhoicas/Tiendas-api/internal/application/order"
	"github.com/jhoicas/Tiendas-api/internal/application/ports"
	"github.com/jhoicas/Tiendas-api/internal/application/settings"
	"github.com/jhoicas/Tiendas-api/internal/application/shop"
	"github.com/jhoicas/Tiendas-api/internal/application/user"
	"github.com/jhoicas/Tiendas-api/internal/domain/repository"
	"github.com/jhoicas/Tiendas-api/internal/infrastructure/memory"
	"github.com/jhoicas/Tiendas-api/internal/infrastructure/postgres"
	apphttp "github.com/jhoicas/Tiendas-api/internal/interfaces/http"
	"github.com/jhoicas/Tiendas-api/pkg/config"
)

// Storage repositorios fuera de transacción más el ejecutor transaccional del ledger.
type Storage struct {
	Users         repository.UserRepository
	Shops         repository.ShopRepository
	Products      repository.ProductRepository
	Categories    repository.CategoryRepository
	Reviews       repository.ReviewRepository
	Supplies      repository.SupplyRepository
	Transactions  repository.InventoryTransactionRepository
	Sales         repository.SaleRepository
	Invoices      repository.InvoiceRepository
	Orders        repository.OrderRepository
	Notifications repository.NotificationRepository
	Settings      repository.SettingsRepository
	Reports       repository.ReportRepository
	Tx            inventory.TxRunner
}

// MemoryStorage todo en proceso; el propio Store hace de TxRunner.
func MemoryStorage(store *memory.Store) Storage {
	r := store.Repos()
	return Storage{
		Users: r.Users, Shops: r.Shops, Products: r.Products, Categories: r.Categories,
		Reviews: r.Reviews, Supplies: r.Supplies, Transactions: r.Transactions, Sales: r.Sales,
		Invoices: r.Invoices, Orders: r.Orders, Notifications: r.Notifications, Settings: r.Settings,
		Reports: r.Reports, Tx: store,
	}
}

// PostgresStorage repositorios sobre el pool y transacciones pgx.
func PostgresStorage(pool *pgxpool.Pool) Storage {
	r := postgres.NewRepositories(pool)
	return Storage{
		Users: r.Users, Shops: r.Shops, Products: r.Products, Categories: r.Categories,
		Reviews: r.Reviews, Supplies: r.Supplies, Transactions: r.Transactions, Sales: r.Sales,
		Invoices: r.Invoices, Orders: r.Orders, Notifications: r.Notifications, Settings: r.Settings,
		Reports: r.Reports, Tx: postgres.NewTxRunner(pool),
	}
}

// RouterDeps construye todos los casos de uso y las dependencias del router.
func RouterDeps(st Storage, events ports.EventPublisher, pdf billing.InvoicePDFGenerator, cfg *config.Config) apphttp.RouterDeps {
	return apphttp.RouterDeps{
		AuthUC: auth.NewAuthUseCase(st.Users, auth.JWTConfig{
			Secret:            cfg.JWT.Secret,
			RefreshSecret:     cfg.JWT.RefreshSecret,
			ExpMinutes:        cfg.JWT.Expiration,
			RefreshExpMinutes: cfg.JWT.RefreshExpiration,
			Issuer:            cfg.JWT.Issuer,
		}),
		ShopUC:     shop.NewShopUseCase(st.Shops, st.Users, st.Notifications, events),
		ProductUC:  catalog.NewProductUseCase(st.Tx, st.Products, st.Shops, st.Categories),
		CategoryUC: catalog.NewCategoryUseCase(st.Categories),
		ReviewUC:   catalog.NewReviewUseCase(st.Reviews, st.Products),
		StockUC:    inventory.NewStockUseCase(st.Tx, st.Transactions, events),
		SupplyUC:   inventory.NewSupplyUseCase(st.Tx, st.Supplies, events),
		SaleUC:     billing.NewSaleUseCase(st.Tx, st.Sales, st.Shops, events),
		InvoiceUC:  billing.NewInvoiceUseCase(st.Tx, st.Invoices, st.Shops, events),
		InvoicePDF: billing.NewPDFUseCase(st.Invoices, st.Shops, pdf),
		OrderUC:    order.NewOrderUseCase(st.Orders, st.Products, st.Shops, st.Notifications, events),
		UserUC:     user.NewUserUseCase(st.Users, st.Shops),
		ReportUC:   analytics.NewReportUseCase(st.Reports, st.Shops),
		NotificationUC: notification.NewNotificationUseCase(
			st.Notifications, st.Products, st.Invoices, st.Supplies, cfg.Alerts.SupplyWindowDays,
		),
		SettingsUC: settings.NewSettingsUseCase(st.Settings),
		JWTSecret:  cfg.JWT.Secret,
		Cookies: apphttp.CookieConfig{
			Secure:            cfg.HTTP.CookieSecure,
			Domain:            cfg.HTTP.CookieDomain,
			AccessTTLMinutes:  cfg.JWT.Expiration,
			RefreshTTLMinutes: cfg.JWT.RefreshExpiration,
		},
	}
}
