package postgres

// Repositories todos los adaptadores sobre un mismo Querier.
type Repositories struct {
	Users         *UserRepo
	Shops         *ShopRepo
	Products      *ProductRepo
	Categories    *CategoryRepo
	Reviews       *ReviewRepo
	Supplies      *SupplyRepo
	Transactions  *InventoryTransactionRepo
	Sales         *SaleRepo
	Invoices      *InvoiceRepo
	Counters      *CounterRepo
	Orders        *OrderRepo
	Notifications *NotificationRepo
	Settings      *SettingsRepo
	Reports       *ReportRepo
}

// NewRepositories construye los repositorios sobre el pool (o una tx).
func NewRepositories(q Querier) Repositories {
	return Repositories{
		Users:         NewUserRepository(q),
		Shops:         NewShopRepository(q),
		Products:      NewProductRepository(q),
		Categories:    NewCategoryRepository(q),
		Reviews:       NewReviewRepository(q),
		Supplies:      NewSupplyRepository(q),
		Transactions:  NewInventoryTransactionRepository(q),
		Sales:         NewSaleRepository(q),
		Invoices:      NewInvoiceRepository(q),
		Counters:      NewCounterRepository(q),
		Orders:        NewOrderRepository(q),
		Notifications: NewNotificationRepository(q),
		Settings:      NewSettingsRepository(q),
		Reports:       NewReportRepository(q),
	}
}
