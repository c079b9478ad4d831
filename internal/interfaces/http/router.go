package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Tiendas-api/internal/application/analytics"
	"github.com/jhoicas/Tiendas-api/internal/application/auth"
	"github.com/jhoicas/Tiendas-api/internal/application/billing"
	"github.com/jhoicas/Tiendas-api/internal/application/catalog"
	"github.com/jhoicas/Tiendas-api/internal/application/inventory"
	"github.com/jhoicas/Tiendas-api/internal/application/notification"
	"github.com/jhoicas/Tiendas-api/internal/application/order"
	"github.com/jhoicas/Tiendas-api/internal/application/settings"
	"github.com/jhoicas/Tiendas-api/internal/application/shop"
	"github.com/jhoicas/Tiendas-api/internal/application/user"
	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	ShopUC         *shop.ShopUseCase
	ProductUC      *catalog.ProductUseCase
	CategoryUC     *catalog.CategoryUseCase
	ReviewUC       *catalog.ReviewUseCase
	StockUC        *inventory.StockUseCase
	SupplyUC       *inventory.SupplyUseCase
	SaleUC         *billing.SaleUseCase
	InvoiceUC      *billing.InvoiceUseCase
	InvoicePDF     *billing.PDFUseCase
	OrderUC        *order.OrderUseCase
	UserUC         *user.UserUseCase
	ReportUC       *analytics.ReportUseCase
	NotificationUC *notification.NotificationUseCase
	SettingsUC     *settings.SettingsUseCase
	JWTSecret      string
	Cookies        CookieConfig
}

// Grupos de roles usados en las rutas.
var (
	rolesBackOffice = []string{entity.RoleStaff, entity.RoleSeller, entity.RoleAdmin, entity.RoleSuperadmin}
	rolesManagers   = []string{entity.RoleSeller, entity.RoleAdmin, entity.RoleSuperadmin}
	rolesAdmins     = []string{entity.RoleAdmin, entity.RoleSuperadmin}
)

// Router registra las rutas de la API bajo /api.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	authn := AuthMiddleware(deps.JWTSecret)
	backOffice := RequireRole(rolesBackOffice...)
	managers := RequireRole(rolesManagers...)
	admins := RequireRole(rolesAdmins...)

	// Auth (público salvo /me)
	authHandler := NewAuthHandler(deps.AuthUC, deps.Cookies)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Get("/me", authn, authHandler.Me)

	// Catálogo público
	productHandler := NewProductHandler(deps.ProductUC, deps.StockUC)
	reviewHandler := NewReviewHandler(deps.ReviewUC)
	catalogGroup := api.Group("/catalog")
	catalogGroup.Get("/", productHandler.Catalog)
	catalogGroup.Get("/:id", productHandler.CatalogProduct)
	catalogGroup.Get("/:id/reviews", reviewHandler.List)

	// Tiendas
	shopHandler := NewShopHandler(deps.ShopUC)
	shops := api.Group("/shops", authn)
	shops.Get("/", shopHandler.List)
	shops.Post("/", managers, shopHandler.Create)
	shops.Get("/:id", shopHandler.GetByID)
	shops.Patch("/:id", managers, shopHandler.Update)
	shops.Delete("/:id", admins, shopHandler.Delete)
	shops.Post("/:id/approve", RequireRole(entity.RoleSuperadmin), shopHandler.Approve)
	shops.Post("/:id/reject", RequireRole(entity.RoleSuperadmin), shopHandler.Reject)

	// Productos; /lookup antes de /:id
	products := api.Group("/products", authn)
	products.Get("/", backOffice, productHandler.List)
	products.Get("/lookup", backOffice, productHandler.Lookup)
	products.Post("/", managers, productHandler.Create)
	products.Get("/:id", backOffice, productHandler.GetByID)
	products.Patch("/:id", managers, productHandler.Update)
	products.Patch("/:id/stock", backOffice, productHandler.UpdateStock)
	products.Delete("/:id", admins, productHandler.Delete)
	products.Post("/:id/reviews", reviewHandler.Create)
	api.Delete("/reviews/:id", authn, reviewHandler.Delete)

	// Categorías
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories := api.Group("/categories", authn)
	categories.Get("/", categoryHandler.List)
	categories.Post("/", backOffice, categoryHandler.Create)
	categories.Patch("/:id", backOffice, categoryHandler.Update)
	categories.Delete("/:id", backOffice, categoryHandler.Delete)

	// Suministros y ledger
	inventoryHandler := NewInventoryHandler(deps.SupplyUC, deps.StockUC)
	supplies := api.Group("/supplies", authn, backOffice)
	supplies.Get("/", inventoryHandler.ListSupplies)
	supplies.Post("/", inventoryHandler.CreateSupply)
	supplies.Get("/:id", inventoryHandler.GetSupply)
	supplies.Patch("/:id", inventoryHandler.UpdateSupply)
	supplies.Delete("/:id", inventoryHandler.DeleteSupply)
	api.Get("/inventory/transactions", authn, backOffice, inventoryHandler.ListTransactions)

	// Ventas
	saleHandler := NewSaleHandler(deps.SaleUC)
	sales := api.Group("/sales", authn, backOffice)
	sales.Get("/", saleHandler.List)
	sales.Post("/", saleHandler.Create)
	sales.Get("/:id", saleHandler.GetByID)
	sales.Delete("/:id", saleHandler.Delete)

	// Facturas
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.InvoicePDF)
	invoices := api.Group("/invoices", authn, backOffice)
	invoices.Get("/", invoiceHandler.List)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)
	invoices.Patch("/:id", invoiceHandler.Update)
	invoices.Delete("/:id", invoiceHandler.Delete)

	// Pedidos
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders := api.Group("/orders", authn)
	orders.Get("/", orderHandler.List)
	orders.Post("/", orderHandler.Create)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Patch("/:id/status", managers, orderHandler.UpdateStatus)
	orders.Delete("/:id", orderHandler.Delete)

	// Usuarios
	userHandler := NewUserHandler(deps.UserUC)
	users := api.Group("/users", authn, managers)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Get("/:id", userHandler.GetByID)
	users.Patch("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	// Reportes
	reportHandler := NewReportHandler(deps.ReportUC)
	reports := api.Group("/reports", authn, managers)
	reports.Get("/dashboard", reportHandler.Dashboard)
	reports.Get("/sales", reportHandler.Sales)
	reports.Get("/products", reportHandler.Products)
	reports.Get("/staff", reportHandler.Staff)

	// Avisos y alertas
	notificationHandler := NewNotificationHandler(deps.NotificationUC)
	notifications := api.Group("/notifications", authn)
	notifications.Get("/", notificationHandler.List)
	notifications.Get("/alerts", backOffice, notificationHandler.Alerts)
	notifications.Post("/:id/read", notificationHandler.MarkRead)

	// Ajustes
	settingsHandler := NewSettingsHandler(deps.SettingsUC)
	settingsGroup := api.Group("/settings", authn, backOffice)
	settingsGroup.Get("/", settingsHandler.List)
	settingsGroup.Put("/", managers, settingsHandler.Upsert)
	settingsGroup.Delete("/:key", managers, settingsHandler.Delete)
}
