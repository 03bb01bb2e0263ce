package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/yuandi-erp/internal/application/cashbook"
	"github.com/jhoicas/yuandi-erp/internal/application/inventory"
	"github.com/jhoicas/yuandi-erp/internal/application/orders"
	"github.com/jhoicas/yuandi-erp/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	PlaceOrder  *orders.PlaceOrderUseCase
	Coordinator *orders.Coordinator
	Adjustment  *inventory.AdjustmentUseCase
	LedgerAudit *inventory.LedgerAuditUseCase
	LowStock    *inventory.LowStockUseCase
	Recorder    *cashbook.Recorder
	Cashbook    *cashbook.QueryService
	ProductUC   *usecase.ProductUseCase
	Settings    *usecase.SettingsService
	Policy      PolicyChecker
	JWTSecret   string
	JWTIssuer   string
	Log         zerolog.Logger
}

// Router registra las rutas de la API. Todas las rutas bajo /api requieren Bearer Token
// y cada una exige el permiso de su acción.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))
	can := func(action string) fiber.Handler { return RequirePermission(action, deps.Policy) }

	// Orders
	ordersGroup := api.Group("/orders")
	orderHandler := NewOrderHandler(deps.PlaceOrder, deps.Coordinator, deps.Log)
	ordersGroup.Post("/", can(usecase.ActionOrdersCreate), orderHandler.Place)
	ordersGroup.Get("/", can(usecase.ActionOrdersRead), orderHandler.List)
	ordersGroup.Get("/:id", can(usecase.ActionOrdersRead), orderHandler.GetByID)
	ordersGroup.Get("/:id/packing-slip", can(usecase.ActionOrdersRead), orderHandler.PackingSlip)
	ordersGroup.Patch("/:id/ship", can(usecase.ActionOrdersShip), orderHandler.Ship)
	ordersGroup.Patch("/:id/complete", can(usecase.ActionOrdersComplete), orderHandler.Complete)
	ordersGroup.Patch("/:id/cancel", can(usecase.ActionOrdersCancel), orderHandler.Cancel)
	ordersGroup.Patch("/:id/refund", can(usecase.ActionOrdersRefund), orderHandler.Refund)

	// Inventory
	invGroup := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Adjustment, deps.LedgerAudit, deps.LowStock, deps.Log)
	invGroup.Post("/adjustment", can(usecase.ActionInventoryAdjust), inventoryHandler.Adjust)
	invGroup.Get("/movements", can(usecase.ActionInventoryRead), inventoryHandler.ListMovements)
	invGroup.Get("/low-stock", can(usecase.ActionInventoryRead), inventoryHandler.LowStock)
	invGroup.Get("/products/:id/audit", can(usecase.ActionInventoryRead), inventoryHandler.Audit)

	// Cashbook
	cashGroup := api.Group("/cashbook")
	cashbookHandler := NewCashbookHandler(deps.Recorder, deps.Cashbook, deps.Settings, deps.Log)
	cashGroup.Get("/", can(usecase.ActionCashbookRead), cashbookHandler.List)
	cashGroup.Get("/balance", can(usecase.ActionCashbookRead), cashbookHandler.Balance)
	cashGroup.Post("/entries", can(usecase.ActionCashbookWrite), cashbookHandler.CreateEntry)

	// Products
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.Log)
	products.Post("/", can(usecase.ActionProductsWrite), productHandler.Create)
	products.Get("/", can(usecase.ActionInventoryRead), productHandler.List)
	products.Get("/:id", can(usecase.ActionInventoryRead), productHandler.GetByID)
	products.Put("/:id", can(usecase.ActionProductsWrite), productHandler.Update)
	products.Delete("/:id", can(usecase.ActionProductsWrite), productHandler.Deactivate)

	// Settings
	settings := api.Group("/settings")
	settingsHandler := NewSettingsHandler(deps.Settings, deps.Log)
	settings.Get("/", can(usecase.ActionInventoryRead), settingsHandler.Get)
	settings.Put("/", can(usecase.ActionSettingsWrite), settingsHandler.Update)
}
