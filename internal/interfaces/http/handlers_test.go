package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/yuandi-erp/internal/application/cashbook"
	"github.com/jhoicas/yuandi-erp/internal/application/dto"
	"github.com/jhoicas/yuandi-erp/internal/application/inventory"
	"github.com/jhoicas/yuandi-erp/internal/application/orders"
	"github.com/jhoicas/yuandi-erp/internal/application/usecase"
	"github.com/jhoicas/yuandi-erp/internal/infrastructure/memory"
	"github.com/jhoicas/yuandi-erp/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/yuandi-erp/internal/interfaces/http"
)

// buildAPI arma la API completa sobre el almacén en memoria.
func buildAPI(t *testing.T) *fiber.App {
	t.Helper()
	log := zerolog.Nop()
	store := memory.NewStore()
	repos := store.Repositories()

	settings := usecase.NewSettingsService(store.Settings(), 0, log)
	resolver := cashbook.NewFXResolver(store.ExchangeRates(), nil, settings, log)
	recorder := cashbook.NewRecorder(store, resolver, log)
	mutator := inventory.NewStockMutator(store, log)

	app := fiber.New()
	app.Use(apphttp.RequestLogger(log))
	apphttp.Router(app, apphttp.RouterDeps{
		PlaceOrder:  orders.NewPlaceOrderUseCase(store, mutator, recorder, settings, log),
		Coordinator: orders.NewCoordinator(store, mutator, recorder, repos.Orders, repos.Shipments, pdf.NewPackingSlipGenerator("YUANDI"), log),
		Adjustment:  inventory.NewAdjustmentUseCase(store, mutator, recorder, log),
		LedgerAudit: inventory.NewLedgerAuditUseCase(repos.Products, repos.Movements),
		LowStock:    inventory.NewLowStockUseCase(repos.Products, settings),
		Recorder:    recorder,
		Cashbook:    cashbook.NewQueryService(repos.Cashbook),
		ProductUC:   usecase.NewProductUseCase(repos.Products),
		Settings:    settings,
		Policy:      usecase.NewPolicyService(),
		JWTSecret:   testJWTSecret,
		JWTIssuer:   testIssuer,
		Log:         log,
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, role string, body interface{}) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", bearer(t, role, testIssuer))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, out
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

// createStockedProduct crea un producto y le carga stock con un ingreso.
func createStockedProduct(t *testing.T, app *fiber.App, stock int) dto.ProductResponse {
	t.Helper()
	resp, raw := call(t, app, http.MethodPost, "/api/products", "admin", dto.CreateProductRequest{
		Category: "BAG", Name: "Bolso tote", Model: "TOTE", Color: "BLK", Brand: "YD",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	product := decode[dto.ProductResponse](t, raw)
	assert.Equal(t, 0, product.OnHand)

	resp, raw = call(t, app, http.MethodPost, "/api/inventory/adjustment", "admin", dto.StockAdjustmentRequest{
		ProductID: product.ID, Delta: stock, MovementType: "inbound",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	adj := decode[dto.StockAdjustmentResponse](t, raw)
	assert.Equal(t, stock, adj.NewStock)
	product.OnHand = stock
	return product
}

func placeOrder(t *testing.T, app *fiber.App, productID string, qty int, price int64) dto.OrderResponse {
	t.Helper()
	resp, raw := call(t, app, http.MethodPost, "/api/orders", "order_manager", dto.PlaceOrderRequest{
		CustomerName:    "Kim Minji",
		CustomerPhone:   "010-1234-5678",
		ShippingAddress: "Seoul",
		Items:           []dto.PlaceOrderItemRequest{{ProductID: productID, Quantity: qty, UnitPrice: price}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	return decode[dto.OrderResponse](t, raw)
}

func onHand(t *testing.T, app *fiber.App, productID string) int {
	t.Helper()
	resp, raw := call(t, app, http.MethodGet, "/api/products/"+productID, "admin", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decode[dto.ProductResponse](t, raw).OnHand
}

func balance(t *testing.T, app *fiber.App) int64 {
	t.Helper()
	resp, raw := call(t, app, http.MethodGet, "/api/cashbook/balance", "admin", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decode[dto.CashbookBalanceResponse](t, raw).Balance
}

func TestOrderFlow_PlaceShipComplete(t *testing.T) {
	app := buildAPI(t)
	product := createStockedProduct(t, app, 5)

	order := placeOrder(t, app, product.ID, 2, 25000)
	assert.Equal(t, "PAID", order.Status)
	assert.Equal(t, int64(50000), order.FinalAmount)
	assert.Equal(t, 3, onHand(t, app, product.ID))
	assert.Equal(t, int64(50000), balance(t, app))

	resp, raw := call(t, app, http.MethodPatch, "/api/orders/"+order.ID+"/ship", "ship_manager", dto.ShipOrderRequest{
		Courier: "CJ", TrackingNumber: "1234567890", ShippingFee: 3000,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	shipped := decode[dto.OrderResponse](t, raw)
	assert.Equal(t, "SHIPPED", shipped.Status)
	require.NotNil(t, shipped.Shipment)
	assert.Equal(t, "1234567890", shipped.Shipment.TrackingNumber)
	assert.Equal(t, int64(47000), balance(t, app))

	resp, raw = call(t, app, http.MethodGet, "/api/orders/"+order.ID+"/packing-slip", "ship_manager", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))

	resp, raw = call(t, app, http.MethodPatch, "/api/orders/"+order.ID+"/complete", "ship_manager", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Equal(t, "DONE", decode[dto.OrderResponse](t, raw).Status)
	assert.Equal(t, 3, onHand(t, app, product.ID))
}

func TestOrderFlow_CancelRestockAndReverseIncome(t *testing.T) {
	app := buildAPI(t)
	product := createStockedProduct(t, app, 5)
	order := placeOrder(t, app, product.ID, 2, 25000)

	resp, _ := call(t, app, http.MethodPatch, "/api/orders/"+order.ID+"/cancel", "ship_manager", dto.CancelOrderRequest{Reason: "x"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, raw := call(t, app, http.MethodPatch, "/api/orders/"+order.ID+"/cancel", "order_manager", dto.CancelOrderRequest{Reason: "cliente desistió"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Equal(t, "CANCELLED", decode[dto.OrderResponse](t, raw).Status)
	assert.Equal(t, 5, onHand(t, app, product.ID))
	assert.Equal(t, int64(0), balance(t, app))

	resp, raw = call(t, app, http.MethodPatch, "/api/orders/"+order.ID+"/complete", "order_manager", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(raw), "INVALID_TRANSITION")

	resp, raw = call(t, app, http.MethodGet, "/api/inventory/products/"+product.ID+"/audit", "order_manager", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	audit := decode[dto.LedgerAuditResponse](t, raw)
	assert.True(t, audit.Consistent)
	assert.Equal(t, 3, audit.Movements)
	assert.Equal(t, 5, audit.Replayed)
}

func TestOrderFlow_PartialRefundFromShippedKeepsStock(t *testing.T) {
	app := buildAPI(t)
	product := createStockedProduct(t, app, 5)
	order := placeOrder(t, app, product.ID, 1, 30000)

	resp, raw := call(t, app, http.MethodPatch, "/api/orders/"+order.ID+"/ship", "ship_manager", dto.ShipOrderRequest{TrackingNumber: "TRK-1"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	amount := int64(10000)
	resp, raw = call(t, app, http.MethodPatch, "/api/orders/"+order.ID+"/refund", "order_manager", dto.RefundOrderRequest{
		Reason: "producto dañado", Amount: &amount,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	refunded := decode[dto.OrderResponse](t, raw)
	assert.Equal(t, "REFUNDED", refunded.Status)
	assert.Equal(t, int64(10000), refunded.RefundAmount)
	assert.Equal(t, 4, onHand(t, app, product.ID))
	assert.Equal(t, int64(20000), balance(t, app))
}

func TestPackingSlip_PedidoPagadoRetorna409(t *testing.T) {
	app := buildAPI(t)
	product := createStockedProduct(t, app, 1)
	order := placeOrder(t, app, product.ID, 1, 1000)

	resp, _ := call(t, app, http.MethodGet, "/api/orders/"+order.ID+"/packing-slip", "admin", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestInventoryAdjustment_InsufficientStock(t *testing.T) {
	app := buildAPI(t)
	product := createStockedProduct(t, app, 2)

	resp, raw := call(t, app, http.MethodPost, "/api/inventory/adjustment", "admin", dto.StockAdjustmentRequest{
		ProductID: product.ID, Delta: -3, MovementType: "disposal",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(raw), "INSUFFICIENT_STOCK")
	assert.Equal(t, 2, onHand(t, app, product.ID))
}

func TestInventoryAdjustment_CostRecordsExpense(t *testing.T) {
	app := buildAPI(t)
	resp, raw := call(t, app, http.MethodPost, "/api/products", "admin", dto.CreateProductRequest{Category: "WAL", Name: "Cartera"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	product := decode[dto.ProductResponse](t, raw)

	cost := int64(12000)
	resp, raw = call(t, app, http.MethodPost, "/api/inventory/adjustment", "admin", dto.StockAdjustmentRequest{
		ProductID: product.ID, Delta: 4, MovementType: "inbound", CostAmount: &cost, CostCurrency: "KRW",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	assert.NotEmpty(t, decode[dto.StockAdjustmentResponse](t, raw).CashbookEntryID)
	assert.Equal(t, int64(-12000), balance(t, app))

	resp, raw = call(t, app, http.MethodGet, "/api/cashbook?category=inventory_purchase", "order_manager", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.CashbookListResponse](t, raw)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "expense", list.Items[0].Type)
	require.NotNil(t, list.Items[0].BalanceAfter)
	assert.Equal(t, int64(-12000), *list.Items[0].BalanceAfter)
}

func TestInventoryMovements_ListByProduct(t *testing.T) {
	app := buildAPI(t)
	product := createStockedProduct(t, app, 3)
	placeOrder(t, app, product.ID, 1, 1000)

	resp, raw := call(t, app, http.MethodGet, "/api/inventory/movements?product_id="+product.ID, "ship_manager", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.MovementListResponse](t, raw)
	require.Len(t, list.Items, 2)
	for _, m := range list.Items {
		assert.Equal(t, m.BalanceBefore+m.Quantity, m.BalanceAfter)
	}
}

func TestInventoryMovements_FechaInvalida(t *testing.T) {
	app := buildAPI(t)
	resp, _ := call(t, app, http.MethodGet, "/api/inventory/movements?from=ayer", "admin", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLowStock_ListaProductosBajoUmbral(t *testing.T) {
	app := buildAPI(t)
	createStockedProduct(t, app, 1)

	resp, raw := call(t, app, http.MethodGet, "/api/inventory/low-stock", "order_manager", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[struct {
		Total int                         `json:"total"`
		Items []dto.LowStockSuggestionDTO `json:"items"`
	}](t, raw)
	require.Equal(t, 1, body.Total)
	assert.Equal(t, 1, body.Items[0].Priority)
	assert.Positive(t, body.Items[0].SuggestedOrderQty)
}

func TestCashbookEntry_ManualExpense(t *testing.T) {
	app := buildAPI(t)

	resp, raw := call(t, app, http.MethodPost, "/api/cashbook/entries", "admin", dto.CashbookEntryRequest{
		Type: "expense", Category: "adjustment", Amount: -5000, Currency: "KRW", Description: "caja chica",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	entry := decode[dto.CashbookEntryResponse](t, raw)
	assert.Equal(t, int64(-5000), entry.AmountBase)
	assert.Equal(t, "manual", entry.ReferenceType)

	resp, _ = call(t, app, http.MethodPost, "/api/cashbook/entries", "order_manager", dto.CashbookEntryRequest{
		Type: "expense", Category: "adjustment", Amount: -5000, Currency: "KRW",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCashbookEntry_MonedaNoSoportada(t *testing.T) {
	app := buildAPI(t)
	resp, raw := call(t, app, http.MethodPost, "/api/cashbook/entries", "admin", dto.CashbookEntryRequest{
		Type: "income", Category: "adjustment", Amount: 100, Currency: "EUR",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(raw), "INVALID_CURRENCY")
}

func TestOrders_NotFound(t *testing.T) {
	app := buildAPI(t)
	resp, raw := call(t, app, http.MethodGet, "/api/orders/no-existe", "admin", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(raw), "ORDER_NOT_FOUND")
}

func TestProducts_DeactivateBlocksSales(t *testing.T) {
	app := buildAPI(t)
	product := createStockedProduct(t, app, 2)

	resp, _ := call(t, app, http.MethodDelete, "/api/products/"+product.ID, "admin", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = call(t, app, http.MethodPost, "/api/orders", "order_manager", dto.PlaceOrderRequest{
		CustomerName: "Lee", CustomerPhone: "010", ShippingAddress: "Busan",
		Items: []dto.PlaceOrderItemRequest{{ProductID: product.ID, Quantity: 1, UnitPrice: 1000}},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 2, onHand(t, app, product.ID))
}

func TestSettings_UpdateVisibleEnGet(t *testing.T) {
	app := buildAPI(t)
	threshold := 8

	resp, _ := call(t, app, http.MethodPut, "/api/settings", "order_manager", dto.SettingsRequest{DefaultLowStockThreshold: &threshold})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, raw := call(t, app, http.MethodPut, "/api/settings", "admin", dto.SettingsRequest{DefaultLowStockThreshold: &threshold})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	resp, raw = call(t, app, http.MethodGet, "/api/settings", "ship_manager", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	st := decode[dto.SettingsResponse](t, raw)
	assert.Equal(t, 8, st.DefaultLowStockThreshold)
	assert.Equal(t, "KRW", st.BaseCurrency)
}
