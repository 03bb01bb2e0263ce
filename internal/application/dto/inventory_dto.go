package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockAdjustmentRequest body para POST /api/inventory/adjustment.
// Delta con signo: positivo entra stock, negativo sale.
type StockAdjustmentRequest struct {
	ProductID     string `json:"product_id"`
	Delta         int    `json:"delta"`
	MovementType  string `json:"movement_type"`
	ReferenceType string `json:"reference_type,omitempty"`
	ReferenceID   string `json:"reference_id,omitempty"`
	Note          string `json:"note,omitempty"`
	// CostAmount opcional: si viene se registra un egreso en el libro de caja en la misma transacción.
	CostAmount   *int64 `json:"cost_amount,omitempty"`
	CostCurrency string `json:"cost_currency,omitempty"`
}

// StockAdjustmentResponse resultado de un ajuste de stock.
type StockAdjustmentResponse struct {
	PreviousStock   int    `json:"previous_stock"`
	NewStock        int    `json:"new_stock"`
	MovementID      string `json:"movement_id"`
	CashbookEntryID string `json:"cashbook_entry_id,omitempty"`
}

// MovementResponse fila del historial de movimientos.
type MovementResponse struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	Type          string    `json:"type"`
	Quantity      int       `json:"quantity"`
	BalanceBefore int       `json:"balance_before"`
	BalanceAfter  int       `json:"balance_after"`
	ReferenceType string    `json:"reference_type,omitempty"`
	ReferenceID   string    `json:"reference_id,omitempty"`
	Note          string    `json:"note,omitempty"`
	CreatedBy     string    `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// LedgerBreak describe un eslabón roto en la cadena de movimientos de un producto.
type LedgerBreak struct {
	MovementID string `json:"movement_id"`
	Expected   int    `json:"expected_balance_before"`
	Found      int    `json:"found_balance_before"`
	Reason     string `json:"reason"`
}

// LedgerAuditResponse resultado de reproducir el historial de un producto desde cero.
type LedgerAuditResponse struct {
	ProductID  string        `json:"product_id"`
	OnHand     int           `json:"on_hand"`
	Replayed   int           `json:"replayed"`
	Movements  int           `json:"movements"`
	Consistent bool          `json:"consistent"`
	Breaks     []LedgerBreak `json:"breaks"`
}

// LowStockSuggestionDTO producto en o bajo su umbral con la cantidad sugerida de pedido.
type LowStockSuggestionDTO struct {
	ProductID          string          `json:"product_id"`
	SKU                string          `json:"sku"`
	ProductName        string          `json:"product_name"`
	OnHand             int             `json:"on_hand"`
	Threshold          int             `json:"threshold"`
	IdealStock         int             `json:"ideal_stock"`         // ceil(Threshold * 1.5)
	SuggestedOrderQty  int             `json:"suggested_order_qty"` // IdealStock - OnHand
	UnitCost           decimal.Decimal `json:"unit_cost"`
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"`
	Priority           int             `json:"priority"` // 1 = más urgente
}
