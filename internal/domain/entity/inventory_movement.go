package entity

import "time"

// Tipos de movimiento de inventario.
const (
	MovementTypeInbound       = "inbound"        // entrada de mercancía
	MovementTypeSale          = "sale"           // salida por venta
	MovementTypeAdjustment    = "adjustment"     // ajuste manual o por cancelación
	MovementTypeDisposal      = "disposal"       // baja por pérdida o daño
	MovementTypeRefundRestock = "refund_restock" // reingreso por reembolso
)

// Tipos de referencia de un movimiento o asiento de caja.
const (
	ReferenceOrder       = "order"
	ReferenceManual      = "manual"
	ReferenceOrderCancel = "order_cancel"
	ReferenceOrderRefund = "order_refund"
	ReferencePurchase    = "purchase"
	ReferenceShipment    = "shipment"
)

// ValidMovementType informa si t es un tipo de movimiento conocido.
func ValidMovementType(t string) bool {
	switch t {
	case MovementTypeInbound, MovementTypeSale, MovementTypeAdjustment,
		MovementTypeDisposal, MovementTypeRefundRestock:
		return true
	}
	return false
}

// InventoryMovement registro inmutable de un cambio de stock (append-only).
// Invariante: BalanceAfter = BalanceBefore + Quantity.
type InventoryMovement struct {
	ID            string
	ProductID     string
	Type          string
	Quantity      int // positivo entrada, negativo salida
	BalanceBefore int
	BalanceAfter  int
	ReferenceType string
	ReferenceID   string
	Note          string
	CreatedBy     string
	CreatedAt     time.Time
}
