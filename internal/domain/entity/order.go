package entity

import "time"

// Estados de un pedido.
const (
	OrderStatusPaid      = "PAID"
	OrderStatusShipped   = "SHIPPED"
	OrderStatusDone      = "DONE"
	OrderStatusCancelled = "CANCELLED"
	OrderStatusRefunded  = "REFUNDED"
)

// orderTransitions máquina de estados: PAID → SHIPPED → DONE, PAID → CANCELLED,
// PAID|SHIPPED → REFUNDED. DONE, CANCELLED y REFUNDED son terminales.
var orderTransitions = map[string][]string{
	OrderStatusPaid:    {OrderStatusShipped, OrderStatusCancelled, OrderStatusRefunded},
	OrderStatusShipped: {OrderStatusDone, OrderStatusRefunded},
}

// CanTransition informa si la máquina de estados permite pasar de from a to.
func CanTransition(from, to string) bool {
	for _, s := range orderTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminalStatus informa si ningún cambio puede salir de status.
func IsTerminalStatus(status string) bool {
	switch status {
	case OrderStatusDone, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

// Order pedido de cliente. Se crea pagado (PAID); solo el coordinador de ciclo de vida lo modifica.
type Order struct {
	ID              string
	OrderNumber     string
	CustomerName    string
	CustomerPhone   string
	CustomerEmail   string
	ShippingAddress string
	Items           []OrderItem
	Status          string
	TotalAmount     int64 // suma de líneas
	DiscountAmount  int64
	FinalAmount     int64 // TotalAmount - DiscountAmount, monto efectivamente cobrado
	RefundAmount    int64
	Currency        string
	CancelReason    string
	RefundReason    string
	PaidAt          time.Time
	ShippedAt       *time.Time
	CompletedAt     *time.Time
	CancelledAt     *time.Time
	RefundedAt      *time.Time
	CreatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderItem línea de pedido.
type OrderItem struct {
	ID          string
	OrderID     string
	ProductID   string
	ProductName string
	SKU         string
	Quantity    int
	UnitPrice   int64
	Subtotal    int64
}

// IsTerminal informa si el pedido ya no admite transiciones.
func (o *Order) IsTerminal() bool { return IsTerminalStatus(o.Status) }
