package dto

import "time"

// PlaceOrderItemRequest línea de un pedido nuevo.
type PlaceOrderItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

// PlaceOrderRequest body para POST /api/orders (pedido ya pagado).
type PlaceOrderRequest struct {
	CustomerName    string                  `json:"customer_name"`
	CustomerPhone   string                  `json:"customer_phone"`
	CustomerEmail   string                  `json:"customer_email,omitempty"`
	ShippingAddress string                  `json:"shipping_address"`
	Currency        string                  `json:"currency,omitempty"`
	DiscountAmount  int64                   `json:"discount_amount,omitempty"`
	Items           []PlaceOrderItemRequest `json:"items"`
}

// ShipOrderRequest body para PATCH /api/orders/:id/ship.
type ShipOrderRequest struct {
	Courier        string `json:"courier"`
	TrackingNumber string `json:"tracking_number"`
	TrackingURL    string `json:"tracking_url,omitempty"`
	ShippingFee    int64  `json:"shipping_fee,omitempty"`
	FeeCurrency    string `json:"fee_currency,omitempty"`
}

// CancelOrderRequest body para PATCH /api/orders/:id/cancel.
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// RefundOrderRequest body para PATCH /api/orders/:id/refund.
// Amount nil = monto final del pedido; Restock nil = true desde PAID y false desde SHIPPED; desde PAID no admite false.
type RefundOrderRequest struct {
	Reason  string `json:"reason"`
	Amount  *int64 `json:"amount,omitempty"`
	Restock *bool  `json:"restock,omitempty"`
}

// OrderItemResponse línea de pedido.
type OrderItemResponse struct {
	ID          string `json:"id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	SKU         string `json:"sku"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	Subtotal    int64  `json:"subtotal"`
}

// ShipmentResponse datos de envío.
type ShipmentResponse struct {
	Courier        string    `json:"courier"`
	TrackingNumber string    `json:"tracking_number"`
	TrackingURL    string    `json:"tracking_url,omitempty"`
	ShippingFee    int64     `json:"shipping_fee"`
	FeeCurrency    string    `json:"fee_currency"`
	ShippedAt      time.Time `json:"shipped_at"`
}

// OrderResponse salida de un pedido.
type OrderResponse struct {
	ID              string              `json:"id"`
	OrderNumber     string              `json:"order_number"`
	CustomerName    string              `json:"customer_name"`
	CustomerPhone   string              `json:"customer_phone"`
	CustomerEmail   string              `json:"customer_email,omitempty"`
	ShippingAddress string              `json:"shipping_address"`
	Status          string              `json:"status"`
	TotalAmount     int64               `json:"total_amount"`
	DiscountAmount  int64               `json:"discount_amount"`
	FinalAmount     int64               `json:"final_amount"`
	RefundAmount    int64               `json:"refund_amount,omitempty"`
	Currency        string              `json:"currency"`
	CancelReason    string              `json:"cancel_reason,omitempty"`
	RefundReason    string              `json:"refund_reason,omitempty"`
	Items           []OrderItemResponse `json:"items"`
	Shipment        *ShipmentResponse   `json:"shipment,omitempty"`
	PaidAt          time.Time           `json:"paid_at"`
	ShippedAt       *time.Time          `json:"shipped_at,omitempty"`
	CompletedAt     *time.Time          `json:"completed_at,omitempty"`
	CancelledAt     *time.Time          `json:"cancelled_at,omitempty"`
	RefundedAt      *time.Time          `json:"refunded_at,omitempty"`
	CreatedBy       string              `json:"created_by"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// OrderListResponse lista paginada de pedidos.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
