package entity

import "time"

// Shipment datos de despacho registrados al pasar un pedido a SHIPPED.
type Shipment struct {
	ID             string
	OrderID        string
	Courier        string
	TrackingNumber string
	TrackingURL    string
	ShippingFee    int64
	FeeCurrency    string
	ShippedAt      time.Time
	CreatedBy      string
}
