package repository

import (
	"context"

	"github.com/jhoicas/yuandi-erp/internal/domain/entity"
)

// ShipmentRepository puerto de persistencia de despachos.
type ShipmentRepository interface {
	Create(ctx context.Context, shipment *entity.Shipment) error
	GetByOrderID(ctx context.Context, orderID string) (*entity.Shipment, error)
}
