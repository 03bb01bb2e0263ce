package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/yuandi-erp/internal/domain"
	"github.com/jhoicas/yuandi-erp/internal/domain/entity"
	"github.com/jhoicas/yuandi-erp/internal/domain/repository"
)

var _ repository.ShipmentRepository = (*ShipmentRepo)(nil)

// ShipmentRepo despachos sobre PostgreSQL. Un pedido tiene como máximo un despacho.
type ShipmentRepo struct {
	q Querier
}

// NewShipmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewShipmentRepository(q Querier) *ShipmentRepo {
	return &ShipmentRepo{q: q}
}

// Create inserta el despacho.
func (r *ShipmentRepo) Create(ctx context.Context, s *entity.Shipment) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO shipments (id, order_id, courier, tracking_number, tracking_url, shipping_fee, fee_currency, shipped_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		s.ID, s.OrderID, s.Courier, s.TrackingNumber, s.TrackingURL, s.ShippingFee, s.FeeCurrency, s.ShippedAt, s.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert shipment: %w", err)
	}
	return nil
}

// GetByOrderID devuelve (nil, nil) si el pedido no fue despachado.
func (r *ShipmentRepo) GetByOrderID(ctx context.Context, orderID string) (*entity.Shipment, error) {
	var s entity.Shipment
	err := r.q.QueryRow(ctx, `
		SELECT id, order_id, courier, tracking_number, tracking_url, shipping_fee, fee_currency, shipped_at, created_by
		FROM shipments WHERE order_id = $1`, orderID,
	).Scan(&s.ID, &s.OrderID, &s.Courier, &s.TrackingNumber, &s.TrackingURL, &s.ShippingFee, &s.FeeCurrency, &s.ShippedAt, &s.CreatedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shipment: %w", err)
	}
	return &s, nil
}
