package memory

import (
	"context"
	"strings"

	"github.com/jhoicas/yuandi-erp/internal/domain"
	"github.com/jhoicas/yuandi-erp/internal/domain/entity"
	"github.com/jhoicas/yuandi-erp/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)
var _ repository.ShipmentRepository = (*ShipmentRepo)(nil)

// OrderRepo pedidos en memoria.
type OrderRepo struct {
	s  *Store
	tx *tables
}

func copyOrder(o entity.Order) *entity.Order {
	o.Items = append([]entity.OrderItem(nil), o.Items...)
	return &o
}

func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	return r.s.write(ctx, r.tx, OpOrderCreate, func(t *tables) error {
		if _, ok := t.orders[o.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, other := range t.orders {
			if other.OrderNumber == o.OrderNumber {
				return domain.ErrDuplicate
			}
		}
		t.orders[o.ID] = *copyOrder(*o)
		t.orderSeq = append(t.orderSeq, o.ID)
		return nil
	})
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	var out *entity.Order
	err := r.s.read(ctx, r.tx, func(t *tables) error {
		if o, ok := t.orders[id]; ok {
			out = copyOrder(o)
		}
		return nil
	})
	return out, err
}

// GetForUpdate equivale a GetByID: el Store ya serializa las transacciones.
func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, upd repository.OrderStatusUpdate) error {
	return r.s.write(ctx, r.tx, OpOrderUpdateStatus, func(t *tables) error {
		o, ok := t.orders[id]
		if !ok {
			return domain.ErrOrderNotFound
		}
		at := upd.At
		o.Status = upd.Status
		o.UpdatedAt = at
		switch upd.Status {
		case entity.OrderStatusShipped:
			o.ShippedAt = &at
		case entity.OrderStatusDone:
			o.CompletedAt = &at
		case entity.OrderStatusCancelled:
			o.CancelledAt = &at
			o.CancelReason = upd.Reason
		case entity.OrderStatusRefunded:
			o.RefundedAt = &at
			o.RefundReason = upd.Reason
			o.RefundAmount = upd.RefundAmount
		default:
			return domain.ErrInvalidInput
		}
		t.orders[id] = o
		return nil
	})
}

func (r *OrderRepo) List(ctx context.Context, f repository.OrderFilter) ([]*entity.Order, error) {
	var list []*entity.Order
	search := strings.ToLower(strings.TrimSpace(f.Search))
	err := r.s.read(ctx, r.tx, func(t *tables) error {
		for i := len(t.orderSeq) - 1; i >= 0; i-- {
			o := t.orders[t.orderSeq[i]]
			if f.Status != "" && o.Status != f.Status {
				continue
			}
			if search != "" &&
				!strings.Contains(strings.ToLower(o.OrderNumber), search) &&
				!strings.Contains(strings.ToLower(o.CustomerName), search) {
				continue
			}
			list = append(list, copyOrder(o))
		}
		return nil
	})
	return page(list, f.Limit, f.Offset), err
}

// ShipmentRepo despachos en memoria.
type ShipmentRepo struct {
	s  *Store
	tx *tables
}

func (r *ShipmentRepo) Create(ctx context.Context, sh *entity.Shipment) error {
	return r.s.write(ctx, r.tx, OpShipmentCreate, func(t *tables) error {
		if _, ok := t.shipments[sh.OrderID]; ok {
			return domain.ErrDuplicate
		}
		t.shipments[sh.OrderID] = *sh
		return nil
	})
}

func (r *ShipmentRepo) GetByOrderID(ctx context.Context, orderID string) (*entity.Shipment, error) {
	var out *entity.Shipment
	err := r.s.read(ctx, r.tx, func(t *tables) error {
		if sh, ok := t.shipments[orderID]; ok {
			out = &sh
		}
		return nil
	})
	return out, err
}
