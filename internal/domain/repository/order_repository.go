package repository

import (
	"context"
	"time"

	"github.com/jhoicas/yuandi-erp/internal/domain/entity"
)

// OrderFilter filtros de listado de pedidos.
type OrderFilter struct {
	Status string
	Search string // número de pedido o nombre del cliente
	Limit  int
	Offset int
}

// OrderStatusUpdate campos que acompañan un cambio de estado.
type OrderStatusUpdate struct {
	Status       string
	At           time.Time
	Reason       string // motivo de cancelación o reembolso
	RefundAmount int64
}

// OrderRepository puerto de persistencia de pedidos y sus líneas.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// GetForUpdate bloquea la fila del pedido para serializar transiciones concurrentes.
	GetForUpdate(ctx context.Context, id string) (*entity.Order, error)
	UpdateStatus(ctx context.Context, id string, upd OrderStatusUpdate) error
	List(ctx context.Context, filter OrderFilter) ([]*entity.Order, error)
}
