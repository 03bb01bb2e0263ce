package repository

import (
	"context"
	"time"

	"github.com/jhoicas/yuandi-erp/internal/domain/entity"
)

// MovementFilter filtros para listar movimientos.
type MovementFilter struct {
	ProductID     string
	ReferenceType string
	ReferenceID   string
	From, To      *time.Time
	Limit         int
	Offset        int
}

// InventoryMovementRepository puerto de persistencia de movimientos (solo inserción y lectura).
type InventoryMovementRepository interface {
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	List(ctx context.Context, filter MovementFilter) ([]*entity.InventoryMovement, error)
	// ListByProductChronological devuelve todos los movimientos del producto en orden de creación.
	ListByProductChronological(ctx context.Context, productID string) ([]*entity.InventoryMovement, error)
}
