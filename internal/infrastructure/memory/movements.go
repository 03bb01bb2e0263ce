package memory

import (
	"context"

	"github.com/jhoicas/yuandi-erp/internal/domain/entity"
	"github.com/jhoicas/yuandi-erp/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*MovementRepo)(nil)

// MovementRepo movimientos en memoria (append-only).
type MovementRepo struct {
	s  *Store
	tx *tables
}

func (r *MovementRepo) Create(ctx context.Context, m *entity.InventoryMovement) error {
	return r.s.write(ctx, r.tx, OpMovementCreate, func(t *tables) error {
		t.movements = append(t.movements, *m)
		return nil
	})
}

func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.InventoryMovement, error) {
	var list []*entity.InventoryMovement
	err := r.s.read(ctx, r.tx, func(t *tables) error {
		for i := len(t.movements) - 1; i >= 0; i-- {
			m := t.movements[i]
			if f.ProductID != "" && m.ProductID != f.ProductID {
				continue
			}
			if f.ReferenceType != "" && m.ReferenceType != f.ReferenceType {
				continue
			}
			if f.ReferenceID != "" && m.ReferenceID != f.ReferenceID {
				continue
			}
			if !inRange(m.CreatedAt, f.From, f.To) {
				continue
			}
			list = append(list, &m)
		}
		return nil
	})
	return page(list, f.Limit, f.Offset), err
}

func (r *MovementRepo) ListByProductChronological(ctx context.Context, productID string) ([]*entity.InventoryMovement, error) {
	var list []*entity.InventoryMovement
	err := r.s.read(ctx, r.tx, func(t *tables) error {
		for i := range t.movements {
			if m := t.movements[i]; m.ProductID == productID {
				list = append(list, &m)
			}
		}
		return nil
	})
	return list, err
}
