package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/yuandi-erp/internal/domain"
	"github.com/jhoicas/yuandi-erp/internal/domain/entity"
	"github.com/jhoicas/yuandi-erp/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo productos en memoria.
type ProductRepo struct {
	s  *Store
	tx *tables
}

func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	return r.s.write(ctx, r.tx, OpProductCreate, func(t *tables) error {
		if _, ok := t.products[p.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, other := range t.products {
			if other.SKU == p.SKU {
				return domain.ErrDuplicate
			}
		}
		t.products[p.ID] = *p
		return nil
	})
}

func (r *ProductRepo) get(ctx context.Context, match func(entity.Product) bool) (*entity.Product, error) {
	var out *entity.Product
	err := r.s.read(ctx, r.tx, func(t *tables) error {
		for _, id := range sortedKeys(t.products) {
			if p := t.products[id]; match(p) {
				out = &p
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.s.read(ctx, r.tx, func(t *tables) error {
		if p, ok := t.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

// GetForUpdate equivale a GetByID: el Store ya serializa las transacciones.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	return r.get(ctx, func(p entity.Product) bool { return p.SKU == sku })
}

func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	return r.s.write(ctx, r.tx, OpProductUpdate, func(t *tables) error {
		cur, ok := t.products[p.ID]
		if !ok {
			return domain.ErrProductNotFound
		}
		cur.Name, cur.Model, cur.Color, cur.Brand = p.Name, p.Model, p.Color, p.Brand
		cur.UnitCost = p.UnitCost
		cur.LowStockThreshold = p.LowStockThreshold
		cur.UpdatedAt = p.UpdatedAt
		t.products[p.ID] = cur
		return nil
	})
}

func (r *ProductRepo) UpdateStock(ctx context.Context, id string, onHand int) error {
	return r.s.write(ctx, r.tx, OpProductUpdateStock, func(t *tables) error {
		cur, ok := t.products[id]
		if !ok {
			return domain.ErrProductNotFound
		}
		if onHand < 0 {
			return fmt.Errorf("%w: on_hand quedaría negativo para %s", domain.ErrInsufficientStock, id)
		}
		cur.OnHand = onHand
		t.products[id] = cur
		return nil
	})
}

func (r *ProductRepo) SetActive(ctx context.Context, id string, active bool) error {
	return r.s.write(ctx, r.tx, OpProductUpdate, func(t *tables) error {
		cur, ok := t.products[id]
		if !ok {
			return domain.ErrProductNotFound
		}
		cur.Active = active
		t.products[id] = cur
		return nil
	})
}

func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	var list []*entity.Product
	err := r.s.read(ctx, r.tx, func(t *tables) error {
		for _, p := range t.products {
			if f.Category != "" && p.Category != f.Category {
				continue
			}
			if f.ActiveOnly && !p.Active {
				continue
			}
			list = append(list, &p)
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return page(list, f.Limit, f.Offset), err
}

func (r *ProductRepo) ListLowStock(ctx context.Context, defaultThreshold int) ([]*entity.Product, error) {
	var list []*entity.Product
	err := r.s.read(ctx, r.tx, func(t *tables) error {
		for _, p := range t.products {
			threshold := p.LowStockThreshold
			if threshold <= 0 {
				threshold = defaultThreshold
			}
			if p.Active && p.OnHand <= threshold {
				list = append(list, &p)
			}
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool {
		if list[i].OnHand != list[j].OnHand {
			return list[i].OnHand < list[j].OnHand
		}
		return list[i].SKU < list[j].SKU
	})
	return list, err
}
