package repository

import (
	"context"

	"github.com/jhoicas/yuandi-erp/internal/domain/entity"
)

// ProductFilter filtros de listado del catálogo.
type ProductFilter struct {
	Category   string
	ActiveOnly bool
	Limit      int
	Offset     int
}

// ProductRepository define el puerto de persistencia para Product.
// GetByID y GetForUpdate devuelven (nil, nil) si el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate obtiene el producto y bloquea la fila (SELECT FOR UPDATE) hasta el fin de la tx.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	// Update modifica atributos de catálogo; nunca toca on_hand.
	Update(ctx context.Context, product *entity.Product) error
	// UpdateStock fija on_hand; solo lo invoca el StockMutator dentro de una tx.
	UpdateStock(ctx context.Context, id string, onHand int) error
	SetActive(ctx context.Context, id string, active bool) error
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	ListLowStock(ctx context.Context, defaultThreshold int) ([]*entity.Product, error)
}
