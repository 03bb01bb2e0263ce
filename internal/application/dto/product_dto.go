package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. El SKU se deriva de los atributos.
type CreateProductRequest struct {
	Category          string          `json:"category" validate:"required"`
	Name              string          `json:"name" validate:"required,min=1,max=200"`
	Model             string          `json:"model"`
	Color             string          `json:"color"`
	Brand             string          `json:"brand"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	LowStockThreshold int             `json:"low_stock_threshold"`
}

// UpdateProductRequest entrada para actualizar un producto (nunca toca el stock).
type UpdateProductRequest struct {
	Name              *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Model             *string          `json:"model"`
	Color             *string          `json:"color"`
	Brand             *string          `json:"brand"`
	UnitCost          *decimal.Decimal `json:"unit_cost"`
	LowStockThreshold *int             `json:"low_stock_threshold"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID                string          `json:"id"`
	SKU               string          `json:"sku"`
	Category          string          `json:"category"`
	Name              string          `json:"name"`
	Model             string          `json:"model"`
	Color             string          `json:"color"`
	Brand             string          `json:"brand"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	OnHand            int             `json:"on_hand"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	Active            bool            `json:"active"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
