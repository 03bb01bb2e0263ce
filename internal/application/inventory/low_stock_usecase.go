package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/yuandi-erp/internal/application/dto"
	"github.com/jhoicas/yuandi-erp/internal/domain/repository"
)

// LowStockUseCase genera la lista de reposición con los productos en o bajo su umbral.
type LowStockUseCase struct {
	productRepo repository.ProductRepository
	settings    SettingsProvider
}

// NewLowStockUseCase construye el caso de uso.
func NewLowStockUseCase(productRepo repository.ProductRepository, settings SettingsProvider) *LowStockUseCase {
	return &LowStockUseCase{productRepo: productRepo, settings: settings}
}

// List devuelve los productos activos con on_hand <= umbral, ordenados por déficit.
// Un umbral 0 en el producto usa el valor por defecto de Settings.
func (uc *LowStockUseCase) List(ctx context.Context) ([]dto.LowStockSuggestionDTO, error) {
	s, err := uc.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	products, err := uc.productRepo.ListLowStock(ctx, s.DefaultLowStockThreshold)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return []dto.LowStockSuggestionDTO{}, nil
	}

	suggestions := make([]dto.LowStockSuggestionDTO, 0, len(products))
	for _, p := range products {
		threshold := p.LowStockThreshold
		if threshold <= 0 {
			threshold = s.DefaultLowStockThreshold
		}
		if !p.IsLowStock(threshold) {
			continue
		}
		ideal := int(decimal.NewFromInt(int64(threshold)).Mul(decimal.NewFromFloat(1.5)).Ceil().IntPart())
		suggested := ideal - p.OnHand
		if suggested < 0 {
			suggested = 0
		}
		suggestions = append(suggestions, dto.LowStockSuggestionDTO{
			ProductID:          p.ID,
			SKU:                p.SKU,
			ProductName:        p.Name,
			OnHand:             p.OnHand,
			Threshold:          threshold,
			IdealStock:         ideal,
			SuggestedOrderQty:  suggested,
			UnitCost:           p.UnitCost,
			EstimatedOrderCost: p.UnitCost.Mul(decimal.NewFromInt(int64(suggested))),
		})
	}

	// Mayor déficit bajo el umbral primero; luego menor stock absoluto.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		defA, defB := a.Threshold-a.OnHand, b.Threshold-b.OnHand
		if defA != defB {
			return defA > defB
		}
		return a.OnHand < b.OnHand
	})
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
