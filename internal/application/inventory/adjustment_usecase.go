package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/yuandi-erp/internal/application/cashbook"
	"github.com/jhoicas/yuandi-erp/internal/application/dto"
	"github.com/jhoicas/yuandi-erp/internal/domain"
	"github.com/jhoicas/yuandi-erp/internal/domain/entity"
	domaininv "github.com/jhoicas/yuandi-erp/internal/domain/inventory"
	"github.com/jhoicas/yuandi-erp/internal/domain/repository"
)

// AdjustmentUseCase ajuste manual de inventario (POST /api/inventory/adjustment).
// Si el request trae costo, el egreso se registra en la misma transacción que el movimiento.
type AdjustmentUseCase struct {
	txRunner repository.TxRunner
	mutator  *StockMutator
	cashbook CashbookRecorder
	log      zerolog.Logger
}

// NewAdjustmentUseCase construye el caso de uso.
func NewAdjustmentUseCase(txRunner repository.TxRunner, mutator *StockMutator, cashbook CashbookRecorder, log zerolog.Logger) *AdjustmentUseCase {
	return &AdjustmentUseCase{txRunner: txRunner, mutator: mutator, cashbook: cashbook, log: log}
}

// Adjust aplica el ajuste solicitado por userID.
func (uc *AdjustmentUseCase) Adjust(ctx context.Context, userID string, in dto.StockAdjustmentRequest) (*dto.StockAdjustmentResponse, error) {
	if in.CostAmount != nil && *in.CostAmount <= 0 {
		return nil, fmt.Errorf("%w: cost_amount debe ser positivo", domain.ErrInvalidInput)
	}
	refType := in.ReferenceType
	if refType == "" {
		refType = entity.ReferenceManual
		if in.MovementType == entity.MovementTypeInbound {
			refType = entity.ReferencePurchase
		}
	}
	input := AdjustStockInput{
		ProductID:     in.ProductID,
		Delta:         in.Delta,
		MovementType:  in.MovementType,
		ReferenceType: refType,
		ReferenceID:   in.ReferenceID,
		Note:          in.Note,
		Actor:         userID,
	}

	if in.CostAmount == nil {
		res, err := uc.mutator.AdjustStock(ctx, input)
		if err != nil {
			return nil, err
		}
		return &dto.StockAdjustmentResponse{PreviousStock: res.PreviousStock, NewStock: res.NewStock, MovementID: res.MovementID}, nil
	}

	out := &dto.StockAdjustmentResponse{}
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		res, err := uc.mutator.AdjustStockInTx(ctx, repos, input)
		if err != nil {
			return err
		}
		if err := updateUnitCost(ctx, repos, in, res.PreviousStock); err != nil {
			return err
		}
		category := entity.CashbookCategoryAdjustment
		if in.MovementType == entity.MovementTypeInbound {
			category = entity.CashbookCategoryInventoryPurchase
		}
		entry, err := uc.cashbook.RecordEntryInTx(ctx, repos, cashbook.RecordEntryInput{
			Type:          entity.CashbookTypeExpense,
			Category:      category,
			Amount:        -*in.CostAmount,
			Currency:      in.CostCurrency,
			ReferenceType: refType,
			ReferenceID:   res.MovementID,
			Description:   fmt.Sprintf("Costo de %s (%+d uds.)", in.MovementType, in.Delta),
			Actor:         userID,
		})
		if err != nil {
			return err
		}
		out.PreviousStock = res.PreviousStock
		out.NewStock = res.NewStock
		out.MovementID = res.MovementID
		out.CashbookEntryID = entry.ID
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("product_id", in.ProductID).Int("delta", in.Delta).Msg("ajuste con costo rechazado")
		return nil, err
	}
	uc.mutator.record(ctx, in.MovementType)
	uc.log.Info().
		Str("product_id", in.ProductID).
		Int("delta", in.Delta).
		Str("movement_id", out.MovementID).
		Str("cashbook_entry_id", out.CashbookEntryID).
		Msg("stock ajustado con costo")
	return out, nil
}

// updateUnitCost recalcula el costo promedio ponderado cuando una compra entra en la moneda de costo del producto.
func updateUnitCost(ctx context.Context, repos repository.TxRepositories, in dto.StockAdjustmentRequest, previousStock int) error {
	if in.MovementType != entity.MovementTypeInbound || in.Delta <= 0 {
		return nil
	}
	if strings.ToUpper(strings.TrimSpace(in.CostCurrency)) != entity.ProductCostCurrency {
		return nil
	}
	product, err := repos.Products.GetByID(ctx, in.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrProductNotFound
	}
	product.UnitCost = domaininv.WeightedAverageCost(previousStock, product.UnitCost, in.Delta, decimal.NewFromInt(*in.CostAmount))
	product.UpdatedAt = time.Now()
	return repos.Products.Update(ctx, product)
}
