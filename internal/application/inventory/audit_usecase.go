package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/yuandi-erp/internal/application/dto"
	"github.com/jhoicas/yuandi-erp/internal/domain"
	"github.com/jhoicas/yuandi-erp/internal/domain/entity"
	"github.com/jhoicas/yuandi-erp/internal/domain/repository"
)

// LedgerAuditUseCase consultas de solo lectura sobre el historial de movimientos.
type LedgerAuditUseCase struct {
	productRepo  repository.ProductRepository
	movementRepo repository.InventoryMovementRepository
}

// NewLedgerAuditUseCase construye el caso de uso.
func NewLedgerAuditUseCase(productRepo repository.ProductRepository, movementRepo repository.InventoryMovementRepository) *LedgerAuditUseCase {
	return &LedgerAuditUseCase{productRepo: productRepo, movementRepo: movementRepo}
}

// Verify reproduce todos los movimientos del producto desde cero y compara contra on_hand.
// Un producto es consistente si la cadena no tiene huecos y la suma coincide con el stock actual.
func (uc *LedgerAuditUseCase) Verify(ctx context.Context, productID string) (*dto.LedgerAuditResponse, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, productID)
	}
	movs, err := uc.movementRepo.ListByProductChronological(ctx, productID)
	if err != nil {
		return nil, err
	}
	out := Replay(product.OnHand, movs)
	out.ProductID = product.ID
	return out, nil
}

// Replay recorre la cadena de movimientos y reporta cada eslabón roto.
func Replay(onHand int, movs []*entity.InventoryMovement) *dto.LedgerAuditResponse {
	out := &dto.LedgerAuditResponse{OnHand: onHand, Movements: len(movs), Breaks: []dto.LedgerBreak{}}
	running := 0
	for _, m := range movs {
		if m.BalanceBefore != running {
			out.Breaks = append(out.Breaks, dto.LedgerBreak{
				MovementID: m.ID, Expected: running, Found: m.BalanceBefore,
				Reason: "balance_before no coincide con el saldo previo",
			})
		}
		if m.BalanceAfter != m.BalanceBefore+m.Quantity {
			out.Breaks = append(out.Breaks, dto.LedgerBreak{
				MovementID: m.ID, Expected: m.BalanceBefore + m.Quantity, Found: m.BalanceAfter,
				Reason: "balance_after distinto de balance_before + quantity",
			})
		}
		running += m.Quantity
	}
	out.Replayed = running
	out.Consistent = len(out.Breaks) == 0 && running == onHand
	return out
}

// ListMovements historial filtrado, más reciente primero.
func (uc *LedgerAuditUseCase) ListMovements(ctx context.Context, filter repository.MovementFilter) ([]*entity.InventoryMovement, error) {
	page := dto.PageRequest{Limit: filter.Limit, Offset: filter.Offset}.Normalize(50)
	filter.Limit, filter.Offset = page.Limit, page.Offset
	return uc.movementRepo.List(ctx, filter)
}
