package cashbook

import (
	"context"
	"time"

	"github.com/jhoicas/yuandi-erp/internal/domain/entity"
	"github.com/jhoicas/yuandi-erp/internal/domain/repository"
)

// QueryService consultas de solo lectura del libro de caja.
type QueryService struct {
	repo repository.CashbookRepository
}

// NewQueryService construye el servicio.
func NewQueryService(repo repository.CashbookRepository) *QueryService {
	return &QueryService{repo: repo}
}

// List lista asientos con saldo acumulado (moneda base) calculado al consultar.
func (s *QueryService) List(ctx context.Context, filter repository.CashbookFilter) ([]*entity.CashbookEntry, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 500 {
		filter.Limit = 500
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.List(ctx, filter)
}

// BalanceAt saldo total en moneda base al instante at (asientos con fecha <= at).
func (s *QueryService) BalanceAt(ctx context.Context, at time.Time) (int64, error) {
	if at.IsZero() {
		at = time.Now()
	}
	return s.repo.BalanceAt(ctx, at)
}
