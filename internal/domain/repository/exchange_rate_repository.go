package repository

import (
	"context"
	"time"

	"github.com/jhoicas/yuandi-erp/internal/domain/entity"
)

// ExchangeRateRepository tasas de cambio históricas.
type ExchangeRateRepository interface {
	// GetEffective devuelve la tasa más reciente con effective_date <= date, o nil si no hay.
	GetEffective(ctx context.Context, currency, baseCurrency string, date time.Time) (*entity.ExchangeRate, error)
	Upsert(ctx context.Context, rate *entity.ExchangeRate) error
}
