package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/yuandi-erp/internal/domain/entity"
	"github.com/jhoicas/yuandi-erp/internal/domain/repository"
)

var _ repository.ExchangeRateRepository = (*ExchangeRateRepo)(nil)

// ExchangeRateRepo tasas históricas por día.
type ExchangeRateRepo struct {
	q Querier
}

// NewExchangeRateRepository construye el adaptador.
func NewExchangeRateRepository(q Querier) *ExchangeRateRepo {
	return &ExchangeRateRepo{q: q}
}

// GetEffective tasa más reciente con fecha efectiva <= date.
func (r *ExchangeRateRepo) GetEffective(ctx context.Context, currency, base string, date time.Time) (*entity.ExchangeRate, error) {
	var er entity.ExchangeRate
	err := r.q.QueryRow(ctx, `
		SELECT currency, base_currency, rate, effective_date, source
		FROM exchange_rates
		WHERE currency = $1 AND base_currency = $2 AND effective_date <= $3::date
		ORDER BY effective_date DESC LIMIT 1`, currency, base, date,
	).Scan(&er.Currency, &er.BaseCurrency, &er.Rate, &er.EffectiveDate, &er.Source)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get exchange rate: %w", err)
	}
	return &er, nil
}

// Upsert guarda la tasa del día; si ya existe la reemplaza.
func (r *ExchangeRateRepo) Upsert(ctx context.Context, er *entity.ExchangeRate) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO exchange_rates (currency, base_currency, effective_date, rate, source)
		VALUES ($1, $2, $3::date, $4, $5)
		ON CONFLICT (currency, base_currency, effective_date)
		DO UPDATE SET rate = EXCLUDED.rate, source = EXCLUDED.source`,
		er.Currency, er.BaseCurrency, er.EffectiveDate, er.Rate, er.Source,
	)
	if err != nil {
		return fmt.Errorf("upsert exchange rate: %w", err)
	}
	return nil
}
