package memory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/yuandi-erp/internal/domain/entity"
	"github.com/jhoicas/yuandi-erp/internal/domain/repository"
)

var _ repository.ExchangeRateRepository = (*ExchangeRateRepo)(nil)
var _ repository.SettingsRepository = (*SettingsRepo)(nil)

// ExchangeRateRepo tasas en memoria. Fuera del alcance de las transacciones del Store.
type ExchangeRateRepo struct{ s *Store }

// ExchangeRates repositorio de tasas.
func (s *Store) ExchangeRates() *ExchangeRateRepo { return &ExchangeRateRepo{s: s} }

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (r *ExchangeRateRepo) GetEffective(ctx context.Context, currency, base string, date time.Time) (*entity.ExchangeRate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.auxMu.RLock()
	defer r.s.auxMu.RUnlock()
	var best *entity.ExchangeRate
	limit := day(date)
	for i := range r.s.rates {
		er := r.s.rates[i]
		if er.Currency != currency || er.BaseCurrency != base || er.EffectiveDate.After(limit) {
			continue
		}
		if best == nil || er.EffectiveDate.After(best.EffectiveDate) {
			best = &er
		}
	}
	return best, nil
}

func (r *ExchangeRateRepo) Upsert(ctx context.Context, er *entity.ExchangeRate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.auxMu.Lock()
	defer r.s.auxMu.Unlock()
	rate := *er
	rate.EffectiveDate = day(er.EffectiveDate)
	for i, cur := range r.s.rates {
		if cur.Currency == rate.Currency && cur.BaseCurrency == rate.BaseCurrency && cur.EffectiveDate.Equal(rate.EffectiveDate) {
			r.s.rates[i] = rate
			return nil
		}
	}
	r.s.rates = append(r.s.rates, rate)
	return nil
}

// SettingsRepo configuración en memoria.
type SettingsRepo struct{ s *Store }

// Settings repositorio de configuración.
func (s *Store) Settings() *SettingsRepo { return &SettingsRepo{s: s} }

func (r *SettingsRepo) Get(ctx context.Context) (*entity.Settings, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.auxMu.RLock()
	defer r.s.auxMu.RUnlock()
	if r.s.settings == nil {
		return nil, nil
	}
	out := *r.s.settings
	out.SupportedCurrencies = append([]string(nil), out.SupportedCurrencies...)
	out.FallbackRates = make(map[string]decimal.Decimal, len(r.s.settings.FallbackRates))
	for k, v := range r.s.settings.FallbackRates {
		out.FallbackRates[k] = v
	}
	return &out, nil
}

func (r *SettingsRepo) Save(ctx context.Context, st *entity.Settings) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.auxMu.Lock()
	defer r.s.auxMu.Unlock()
	cp := *st
	cp.SupportedCurrencies = append([]string(nil), st.SupportedCurrencies...)
	cp.FallbackRates = make(map[string]decimal.Decimal, len(st.FallbackRates))
	for k, v := range st.FallbackRates {
		cp.FallbackRates[k] = v
	}
	r.s.settings = &cp
	return nil
}
