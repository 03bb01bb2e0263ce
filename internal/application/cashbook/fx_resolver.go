package cashbook

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/yuandi-erp/internal/domain"
	"github.com/jhoicas/yuandi-erp/internal/domain/entity"
	"github.com/jhoicas/yuandi-erp/internal/domain/repository"
)

// FXResolver resuelve tasas en este orden:
//  1. moneda base → 1
//  2. tabla exchange_rates (última tasa con fecha <= date)
//  3. proveedor externo (si está configurado); la tasa obtenida se guarda
//  4. tasa manual de Settings.FallbackRates
//
// Si ninguna fuente responde devuelve *domain.InvalidCurrencyError.
type FXResolver struct {
	rates    repository.ExchangeRateRepository
	provider ExternalRateProvider
	settings SettingsProvider
	log      zerolog.Logger
}

// NewFXResolver construye el resolvedor. provider puede ser nil.
func NewFXResolver(rates repository.ExchangeRateRepository, provider ExternalRateProvider, settings SettingsProvider, log zerolog.Logger) *FXResolver {
	return &FXResolver{rates: rates, provider: provider, settings: settings, log: log}
}

// Resolve implementa RateResolver.
func (r *FXResolver) Resolve(ctx context.Context, currency string, date time.Time) (decimal.Decimal, error) {
	s, err := r.settings.Get(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == s.BaseCurrency {
		return decimal.NewFromInt(1), nil
	}
	if !s.Supports(currency) {
		return decimal.Zero, &domain.InvalidCurrencyError{Currency: currency, Date: date}
	}

	stored, err := r.rates.GetEffective(ctx, currency, s.BaseCurrency, date)
	if err != nil {
		return decimal.Zero, err
	}
	if stored != nil && stored.Rate.IsPositive() {
		return stored.Rate, nil
	}

	if r.provider != nil {
		rate, err := r.provider.FetchRate(ctx, currency, s.BaseCurrency, date)
		if err == nil && rate.IsPositive() {
			day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
			if err := r.rates.Upsert(ctx, &entity.ExchangeRate{
				Currency:      currency,
				BaseCurrency:  s.BaseCurrency,
				Rate:          rate,
				EffectiveDate: day,
				Source:        entity.RateSourceProvider,
			}); err != nil {
				r.log.Warn().Err(err).Str("currency", currency).Msg("no se pudo guardar la tasa del proveedor")
			}
			return rate, nil
		}
		if err != nil {
			r.log.Warn().Err(err).Str("currency", currency).Msg("proveedor de tasas no disponible")
		}
	}

	if fb, ok := s.FallbackRates[currency]; ok && fb.IsPositive() {
		return fb, nil
	}
	return decimal.Zero, &domain.InvalidCurrencyError{Currency: currency, Date: date}
}
