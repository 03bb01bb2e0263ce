package cashbook

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/yuandi-erp/internal/domain/entity"
)

// RateResolver resuelve la tasa moneda -> moneda base vigente en una fecha.
type RateResolver interface {
	Resolve(ctx context.Context, currency string, date time.Time) (decimal.Decimal, error)
}

// SettingsProvider lectura de la configuración de negocio (la implementa usecase.SettingsService).
type SettingsProvider interface {
	Get(ctx context.Context) (entity.Settings, error)
}

// ExternalRateProvider fuente externa de tasas (API de cambio). Opcional.
type ExternalRateProvider interface {
	FetchRate(ctx context.Context, currency, baseCurrency string, date time.Time) (decimal.Decimal, error)
}
