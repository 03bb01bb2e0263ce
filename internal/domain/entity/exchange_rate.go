package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fuentes de una tasa de cambio.
const (
	RateSourceManual   = "manual"
	RateSourceProvider = "provider"
	RateSourceSettings = "settings"
)

// ExchangeRate tasa de conversión Currency -> BaseCurrency vigente desde EffectiveDate.
type ExchangeRate struct {
	Currency      string
	BaseCurrency  string
	Rate          decimal.Decimal
	EffectiveDate time.Time
	Source        string
}
