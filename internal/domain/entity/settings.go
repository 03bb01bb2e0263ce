package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settings configuración de negocio editable por el administrador.
// Se lee a través de usecase.SettingsService; no existe copia global.
type Settings struct {
	BaseCurrency             string
	SupportedCurrencies      []string
	FallbackRates            map[string]decimal.Decimal // tasa manual por moneda si no hay otra fuente
	DefaultLowStockThreshold int
	UpdatedAt                time.Time
	UpdatedBy                string
}

// DefaultSettings valores iniciales: KRW como base, CNY como moneda de compra.
func DefaultSettings() Settings {
	return Settings{
		BaseCurrency:             "KRW",
		SupportedCurrencies:      []string{"KRW", "CNY"},
		FallbackRates:            map[string]decimal.Decimal{},
		DefaultLowStockThreshold: 5,
	}
}

// Supports informa si la moneda está habilitada.
func (s Settings) Supports(currency string) bool {
	for _, c := range s.SupportedCurrencies {
		if c == currency {
			return true
		}
	}
	return false
}
