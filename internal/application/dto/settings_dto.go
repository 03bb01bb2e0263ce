package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettingsRequest body para PUT /api/settings. Campos nil no se modifican.
type SettingsRequest struct {
	SupportedCurrencies      []string                   `json:"supported_currencies,omitempty"`
	FallbackRates            map[string]decimal.Decimal `json:"fallback_rates,omitempty"`
	DefaultLowStockThreshold *int                       `json:"default_low_stock_threshold,omitempty"`
}

// SettingsResponse configuración de negocio vigente.
type SettingsResponse struct {
	BaseCurrency             string                     `json:"base_currency"`
	SupportedCurrencies      []string                   `json:"supported_currencies"`
	FallbackRates            map[string]decimal.Decimal `json:"fallback_rates"`
	DefaultLowStockThreshold int                        `json:"default_low_stock_threshold"`
	UpdatedAt                time.Time                  `json:"updated_at"`
	UpdatedBy                string                     `json:"updated_by,omitempty"`
}
