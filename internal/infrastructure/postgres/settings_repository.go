package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/yuandi-erp/internal/domain/entity"
	"github.com/jhoicas/yuandi-erp/internal/domain/repository"
)

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

// settingsDocument forma JSONB de app_settings.data.
type settingsDocument struct {
	BaseCurrency             string                     `json:"base_currency"`
	SupportedCurrencies      []string                   `json:"supported_currencies"`
	FallbackRates            map[string]decimal.Decimal `json:"fallback_rates"`
	DefaultLowStockThreshold int                        `json:"default_low_stock_threshold"`
}

// SettingsRepo fila única app_settings.
type SettingsRepo struct {
	q Querier
}

// NewSettingsRepository construye el adaptador.
func NewSettingsRepository(q Querier) *SettingsRepo {
	return &SettingsRepo{q: q}
}

// Get devuelve (nil, nil) si la fila no existe.
func (r *SettingsRepo) Get(ctx context.Context) (*entity.Settings, error) {
	var (
		raw       []byte
		updatedAt time.Time
		updatedBy string
	)
	err := r.q.QueryRow(ctx, `SELECT data, updated_at, updated_by FROM app_settings WHERE id = 1`).
		Scan(&raw, &updatedAt, &updatedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}
	var doc settingsDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	if doc.FallbackRates == nil {
		doc.FallbackRates = map[string]decimal.Decimal{}
	}
	return &entity.Settings{
		BaseCurrency:             doc.BaseCurrency,
		SupportedCurrencies:      doc.SupportedCurrencies,
		FallbackRates:            doc.FallbackRates,
		DefaultLowStockThreshold: doc.DefaultLowStockThreshold,
		UpdatedAt:                updatedAt,
		UpdatedBy:                updatedBy,
	}, nil
}

// Save reemplaza la fila completa.
func (r *SettingsRepo) Save(ctx context.Context, s *entity.Settings) error {
	raw, err := json.Marshal(settingsDocument{
		BaseCurrency:             s.BaseCurrency,
		SupportedCurrencies:      s.SupportedCurrencies,
		FallbackRates:            s.FallbackRates,
		DefaultLowStockThreshold: s.DefaultLowStockThreshold,
	})
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO app_settings (id, data, updated_at, updated_by) VALUES (1, $1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at, updated_by = EXCLUDED.updated_by`,
		raw, s.UpdatedAt, s.UpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
