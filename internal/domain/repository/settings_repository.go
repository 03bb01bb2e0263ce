package repository

import (
	"context"

	"github.com/jhoicas/yuandi-erp/internal/domain/entity"
)

// SettingsRepository persistencia de la configuración de negocio (una sola fila).
type SettingsRepository interface {
	// Get devuelve (nil, nil) si aún no se guardó configuración.
	Get(ctx context.Context) (*entity.Settings, error)
	Save(ctx context.Context, settings *entity.Settings) error
}
