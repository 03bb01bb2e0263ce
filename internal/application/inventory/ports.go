package inventory

import (
	"context"

	"github.com/jhoicas/yuandi-erp/internal/application/cashbook"
	"github.com/jhoicas/yuandi-erp/internal/domain/entity"
	"github.com/jhoicas/yuandi-erp/internal/domain/repository"
)

// CashbookRecorder registra el costo de un ajuste dentro de la misma transacción del movimiento.
type CashbookRecorder interface {
	RecordEntryInTx(ctx context.Context, repos repository.TxRepositories, in cashbook.RecordEntryInput) (*entity.CashbookEntry, error)
}

// SettingsProvider lectura de la configuración de negocio.
type SettingsProvider interface {
	Get(ctx context.Context) (entity.Settings, error)
}
