package orders

import (
	"context"

	"github.com/jhoicas/yuandi-erp/internal/application/cashbook"
	"github.com/jhoicas/yuandi-erp/internal/application/inventory"
	"github.com/jhoicas/yuandi-erp/internal/domain/entity"
	"github.com/jhoicas/yuandi-erp/internal/domain/repository"
)

// StockMutator mueve stock dentro de la transacción del pedido.
type StockMutator interface {
	AdjustStockInTx(ctx context.Context, repos repository.TxRepositories, in inventory.AdjustStockInput) (*inventory.AdjustStockResult, error)
}

// CashbookRecorder registra el efecto monetario dentro de la transacción del pedido.
type CashbookRecorder interface {
	RecordEntryInTx(ctx context.Context, repos repository.TxRepositories, in cashbook.RecordEntryInput) (*entity.CashbookEntry, error)
}

// SettingsProvider lectura de la configuración de negocio.
type SettingsProvider interface {
	Get(ctx context.Context) (entity.Settings, error)
}

// PackingSlipGenerator genera el PDF de despacho de un pedido.
type PackingSlipGenerator interface {
	Generate(order *entity.Order, shipment *entity.Shipment) ([]byte, error)
}
