// Package inventory contiene el mutador de stock y los casos de uso que lo rodean.
// Toda modificación de products.on_hand pasa por StockMutator.
package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/yuandi-erp/internal/domain"
	"github.com/jhoicas/yuandi-erp/internal/domain/entity"
	"github.com/jhoicas/yuandi-erp/internal/domain/repository"
)

const instrumentationName = "github.com/jhoicas/yuandi-erp/internal/application/inventory"

var tracer = otel.Tracer(instrumentationName)

// AdjustStockInput entrada del mutador. Delta con signo.
// AllowInactive permite reponer stock de un producto desactivado (compensaciones de pedidos).
type AdjustStockInput struct {
	ProductID     string
	Delta         int
	MovementType  string
	ReferenceType string
	ReferenceID   string
	Note          string
	Actor         string
	AllowInactive bool
}

// AdjustStockResult stock antes y después, más el id del movimiento creado.
type AdjustStockResult struct {
	PreviousStock int
	NewStock      int
	MovementID    string
}

// StockMutator aplica deltas al stock y deja un movimiento por cada cambio.
type StockMutator struct {
	txRunner repository.TxRunner
	log      zerolog.Logger
	counter  metric.Int64Counter
	now      func() time.Time
}

// NewStockMutator construye el mutador. Usa el MeterProvider global.
func NewStockMutator(txRunner repository.TxRunner, log zerolog.Logger) *StockMutator {
	counter, err := otel.Meter(instrumentationName).Int64Counter(
		"inventory.stock_adjustments",
		metric.WithDescription("Movimientos de inventario confirmados por tipo"),
	)
	if err != nil {
		log.Warn().Err(err).Msg("no se pudo crear el contador inventory.stock_adjustments")
	}
	return &StockMutator{txRunner: txRunner, log: log, counter: counter, now: time.Now}
}

// AdjustStock ejecuta el ajuste en su propia transacción.
func (m *StockMutator) AdjustStock(ctx context.Context, in AdjustStockInput) (*AdjustStockResult, error) {
	var res *AdjustStockResult
	err := m.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		r, err := m.AdjustStockInTx(ctx, repos, in)
		if err != nil {
			return err
		}
		res = r
		return nil
	})
	if err != nil {
		m.log.Warn().Err(err).
			Str("product_id", in.ProductID).
			Int("delta", in.Delta).
			Str("movement_type", in.MovementType).
			Msg("ajuste de stock rechazado")
		return nil, err
	}
	m.record(ctx, in.MovementType)
	m.log.Info().
		Str("product_id", in.ProductID).
		Int("delta", in.Delta).
		Int("new_stock", res.NewStock).
		Str("movement_id", res.MovementID).
		Msg("stock ajustado")
	return res, nil
}

// AdjustStockInTx bloquea la fila del producto (SELECT FOR UPDATE), valida el saldo resultante,
// actualiza on_hand e inserta el movimiento con balance_before/balance_after.
// Corre dentro de la transacción del caller; cualquier error obliga a rollback.
func (m *StockMutator) AdjustStockInTx(ctx context.Context, repos repository.TxRepositories, in AdjustStockInput) (*AdjustStockResult, error) {
	ctx, span := tracer.Start(ctx, "inventory.AdjustStock", trace.WithAttributes(
		attribute.String("product.id", in.ProductID),
		attribute.Int("inventory.delta", in.Delta),
		attribute.String("inventory.movement_type", in.MovementType),
	))
	defer span.End()

	res, err := m.adjust(ctx, repos, in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return res, nil
}

func (m *StockMutator) adjust(ctx context.Context, repos repository.TxRepositories, in AdjustStockInput) (*AdjustStockResult, error) {
	if err := validateAdjustment(in); err != nil {
		return nil, err
	}

	product, err := repos.Products.GetForUpdate(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, in.ProductID)
	}
	if !product.Active && !in.AllowInactive {
		return nil, fmt.Errorf("%w: el producto %s está inactivo", domain.ErrInvalidInput, product.ID)
	}

	before := product.OnHand
	after := before + in.Delta
	if after < 0 {
		return nil, &domain.InsufficientStockError{ProductID: product.ID, Available: before, Requested: in.Delta}
	}

	if err := repos.Products.UpdateStock(ctx, product.ID, after); err != nil {
		return nil, err
	}

	mov := &entity.InventoryMovement{
		ID:            uuid.New().String(),
		ProductID:     product.ID,
		Type:          in.MovementType,
		Quantity:      in.Delta,
		BalanceBefore: before,
		BalanceAfter:  after,
		ReferenceType: in.ReferenceType,
		ReferenceID:   in.ReferenceID,
		Note:          in.Note,
		CreatedBy:     in.Actor,
		CreatedAt:     m.now(),
	}
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return &AdjustStockResult{PreviousStock: before, NewStock: after, MovementID: mov.ID}, nil
}

// record incrementa el contador; se llama sólo después del commit.
func (m *StockMutator) record(ctx context.Context, movementType string) {
	if m.counter == nil {
		return
	}
	m.counter.Add(ctx, 1, metric.WithAttributes(attribute.String("type", movementType)))
}

func validateAdjustment(in AdjustStockInput) error {
	if strings.TrimSpace(in.ProductID) == "" {
		return fmt.Errorf("%w: product_id requerido", domain.ErrInvalidInput)
	}
	if in.Delta == 0 {
		return fmt.Errorf("%w: el delta no puede ser cero", domain.ErrInvalidInput)
	}
	if !entity.ValidMovementType(in.MovementType) {
		return fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, in.MovementType)
	}
	switch in.MovementType {
	case entity.MovementTypeSale, entity.MovementTypeDisposal:
		if in.Delta > 0 {
			return fmt.Errorf("%w: %s exige delta negativo", domain.ErrInvalidInput, in.MovementType)
		}
	case entity.MovementTypeInbound, entity.MovementTypeRefundRestock:
		if in.Delta < 0 {
			return fmt.Errorf("%w: %s exige delta positivo", domain.ErrInvalidInput, in.MovementType)
		}
	}
	if strings.TrimSpace(in.Actor) == "" {
		return fmt.Errorf("%w: actor requerido", domain.ErrInvalidInput)
	}
	return nil
}
