// Package orders coordina el ciclo de vida de los pedidos:
// PAID → SHIPPED → DONE, PAID → CANCELLED, PAID|SHIPPED → REFUNDED.
// Cada transición y sus efectos (stock, libro de caja, despacho) se confirman juntos o no se confirman.
package orders

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/yuandi-erp/internal/application/cashbook"
	"github.com/jhoicas/yuandi-erp/internal/application/dto"
	"github.com/jhoicas/yuandi-erp/internal/application/inventory"
	"github.com/jhoicas/yuandi-erp/internal/domain"
	"github.com/jhoicas/yuandi-erp/internal/domain/entity"
	"github.com/jhoicas/yuandi-erp/internal/domain/repository"
)

const instrumentationName = "github.com/jhoicas/yuandi-erp/internal/application/orders"

var tracer = otel.Tracer(instrumentationName)

// ShipInput datos del despacho.
type ShipInput struct {
	Courier        string
	TrackingNumber string
	TrackingURL    string
	ShippingFee    int64
	FeeCurrency    string
}

// RefundInput Amount nil = monto final; Restock nil = true desde PAID, false desde SHIPPED.
type RefundInput struct {
	Reason  string
	Amount  *int64
	Restock *bool
}

// Coordinator ejecuta las transiciones de estado de un pedido.
type Coordinator struct {
	txRunner     repository.TxRunner
	stock        StockMutator
	cashbook     CashbookRecorder
	orderRepo    repository.OrderRepository
	shipmentRepo repository.ShipmentRepository
	slips        PackingSlipGenerator
	log          zerolog.Logger
	counter      metric.Int64Counter
	now          func() time.Time
}

// NewCoordinator construye el coordinador. slips puede ser nil si no se sirven PDFs.
func NewCoordinator(
	txRunner repository.TxRunner,
	stock StockMutator,
	cashbook CashbookRecorder,
	orderRepo repository.OrderRepository,
	shipmentRepo repository.ShipmentRepository,
	slips PackingSlipGenerator,
	log zerolog.Logger,
) *Coordinator {
	counter, err := otel.Meter(instrumentationName).Int64Counter(
		"orders.transitions",
		metric.WithDescription("Transiciones de pedido confirmadas por estado destino"),
	)
	if err != nil {
		log.Warn().Err(err).Msg("no se pudo crear el contador orders.transitions")
	}
	return &Coordinator{
		txRunner:     txRunner,
		stock:        stock,
		cashbook:     cashbook,
		orderRepo:    orderRepo,
		shipmentRepo: shipmentRepo,
		slips:        slips,
		log:          log,
		counter:      counter,
		now:          time.Now,
	}
}

// sideEffects corre dentro de la transacción con el pedido ya bloqueado y la transición validada.
// Puede completar upd (motivo, monto de reembolso).
type sideEffects func(ctx context.Context, repos repository.TxRepositories, order *entity.Order, upd *repository.OrderStatusUpdate) error

// transition bloquea el pedido, valida el cambio de estado, ejecuta los efectos y persiste el nuevo estado.
// Un rechazo no escribe nada.
func (c *Coordinator) transition(ctx context.Context, orderID, to string, effects sideEffects) (*entity.Order, error) {
	ctx, span := tracer.Start(ctx, "orders.Transition", trace.WithAttributes(
		attribute.String("order.id", orderID),
		attribute.String("order.to", to),
	))
	defer span.End()

	var result *entity.Order
	var from string
	err := c.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		order, err := repos.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return fmt.Errorf("%w: %s", domain.ErrOrderNotFound, orderID)
		}
		from = order.Status
		if !entity.CanTransition(order.Status, to) {
			return &domain.InvalidTransitionError{OrderID: order.ID, From: order.Status, To: to}
		}

		now := c.now()
		upd := repository.OrderStatusUpdate{Status: to, At: now}
		if effects != nil {
			if err := effects(ctx, repos, order, &upd); err != nil {
				return err
			}
		}
		if err := repos.Orders.UpdateStatus(ctx, order.ID, upd); err != nil {
			return err
		}
		applyStatus(order, upd)
		result = order
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		var invalid *domain.InvalidTransitionError
		if errors.As(err, &invalid) {
			c.log.Warn().Str("order_id", orderID).Str("from", invalid.From).Str("to", to).Msg("transición de pedido rechazada")
		} else {
			c.log.Warn().Err(err).Str("order_id", orderID).Str("to", to).Msg("transición de pedido revertida")
		}
		return nil, err
	}

	span.SetAttributes(attribute.String("order.from", from))
	if c.counter != nil {
		c.counter.Add(ctx, 1, metric.WithAttributes(attribute.String("to", to)))
	}
	c.log.Info().Str("order_id", result.ID).Str("from", from).Str("to", to).Msg("pedido actualizado")
	return result, nil
}

func applyStatus(o *entity.Order, upd repository.OrderStatusUpdate) {
	at := upd.At
	o.Status = upd.Status
	o.UpdatedAt = at
	switch upd.Status {
	case entity.OrderStatusShipped:
		o.ShippedAt = &at
	case entity.OrderStatusDone:
		o.CompletedAt = &at
	case entity.OrderStatusCancelled:
		o.CancelledAt = &at
		o.CancelReason = upd.Reason
	case entity.OrderStatusRefunded:
		o.RefundedAt = &at
		o.RefundReason = upd.Reason
		o.RefundAmount = upd.RefundAmount
	}
}

// Ship PAID → SHIPPED. Registra el despacho y, si hay costo de envío, el egreso correspondiente.
func (c *Coordinator) Ship(ctx context.Context, orderID string, in ShipInput, actor string) (*dto.OrderResponse, error) {
	if strings.TrimSpace(in.TrackingNumber) == "" {
		return nil, fmt.Errorf("%w: tracking_number requerido", domain.ErrInvalidInput)
	}
	if in.ShippingFee < 0 {
		return nil, fmt.Errorf("%w: shipping_fee negativo", domain.ErrInvalidInput)
	}
	var shipment *entity.Shipment
	order, err := c.transition(ctx, orderID, entity.OrderStatusShipped, func(ctx context.Context, repos repository.TxRepositories, order *entity.Order, upd *repository.OrderStatusUpdate) error {
		feeCurrency := strings.ToUpper(strings.TrimSpace(in.FeeCurrency))
		if feeCurrency == "" {
			feeCurrency = order.Currency
		}
		shipment = &entity.Shipment{
			ID:             uuid.New().String(),
			OrderID:        order.ID,
			Courier:        strings.TrimSpace(in.Courier),
			TrackingNumber: strings.TrimSpace(in.TrackingNumber),
			TrackingURL:    strings.TrimSpace(in.TrackingURL),
			ShippingFee:    in.ShippingFee,
			FeeCurrency:    feeCurrency,
			ShippedAt:      upd.At,
			CreatedBy:      actor,
		}
		if err := repos.Shipments.Create(ctx, shipment); err != nil {
			return err
		}
		if in.ShippingFee == 0 {
			return nil
		}
		_, err := c.cashbook.RecordEntryInTx(ctx, repos, cashbook.RecordEntryInput{
			Type:            entity.CashbookTypeExpense,
			Category:        entity.CashbookCategoryShippingCost,
			Amount:          -in.ShippingFee,
			Currency:        feeCurrency,
			TransactionDate: upd.At,
			ReferenceType:   entity.ReferenceShipment,
			ReferenceID:     shipment.ID,
			Description:     fmt.Sprintf("Envío pedido %s (%s)", order.OrderNumber, shipment.TrackingNumber),
			Actor:           actor,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order, shipment), nil
}

// Complete SHIPPED → DONE. Sin efectos sobre stock ni caja.
func (c *Coordinator) Complete(ctx context.Context, orderID, actor string) (*dto.OrderResponse, error) {
	order, err := c.transition(ctx, orderID, entity.OrderStatusDone, nil)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order, nil), nil
}

// Cancel PAID → CANCELLED. Repone cada línea y asienta la devolución del monto final.
func (c *Coordinator) Cancel(ctx context.Context, orderID, reason, actor string) (*dto.OrderResponse, error) {
	order, err := c.transition(ctx, orderID, entity.OrderStatusCancelled, func(ctx context.Context, repos repository.TxRepositories, order *entity.Order, upd *repository.OrderStatusUpdate) error {
		upd.Reason = strings.TrimSpace(reason)
		if err := c.restock(ctx, repos, order, entity.MovementTypeAdjustment, entity.ReferenceOrderCancel, actor); err != nil {
			return err
		}
		if order.FinalAmount == 0 {
			return nil
		}
		_, err := c.cashbook.RecordEntryInTx(ctx, repos, cashbook.RecordEntryInput{
			Type:            entity.CashbookTypeExpense,
			Category:        entity.CashbookCategoryRefund,
			Amount:          -order.FinalAmount,
			Currency:        order.Currency,
			TransactionDate: upd.At,
			ReferenceType:   entity.ReferenceOrderCancel,
			ReferenceID:     order.ID,
			Description:     "Cancelación pedido " + order.OrderNumber,
			Actor:           actor,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order, nil), nil
}

// Refund PAID|SHIPPED → REFUNDED. Asienta el reembolso y opcionalmente repone stock.
func (c *Coordinator) Refund(ctx context.Context, orderID string, in RefundInput, actor string) (*dto.OrderResponse, error) {
	if in.Amount != nil && *in.Amount <= 0 {
		return nil, fmt.Errorf("%w: el monto del reembolso debe ser positivo", domain.ErrInvalidInput)
	}
	order, err := c.transition(ctx, orderID, entity.OrderStatusRefunded, func(ctx context.Context, repos repository.TxRepositories, order *entity.Order, upd *repository.OrderStatusUpdate) error {
		amount := order.FinalAmount
		if in.Amount != nil {
			amount = *in.Amount
		}
		if amount > order.FinalAmount {
			return fmt.Errorf("%w: el reembolso (%d) supera el monto del pedido (%d)", domain.ErrInvalidInput, amount, order.FinalAmount)
		}
		upd.Reason = strings.TrimSpace(in.Reason)
		upd.RefundAmount = amount

		// Desde PAID la mercadería no salió: el reembolso siempre la repone.
		restock := order.Status == entity.OrderStatusPaid
		if in.Restock != nil {
			if restock && !*in.Restock {
				return fmt.Errorf("%w: un pedido PAID reembolsado siempre repone stock", domain.ErrInvalidInput)
			}
			restock = *in.Restock
		}
		if restock {
			if err := c.restock(ctx, repos, order, entity.MovementTypeRefundRestock, entity.ReferenceOrderRefund, actor); err != nil {
				return err
			}
		}
		if amount == 0 {
			return nil
		}
		_, err := c.cashbook.RecordEntryInTx(ctx, repos, cashbook.RecordEntryInput{
			Type:            entity.CashbookTypeExpense,
			Category:        entity.CashbookCategoryRefund,
			Amount:          -amount,
			Currency:        order.Currency,
			TransactionDate: upd.At,
			ReferenceType:   entity.ReferenceOrderRefund,
			ReferenceID:     order.ID,
			Description:     "Reembolso pedido " + order.OrderNumber,
			Actor:           actor,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order, nil), nil
}

// restock devuelve al stock cada línea del pedido, bloqueando productos por ID ascendente.
func (c *Coordinator) restock(ctx context.Context, repos repository.TxRepositories, order *entity.Order, movementType, refType, actor string) error {
	items := slices.Clone(order.Items)
	slices.SortStableFunc(items, func(a, b entity.OrderItem) int { return strings.Compare(a.ProductID, b.ProductID) })
	for _, it := range items {
		if _, err := c.stock.AdjustStockInTx(ctx, repos, inventory.AdjustStockInput{
			ProductID:     it.ProductID,
			Delta:         it.Quantity,
			MovementType:  movementType,
			ReferenceType: refType,
			ReferenceID:   order.ID,
			Note:          order.OrderNumber,
			Actor:         actor,
			AllowInactive: true,
		}); err != nil {
			return err
		}
	}
	return nil
}

// Get pedido con su despacho, si existe.
func (c *Coordinator) Get(ctx context.Context, orderID string) (*dto.OrderResponse, error) {
	order, err := c.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrOrderNotFound, orderID)
	}
	shipment, err := c.shipmentRepo.GetByOrderID(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order, shipment), nil
}

// List pedidos filtrados, más recientes primero.
func (c *Coordinator) List(ctx context.Context, filter repository.OrderFilter) ([]dto.OrderResponse, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Status != "" {
		filter.Status = strings.ToUpper(filter.Status)
	}
	list, err := c.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, *toOrderResponse(o, nil))
	}
	return out, nil
}

// PackingSlip PDF de despacho; sólo para pedidos enviados o entregados.
func (c *Coordinator) PackingSlip(ctx context.Context, orderID string) ([]byte, string, error) {
	if c.slips == nil {
		return nil, "", fmt.Errorf("%w: generador de PDF no configurado", domain.ErrConflict)
	}
	order, err := c.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, "", err
	}
	if order == nil {
		return nil, "", fmt.Errorf("%w: %s", domain.ErrOrderNotFound, orderID)
	}
	if order.Status != entity.OrderStatusShipped && order.Status != entity.OrderStatusDone {
		return nil, "", fmt.Errorf("%w: el pedido %s está en %s", domain.ErrConflict, order.OrderNumber, order.Status)
	}
	shipment, err := c.shipmentRepo.GetByOrderID(ctx, order.ID)
	if err != nil {
		return nil, "", err
	}
	pdf, err := c.slips.Generate(order, shipment)
	if err != nil {
		return nil, "", fmt.Errorf("packing slip: %w", err)
	}
	return pdf, order.OrderNumber + ".pdf", nil
}
