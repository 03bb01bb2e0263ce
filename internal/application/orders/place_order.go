package orders

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/yuandi-erp/internal/application/cashbook"
	"github.com/jhoicas/yuandi-erp/internal/application/dto"
	"github.com/jhoicas/yuandi-erp/internal/application/inventory"
	"github.com/jhoicas/yuandi-erp/internal/domain"
	"github.com/jhoicas/yuandi-erp/internal/domain/entity"
	"github.com/jhoicas/yuandi-erp/internal/domain/repository"
)

// PlaceOrderUseCase registra un pedido ya pagado: descuenta stock por línea,
// guarda el pedido y asienta el ingreso, todo en una transacción.
type PlaceOrderUseCase struct {
	txRunner repository.TxRunner
	stock    StockMutator
	cashbook CashbookRecorder
	settings SettingsProvider
	log      zerolog.Logger
	now      func() time.Time
}

// NewPlaceOrderUseCase construye el caso de uso.
func NewPlaceOrderUseCase(
	txRunner repository.TxRunner,
	stock StockMutator,
	cashbook CashbookRecorder,
	settings SettingsProvider,
	log zerolog.Logger,
) *PlaceOrderUseCase {
	return &PlaceOrderUseCase{txRunner: txRunner, stock: stock, cashbook: cashbook, settings: settings, log: log, now: time.Now}
}

// Place crea el pedido en estado PAID.
func (uc *PlaceOrderUseCase) Place(ctx context.Context, userID string, in dto.PlaceOrderRequest) (*dto.OrderResponse, error) {
	if err := validatePlaceOrder(in); err != nil {
		return nil, err
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		s, err := uc.settings.Get(ctx)
		if err != nil {
			return nil, err
		}
		currency = s.BaseCurrency
	}

	now := uc.now()
	order := &entity.Order{
		ID:              uuid.New().String(),
		OrderNumber:     newOrderNumber(now),
		CustomerName:    strings.TrimSpace(in.CustomerName),
		CustomerPhone:   strings.TrimSpace(in.CustomerPhone),
		CustomerEmail:   strings.TrimSpace(in.CustomerEmail),
		ShippingAddress: strings.TrimSpace(in.ShippingAddress),
		Status:          entity.OrderStatusPaid,
		DiscountAmount:  in.DiscountAmount,
		Currency:        currency,
		PaidAt:          now,
		CreatedBy:       userID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		order.Items = order.Items[:0]
		order.TotalAmount = 0
		// Los productos se bloquean por ID ascendente; las líneas conservan el orden del pedido.
		for _, i := range lockOrder(in.Items) {
			line := in.Items[i]
			if _, err := uc.stock.AdjustStockInTx(ctx, repos, inventory.AdjustStockInput{
				ProductID:     line.ProductID,
				Delta:         -line.Quantity,
				MovementType:  entity.MovementTypeSale,
				ReferenceType: entity.ReferenceOrder,
				ReferenceID:   order.ID,
				Note:          order.OrderNumber,
				Actor:         userID,
			}); err != nil {
				return err
			}
		}
		for _, line := range in.Items {
			product, err := repos.Products.GetByID(ctx, line.ProductID)
			if err != nil {
				return err
			}
			subtotal := line.UnitPrice * int64(line.Quantity)
			order.Items = append(order.Items, entity.OrderItem{
				ID:          uuid.New().String(),
				OrderID:     order.ID,
				ProductID:   product.ID,
				ProductName: product.Name,
				SKU:         product.SKU,
				Quantity:    line.Quantity,
				UnitPrice:   line.UnitPrice,
				Subtotal:    subtotal,
			})
			order.TotalAmount += subtotal
		}
		order.FinalAmount = order.TotalAmount - order.DiscountAmount

		if err := repos.Orders.Create(ctx, order); err != nil {
			return err
		}
		if order.FinalAmount == 0 {
			return nil
		}
		_, err := uc.cashbook.RecordEntryInTx(ctx, repos, cashbook.RecordEntryInput{
			Type:            entity.CashbookTypeIncome,
			Category:        entity.CashbookCategoryOrderPayment,
			Amount:          order.FinalAmount,
			Currency:        order.Currency,
			TransactionDate: now,
			ReferenceType:   entity.ReferenceOrder,
			ReferenceID:     order.ID,
			Description:     "Pago pedido " + order.OrderNumber,
			Actor:           userID,
		})
		return err
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("order_number", order.OrderNumber).Msg("pedido rechazado")
		return nil, err
	}
	uc.log.Info().
		Str("order_id", order.ID).
		Str("order_number", order.OrderNumber).
		Int64("final_amount", order.FinalAmount).
		Int("items", len(order.Items)).
		Msg("pedido registrado")
	return toOrderResponse(order, nil), nil
}

func validatePlaceOrder(in dto.PlaceOrderRequest) error {
	if strings.TrimSpace(in.CustomerName) == "" {
		return fmt.Errorf("%w: customer_name requerido", domain.ErrInvalidInput)
	}
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: el pedido no tiene líneas", domain.ErrInvalidInput)
	}
	var total int64
	for i, it := range in.Items {
		if strings.TrimSpace(it.ProductID) == "" {
			return fmt.Errorf("%w: línea %d sin product_id", domain.ErrInvalidInput, i+1)
		}
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: línea %d con cantidad inválida", domain.ErrInvalidInput, i+1)
		}
		if it.UnitPrice < 0 {
			return fmt.Errorf("%w: línea %d con precio negativo", domain.ErrInvalidInput, i+1)
		}
		if it.UnitPrice > math.MaxInt64/int64(it.Quantity) {
			return fmt.Errorf("%w: línea %d con subtotal fuera de rango", domain.ErrInvalidInput, i+1)
		}
		subtotal := it.UnitPrice * int64(it.Quantity)
		if total > math.MaxInt64-subtotal {
			return fmt.Errorf("%w: total del pedido fuera de rango", domain.ErrInvalidInput)
		}
		total += subtotal
	}
	if in.DiscountAmount < 0 {
		return fmt.Errorf("%w: descuento negativo", domain.ErrInvalidInput)
	}
	if in.DiscountAmount > total {
		return fmt.Errorf("%w: el descuento supera el total", domain.ErrInvalidInput)
	}
	return nil
}

func lockOrder(items []dto.PlaceOrderItemRequest) []int {
	idx := make([]int, len(items))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int { return strings.Compare(items[a].ProductID, items[b].ProductID) })
	return idx
}

// newOrderNumber ORD-AAMMDD-XXXXX.
func newOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:5])
	return fmt.Sprintf("ORD-%s-%s", now.Format("060102"), suffix)
}
