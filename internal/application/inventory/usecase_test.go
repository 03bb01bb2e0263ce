package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/yuandi-erp/internal/application/cashbook"
	"github.com/jhoicas/yuandi-erp/internal/application/dto"
	"github.com/jhoicas/yuandi-erp/internal/application/inventory"
	"github.com/jhoicas/yuandi-erp/internal/domain"
	"github.com/jhoicas/yuandi-erp/internal/domain/entity"
	"github.com/jhoicas/yuandi-erp/internal/infrastructure/memory"
)

const actor = "00000000-0000-0000-0000-0000000000aa"

// unitRate resuelve cualquier moneda a tasa 1.
type unitRate struct{}

func (unitRate) Resolve(context.Context, string, time.Time) (decimal.Decimal, error) {
	return decimal.NewFromInt(1), nil
}

type staticSettings struct{ s entity.Settings }

func (f staticSettings) Get(context.Context) (entity.Settings, error) { return f.s, nil }

func newStore(t *testing.T, products ...entity.Product) *memory.Store {
	t.Helper()
	s := memory.NewStore()
	for i := range products {
		p := products[i]
		if p.SKU == "" {
			p.SKU = "SKU-" + p.ID
		}
		p.CreatedAt = time.Now()
		require.NoError(t, s.Repositories().Products.Create(context.Background(), &p))
	}
	return s
}

func stockOf(t *testing.T, s *memory.Store, id string) int {
	t.Helper()
	p, err := s.Repositories().Products.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.OnHand
}

func movementsOf(t *testing.T, s *memory.Store, id string) []*entity.InventoryMovement {
	t.Helper()
	movs, err := s.Repositories().Movements.ListByProductChronological(context.Background(), id)
	require.NoError(t, err)
	return movs
}

func TestAdjustStock_InboundThenSale(t *testing.T) {
	s := newStore(t, entity.Product{ID: "p1", Active: true})
	m := inventory.NewStockMutator(s, zerolog.Nop())
	ctx := context.Background()

	res, err := m.AdjustStock(ctx, inventory.AdjustStockInput{ProductID: "p1", Delta: 5, MovementType: entity.MovementTypeInbound, Actor: actor})
	require.NoError(t, err)
	assert.Equal(t, 0, res.PreviousStock)
	assert.Equal(t, 5, res.NewStock)

	res, err = m.AdjustStock(ctx, inventory.AdjustStockInput{ProductID: "p1", Delta: -2, MovementType: entity.MovementTypeSale, ReferenceType: entity.ReferenceOrder, ReferenceID: "o1", Actor: actor})
	require.NoError(t, err)
	assert.Equal(t, 3, res.NewStock)
	assert.Equal(t, 3, stockOf(t, s, "p1"))

	movs := movementsOf(t, s, "p1")
	require.Len(t, movs, 2)
	assert.Equal(t, 0, movs[0].BalanceBefore)
	assert.Equal(t, 5, movs[0].BalanceAfter)
	assert.Equal(t, 5, movs[1].BalanceBefore)
	assert.Equal(t, 3, movs[1].BalanceAfter)
	assert.Equal(t, res.MovementID, movs[1].ID)
	assert.Equal(t, "o1", movs[1].ReferenceID)
}

func TestAdjustStock_InsufficientStockNoWrites(t *testing.T) {
	s := newStore(t, entity.Product{ID: "p1", OnHand: 1, Active: true})
	m := inventory.NewStockMutator(s, zerolog.Nop())

	_, err := m.AdjustStock(context.Background(), inventory.AdjustStockInput{ProductID: "p1", Delta: -2, MovementType: entity.MovementTypeSale, Actor: actor})

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 1, insufficient.Available)
	assert.Equal(t, -2, insufficient.Requested)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 1, stockOf(t, s, "p1"))
	assert.Empty(t, movementsOf(t, s, "p1"))
}

func TestAdjustStock_Validation(t *testing.T) {
	s := newStore(t, entity.Product{ID: "p1", OnHand: 10, Active: true})
	m := inventory.NewStockMutator(s, zerolog.Nop())

	cases := []struct {
		name string
		in   inventory.AdjustStockInput
	}{
		{"delta cero", inventory.AdjustStockInput{ProductID: "p1", Delta: 0, MovementType: entity.MovementTypeAdjustment, Actor: actor}},
		{"tipo desconocido", inventory.AdjustStockInput{ProductID: "p1", Delta: 1, MovementType: "gift", Actor: actor}},
		{"venta positiva", inventory.AdjustStockInput{ProductID: "p1", Delta: 1, MovementType: entity.MovementTypeSale, Actor: actor}},
		{"baja positiva", inventory.AdjustStockInput{ProductID: "p1", Delta: 1, MovementType: entity.MovementTypeDisposal, Actor: actor}},
		{"ingreso negativo", inventory.AdjustStockInput{ProductID: "p1", Delta: -1, MovementType: entity.MovementTypeInbound, Actor: actor}},
		{"reingreso negativo", inventory.AdjustStockInput{ProductID: "p1", Delta: -1, MovementType: entity.MovementTypeRefundRestock, Actor: actor}},
		{"sin actor", inventory.AdjustStockInput{ProductID: "p1", Delta: 1, MovementType: entity.MovementTypeAdjustment}},
		{"sin producto", inventory.AdjustStockInput{Delta: 1, MovementType: entity.MovementTypeAdjustment, Actor: actor}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := m.AdjustStock(context.Background(), tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Equal(t, 10, stockOf(t, s, "p1"))
	assert.Empty(t, movementsOf(t, s, "p1"))
}

func TestAdjustStock_AdjustmentAcceptsBothSigns(t *testing.T) {
	s := newStore(t, entity.Product{ID: "p1", OnHand: 2, Active: true})
	m := inventory.NewStockMutator(s, zerolog.Nop())

	_, err := m.AdjustStock(context.Background(), inventory.AdjustStockInput{ProductID: "p1", Delta: -1, MovementType: entity.MovementTypeAdjustment, Actor: actor})
	require.NoError(t, err)
	_, err = m.AdjustStock(context.Background(), inventory.AdjustStockInput{ProductID: "p1", Delta: 4, MovementType: entity.MovementTypeAdjustment, Actor: actor})
	require.NoError(t, err)
	assert.Equal(t, 5, stockOf(t, s, "p1"))
}

func TestAdjustStock_ProductNotFound(t *testing.T) {
	s := newStore(t)
	m := inventory.NewStockMutator(s, zerolog.Nop())

	_, err := m.AdjustStock(context.Background(), inventory.AdjustStockInput{ProductID: "nope", Delta: 1, MovementType: entity.MovementTypeInbound, Actor: actor})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestAdjustStock_InactiveProduct(t *testing.T) {
	s := newStore(t, entity.Product{ID: "p1", OnHand: 0, Active: false})
	m := inventory.NewStockMutator(s, zerolog.Nop())

	_, err := m.AdjustStock(context.Background(), inventory.AdjustStockInput{ProductID: "p1", Delta: 1, MovementType: entity.MovementTypeInbound, Actor: actor})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	res, err := m.AdjustStock(context.Background(), inventory.AdjustStockInput{ProductID: "p1", Delta: 1, MovementType: entity.MovementTypeAdjustment, Actor: actor, AllowInactive: true})
	require.NoError(t, err)
	assert.Equal(t, 1, res.NewStock)
}

func TestAdjustStock_MovementFailureRollsBackStock(t *testing.T) {
	s := newStore(t, entity.Product{ID: "p1", OnHand: 3, Active: true})
	m := inventory.NewStockMutator(s, zerolog.Nop())
	s.FailOn(memory.OpMovementCreate, errors.New("conexión perdida"))

	_, err := m.AdjustStock(context.Background(), inventory.AdjustStockInput{ProductID: "p1", Delta: -1, MovementType: entity.MovementTypeSale, Actor: actor})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPersistence)

	s.ClearFaults()
	assert.Equal(t, 3, stockOf(t, s, "p1"))
	assert.Empty(t, movementsOf(t, s, "p1"))
}

func TestAdjustStock_ConcurrentLastUnit(t *testing.T) {
	s := newStore(t, entity.Product{ID: "p1", OnHand: 1, Active: true})
	m := inventory.NewStockMutator(s, zerolog.Nop())

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = m.AdjustStock(context.Background(), inventory.AdjustStockInput{ProductID: "p1", Delta: -1, MovementType: entity.MovementTypeSale, Actor: actor})
		}()
	}
	wg.Wait()

	ok, insufficient := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrInsufficientStock):
			insufficient++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, insufficient)
	assert.Equal(t, 0, stockOf(t, s, "p1"))
	assert.Len(t, movementsOf(t, s, "p1"), 1)
}

func TestAdjustStock_ManyConcurrentWritersKeepChain(t *testing.T) {
	s := newStore(t, entity.Product{ID: "p1", OnHand: 0, Active: true})
	m := inventory.NewStockMutator(s, zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.AdjustStock(context.Background(), inventory.AdjustStockInput{ProductID: "p1", Delta: 1, MovementType: entity.MovementTypeInbound, Actor: actor})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	audit := inventory.Replay(stockOf(t, s, "p1"), movementsOf(t, s, "p1"))
	assert.True(t, audit.Consistent)
	assert.Equal(t, 20, audit.Replayed)
}

func TestAdjustment_WithCostRecordsExpenseAtomically(t *testing.T) {
	s := newStore(t, entity.Product{ID: "p1", Active: true})
	log := zerolog.Nop()
	m := inventory.NewStockMutator(s, log)
	rec := cashbook.NewRecorder(s, unitRate{}, log)
	uc := inventory.NewAdjustmentUseCase(s, m, rec, log)
	cost := int64(40000)

	out, err := uc.Adjust(context.Background(), actor, dto.StockAdjustmentRequest{
		ProductID: "p1", Delta: 10, MovementType: entity.MovementTypeInbound, CostAmount: &cost, CostCurrency: "KRW",
	})
	require.NoError(t, err)
	assert.Equal(t, 10, out.NewStock)
	require.NotEmpty(t, out.CashbookEntryID)

	movs := movementsOf(t, s, "p1")
	require.Len(t, movs, 1)
	assert.Equal(t, entity.ReferencePurchase, movs[0].ReferenceType)

	bal, err := s.Repositories().Cashbook.BalanceAt(context.Background(), time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(-40000), bal)
}

func TestAdjustment_CashbookFailureRollsBackMovement(t *testing.T) {
	s := newStore(t, entity.Product{ID: "p1", OnHand: 2, Active: true})
	log := zerolog.Nop()
	m := inventory.NewStockMutator(s, log)
	uc := inventory.NewAdjustmentUseCase(s, m, cashbook.NewRecorder(s, unitRate{}, log), log)
	s.FailOn(memory.OpCashbookCreate, errors.New("timeout"))
	defer s.ClearFaults()
	cost := int64(1000)

	_, err := uc.Adjust(context.Background(), actor, dto.StockAdjustmentRequest{
		ProductID: "p1", Delta: 3, MovementType: entity.MovementTypeInbound, CostAmount: &cost, CostCurrency: "KRW",
	})
	require.Error(t, err)
	assert.Equal(t, 2, stockOf(t, s, "p1"))
	assert.Empty(t, movementsOf(t, s, "p1"))
}

func TestAdjustment_RejectsNonPositiveCost(t *testing.T) {
	s := newStore(t, entity.Product{ID: "p1", Active: true})
	log := zerolog.Nop()
	uc := inventory.NewAdjustmentUseCase(s, inventory.NewStockMutator(s, log), cashbook.NewRecorder(s, unitRate{}, log), log)
	cost := int64(0)

	_, err := uc.Adjust(context.Background(), actor, dto.StockAdjustmentRequest{
		ProductID: "p1", Delta: 1, MovementType: entity.MovementTypeInbound, CostAmount: &cost,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAdjustment_PurchaseInCostCurrencyUpdatesAverageCost(t *testing.T) {
	s := newStore(t, entity.Product{ID: "p1", OnHand: 10, UnitCost: decimal.NewFromInt(100), Active: true})
	log := zerolog.Nop()
	uc := inventory.NewAdjustmentUseCase(s, inventory.NewStockMutator(s, log), cashbook.NewRecorder(s, unitRate{}, log), log)
	cost := int64(1400)

	_, err := uc.Adjust(context.Background(), actor, dto.StockAdjustmentRequest{
		ProductID: "p1", Delta: 10, MovementType: entity.MovementTypeInbound, CostAmount: &cost, CostCurrency: "cny",
	})
	require.NoError(t, err)

	p, err := s.Repositories().Products.GetByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.True(t, p.UnitCost.Equal(decimal.NewFromInt(120)), p.UnitCost.String())
	assert.Equal(t, 20, p.OnHand)

	// Un costo en moneda base no altera el costo unitario.
	_, err = uc.Adjust(context.Background(), actor, dto.StockAdjustmentRequest{
		ProductID: "p1", Delta: 5, MovementType: entity.MovementTypeInbound, CostAmount: &cost, CostCurrency: "KRW",
	})
	require.NoError(t, err)
	p, err = s.Repositories().Products.GetByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.True(t, p.UnitCost.Equal(decimal.NewFromInt(120)))
}
