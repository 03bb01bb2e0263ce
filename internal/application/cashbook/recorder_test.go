package cashbook_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/yuandi-erp/internal/application/cashbook"
	"github.com/jhoicas/yuandi-erp/internal/domain"
	"github.com/jhoicas/yuandi-erp/internal/domain/entity"
	"github.com/jhoicas/yuandi-erp/internal/domain/repository"
	"github.com/jhoicas/yuandi-erp/internal/infrastructure/memory"
)

const actor = "00000000-0000-0000-0000-0000000000aa"

func newRecorder(t *testing.T, st entity.Settings) (*cashbook.Recorder, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	resolver := cashbook.NewFXResolver(store.ExchangeRates(), nil, staticSettings{s: st}, zerolog.Nop())
	return cashbook.NewRecorder(store, resolver, zerolog.Nop()), store
}

func TestToBase_Rounding(t *testing.T) {
	assert.Equal(t, int64(19050), cashbook.ToBase(100, decimal.RequireFromString("190.5")))
	assert.Equal(t, int64(-19050), cashbook.ToBase(-100, decimal.RequireFromString("190.5")))
	assert.Equal(t, int64(191), cashbook.ToBase(1, decimal.RequireFromString("190.5")))
	assert.Equal(t, int64(5000), cashbook.ToBase(5000, decimal.NewFromInt(1)))
}

func TestRecordEntry_ResolvesRateAndConverts(t *testing.T) {
	st := entity.DefaultSettings()
	st.FallbackRates = map[string]decimal.Decimal{"CNY": decimal.RequireFromString("190.5")}
	rec, store := newRecorder(t, st)

	entry, err := rec.RecordEntry(context.Background(), cashbook.RecordEntryInput{
		Type: entity.CashbookTypeExpense, Category: entity.CashbookCategoryInventoryPurchase,
		Amount: -300, Currency: "cny", Description: "compra Yiwu", Actor: actor,
	})
	require.NoError(t, err)
	assert.Equal(t, "CNY", entry.Currency)
	assert.Equal(t, "190.5", entry.FXRate.String())
	assert.Equal(t, int64(-57150), entry.AmountBase)
	assert.False(t, entry.TransactionDate.IsZero())

	bal, err := store.Repositories().Cashbook.BalanceAt(context.Background(), time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(-57150), bal)
}

func TestRecordEntry_ExplicitRateSkipsResolver(t *testing.T) {
	rec, _ := newRecorder(t, entity.DefaultSettings())

	entry, err := rec.RecordEntry(context.Background(), cashbook.RecordEntryInput{
		Type: entity.CashbookTypeIncome, Category: entity.CashbookCategoryOrderPayment,
		Amount: 10, Currency: "CNY", FXRate: decimal.NewFromInt(200), Actor: actor,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2000), entry.AmountBase)
}

func TestRecordEntry_Validation(t *testing.T) {
	rec, store := newRecorder(t, entity.DefaultSettings())
	cases := []struct {
		name string
		in   cashbook.RecordEntryInput
	}{
		{"tipo inválido", cashbook.RecordEntryInput{Type: "gift", Category: entity.CashbookCategoryAdjustment, Amount: 1, Currency: "KRW"}},
		{"categoría inválida", cashbook.RecordEntryInput{Type: entity.CashbookTypeIncome, Category: "salary", Amount: 1, Currency: "KRW"}},
		{"monto cero", cashbook.RecordEntryInput{Type: entity.CashbookTypeIncome, Category: entity.CashbookCategoryAdjustment, Currency: "KRW"}},
		{"ingreso negativo", cashbook.RecordEntryInput{Type: entity.CashbookTypeIncome, Category: entity.CashbookCategoryAdjustment, Amount: -1, Currency: "KRW"}},
		{"egreso positivo", cashbook.RecordEntryInput{Type: entity.CashbookTypeExpense, Category: entity.CashbookCategoryRefund, Amount: 1, Currency: "KRW"}},
		{"sin moneda", cashbook.RecordEntryInput{Type: entity.CashbookTypeIncome, Category: entity.CashbookCategoryAdjustment, Amount: 1}},
		{"tasa negativa", cashbook.RecordEntryInput{Type: entity.CashbookTypeIncome, Category: entity.CashbookCategoryAdjustment, Amount: 1, Currency: "CNY", FXRate: decimal.NewFromInt(-2)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := rec.RecordEntry(context.Background(), tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	list, err := store.Repositories().Cashbook.List(context.Background(), repository.CashbookFilter{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRecordEntry_UnsupportedCurrencyWritesNothing(t *testing.T) {
	rec, store := newRecorder(t, entity.DefaultSettings())

	_, err := rec.RecordEntry(context.Background(), cashbook.RecordEntryInput{
		Type: entity.CashbookTypeIncome, Category: entity.CashbookCategoryAdjustment, Amount: 1, Currency: "USD", Actor: actor,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCurrency)

	list, err := store.Repositories().Cashbook.List(context.Background(), repository.CashbookFilter{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRecordEntry_PersistenceFailure(t *testing.T) {
	rec, store := newRecorder(t, entity.DefaultSettings())
	store.FailOn(memory.OpCashbookCreate, errors.New("disco lleno"))
	defer store.ClearFaults()

	_, err := rec.RecordEntry(context.Background(), cashbook.RecordEntryInput{
		Type: entity.CashbookTypeIncome, Category: entity.CashbookCategoryAdjustment, Amount: 1, Currency: "KRW", Actor: actor,
	})
	assert.ErrorIs(t, err, domain.ErrPersistence)
}

func TestQueryService_RunningBalance(t *testing.T) {
	rec, store := newRecorder(t, entity.DefaultSettings())
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	for i, amount := range []int64{50000, -3000, -20000, 10000} {
		typ := entity.CashbookTypeIncome
		cat := entity.CashbookCategoryOrderPayment
		if amount < 0 {
			typ, cat = entity.CashbookTypeExpense, entity.CashbookCategoryRefund
		}
		_, err := rec.RecordEntry(context.Background(), cashbook.RecordEntryInput{
			Type: typ, Category: cat, Amount: amount, Currency: "KRW",
			TransactionDate: base.Add(time.Duration(i) * time.Hour), Actor: actor,
		})
		require.NoError(t, err)
	}
	q := cashbook.NewQueryService(store.Repositories().Cashbook)

	refunds, err := q.List(context.Background(), repository.CashbookFilter{Category: entity.CashbookCategoryRefund})
	require.NoError(t, err)
	require.Len(t, refunds, 2)
	afters := map[int64]int64{}
	for _, e := range refunds {
		require.NotNil(t, e.BalanceAfter)
		afters[e.Amount] = *e.BalanceAfter
	}
	// El saldo acumulado considera todo el libro, no sólo las filas filtradas.
	assert.Equal(t, int64(47000), afters[-3000])
	assert.Equal(t, int64(27000), afters[-20000])

	bal, err := q.BalanceAt(context.Background(), base.Add(90*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(47000), bal)

	bal, err = q.BalanceAt(context.Background(), base.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(37000), bal)
}
