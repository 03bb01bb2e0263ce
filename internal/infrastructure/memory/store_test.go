package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/yuandi-erp/internal/domain"
	"github.com/jhoicas/yuandi-erp/internal/domain/entity"
	"github.com/jhoicas/yuandi-erp/internal/domain/repository"
)

func seedProduct(t *testing.T, s *Store, id string, onHand int) {
	t.Helper()
	require.NoError(t, s.Repositories().Products.Create(context.Background(), &entity.Product{
		ID: id, SKU: "SKU-" + id, Category: "BAG", Name: id, OnHand: onHand, Active: true, CreatedAt: time.Now(),
	}))
}

func TestRun_CommitPublicaCambios(t *testing.T) {
	s := NewStore()
	seedProduct(t, s, "p1", 3)

	err := s.Run(context.Background(), func(ctx context.Context, repos repository.TxRepositories) error {
		return repos.Products.UpdateStock(ctx, "p1", 7)
	})
	require.NoError(t, err)

	p, err := s.Repositories().Products.GetByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 7, p.OnHand)
}

func TestRun_ErrorDescartaTodo(t *testing.T) {
	s := NewStore()
	seedProduct(t, s, "p1", 3)
	boom := errors.New("boom")

	err := s.Run(context.Background(), func(ctx context.Context, repos repository.TxRepositories) error {
		require.NoError(t, repos.Products.UpdateStock(ctx, "p1", 0))
		require.NoError(t, repos.Movements.Create(ctx, &entity.InventoryMovement{ID: "m1", ProductID: "p1", Quantity: -3}))
		return boom
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.ErrorIs(t, err, boom)

	p, _ := s.Repositories().Products.GetByID(context.Background(), "p1")
	assert.Equal(t, 3, p.OnHand)
	movs, _ := s.Repositories().Movements.ListByProductChronological(context.Background(), "p1")
	assert.Empty(t, movs)
}

func TestRun_ErrorDeDominioSaleIntacto(t *testing.T) {
	s := NewStore()
	err := s.Run(context.Background(), func(ctx context.Context, repos repository.TxRepositories) error {
		return &domain.InsufficientStockError{ProductID: "p1", Available: 0, Requested: -1}
	})
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.NotErrorIs(t, err, domain.ErrPersistence)
}

func TestFailOn_CommitRevierte(t *testing.T) {
	s := NewStore()
	seedProduct(t, s, "p1", 3)
	s.FailOn(OpCommit, errors.New("disco lleno"))
	defer s.ClearFaults()

	err := s.Run(context.Background(), func(ctx context.Context, repos repository.TxRepositories) error {
		return repos.Products.UpdateStock(ctx, "p1", 1)
	})
	assert.ErrorIs(t, err, domain.ErrPersistence)

	p, _ := s.Repositories().Products.GetByID(context.Background(), "p1")
	assert.Equal(t, 3, p.OnHand)
}

func TestRun_TimeoutEsperandoLock(t *testing.T) {
	s := NewStore(WithTxTimeout(50 * time.Millisecond))
	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})

	go func() {
		_ = s.Run(context.Background(), func(ctx context.Context, repos repository.TxRepositories) error {
			close(started)
			<-release
			return nil
		})
		close(done)
	}()
	<-started

	err := s.Run(context.Background(), func(ctx context.Context, repos repository.TxRepositories) error {
		return nil
	})
	close(release)
	<-done

	var pe *domain.PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCashbookList_SaldoAcumuladoSobreLibroCompleto(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	entries := []entity.CashbookEntry{
		{ID: "e1", TransactionDate: base, Type: entity.CashbookTypeIncome, Category: entity.CashbookCategoryOrderPayment, AmountBase: 100000},
		{ID: "e2", TransactionDate: base.Add(time.Hour), Type: entity.CashbookTypeExpense, Category: entity.CashbookCategoryShippingCost, AmountBase: -3000},
		{ID: "e3", TransactionDate: base.Add(2 * time.Hour), Type: entity.CashbookTypeIncome, Category: entity.CashbookCategoryOrderPayment, AmountBase: 50000},
	}
	for i := range entries {
		require.NoError(t, s.Repositories().Cashbook.Create(ctx, &entries[i]))
	}

	list, err := s.Repositories().Cashbook.List(ctx, repository.CashbookFilter{Category: entity.CashbookCategoryOrderPayment, Limit: 10})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "e3", list[0].ID)
	assert.Equal(t, int64(147000), *list[0].BalanceAfter)
	assert.Equal(t, int64(100000), *list[1].BalanceAfter)

	bal, err := s.Repositories().Cashbook.BalanceAt(ctx, base.Add(90*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(97000), bal)
}

func TestExchangeRates_UltimaTasaVigente(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	rates := s.ExchangeRates()
	d1 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, rates.Upsert(ctx, &entity.ExchangeRate{Currency: "CNY", BaseCurrency: "KRW", EffectiveDate: d1, Rate: mustDec("185.5")}))
	require.NoError(t, rates.Upsert(ctx, &entity.ExchangeRate{Currency: "CNY", BaseCurrency: "KRW", EffectiveDate: d1.AddDate(0, 0, 5), Rate: mustDec("190")}))

	got, err := rates.GetEffective(ctx, "CNY", "KRW", d1.AddDate(0, 0, 3).Add(15*time.Hour))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "185.5", got.Rate.String())

	none, err := rates.GetEffective(ctx, "CNY", "KRW", d1.AddDate(0, 0, -1))
	require.NoError(t, err)
	assert.Nil(t, none)
}
