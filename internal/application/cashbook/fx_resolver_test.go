package cashbook_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/yuandi-erp/internal/application/cashbook"
	"github.com/jhoicas/yuandi-erp/internal/domain"
	"github.com/jhoicas/yuandi-erp/internal/domain/entity"
	"github.com/jhoicas/yuandi-erp/internal/infrastructure/memory"
)

// MockRateProvider simula la API externa de tasas.
type MockRateProvider struct {
	mock.Mock
}

func (m *MockRateProvider) FetchRate(ctx context.Context, currency, base string, date time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, currency, base, date)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type staticSettings struct{ s entity.Settings }

func (f staticSettings) Get(context.Context) (entity.Settings, error) { return f.s, nil }

func defaultSettings() staticSettings {
	st := entity.DefaultSettings()
	return staticSettings{s: st}
}

var rateDay = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

func TestFXResolver_BaseCurrencyIsOne(t *testing.T) {
	r := cashbook.NewFXResolver(memory.NewStore().ExchangeRates(), nil, defaultSettings(), zerolog.Nop())
	rate, err := r.Resolve(context.Background(), "krw", rateDay)
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromInt(1)))
}

func TestFXResolver_UnsupportedCurrency(t *testing.T) {
	provider := new(MockRateProvider)
	r := cashbook.NewFXResolver(memory.NewStore().ExchangeRates(), provider, defaultSettings(), zerolog.Nop())

	_, err := r.Resolve(context.Background(), "EUR", rateDay)
	var invalid *domain.InvalidCurrencyError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "EUR", invalid.Currency)
	provider.AssertNotCalled(t, "FetchRate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFXResolver_StoredRateWins(t *testing.T) {
	store := memory.NewStore()
	rates := store.ExchangeRates()
	require.NoError(t, rates.Upsert(context.Background(), &entity.ExchangeRate{
		Currency: "CNY", BaseCurrency: "KRW", Rate: decimal.RequireFromString("190.5"),
		EffectiveDate: rateDay.AddDate(0, 0, -3), Source: entity.RateSourceManual,
	}))
	require.NoError(t, rates.Upsert(context.Background(), &entity.ExchangeRate{
		Currency: "CNY", BaseCurrency: "KRW", Rate: decimal.RequireFromString("200"),
		EffectiveDate: rateDay.AddDate(0, 0, 1), Source: entity.RateSourceManual,
	}))
	provider := new(MockRateProvider)
	r := cashbook.NewFXResolver(rates, provider, defaultSettings(), zerolog.Nop())

	rate, err := r.Resolve(context.Background(), "CNY", rateDay)
	require.NoError(t, err)
	assert.Equal(t, "190.5", rate.String())
	provider.AssertNotCalled(t, "FetchRate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFXResolver_ProviderResultIsPersisted(t *testing.T) {
	store := memory.NewStore()
	provider := new(MockRateProvider)
	provider.On("FetchRate", mock.Anything, "CNY", "KRW", rateDay).Return(decimal.RequireFromString("191.25"), nil).Once()
	r := cashbook.NewFXResolver(store.ExchangeRates(), provider, defaultSettings(), zerolog.Nop())

	rate, err := r.Resolve(context.Background(), "CNY", rateDay)
	require.NoError(t, err)
	assert.Equal(t, "191.25", rate.String())

	// La segunda consulta sale de la tabla, no del proveedor.
	rate, err = r.Resolve(context.Background(), "CNY", rateDay.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "191.25", rate.String())
	provider.AssertExpectations(t)

	stored, err := store.ExchangeRates().GetEffective(context.Background(), "CNY", "KRW", rateDay)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, entity.RateSourceProvider, stored.Source)
}

func TestFXResolver_ProviderDownUsesFallback(t *testing.T) {
	provider := new(MockRateProvider)
	provider.On("FetchRate", mock.Anything, "CNY", "KRW", mock.Anything).Return(decimal.Zero, errors.New("503"))
	st := entity.DefaultSettings()
	st.FallbackRates = map[string]decimal.Decimal{"CNY": decimal.NewFromInt(185)}
	r := cashbook.NewFXResolver(memory.NewStore().ExchangeRates(), provider, staticSettings{s: st}, zerolog.Nop())

	rate, err := r.Resolve(context.Background(), "CNY", rateDay)
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromInt(185)))
	provider.AssertExpectations(t)
}

func TestFXResolver_NoSourceIsInvalidCurrency(t *testing.T) {
	r := cashbook.NewFXResolver(memory.NewStore().ExchangeRates(), nil, defaultSettings(), zerolog.Nop())

	_, err := r.Resolve(context.Background(), "CNY", rateDay)
	assert.ErrorIs(t, err, domain.ErrInvalidCurrency)
}
