package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/yuandi-erp/internal/application/dto"
	"github.com/jhoicas/yuandi-erp/internal/domain"
	"github.com/jhoicas/yuandi-erp/internal/domain/entity"
	"github.com/jhoicas/yuandi-erp/internal/domain/repository"
)

// SettingsService almacén explícito de la configuración de negocio con caché TTL.
// Update persiste y luego invalida, así la siguiente lectura ve el valor nuevo.
type SettingsService struct {
	repo repository.SettingsRepository
	ttl  time.Duration
	log  zerolog.Logger
	now  func() time.Time

	mu       sync.RWMutex
	cached   *entity.Settings
	loadedAt time.Time
}

// NewSettingsService construye el servicio. ttl <= 0 desactiva la caché.
func NewSettingsService(repo repository.SettingsRepository, ttl time.Duration, log zerolog.Logger) *SettingsService {
	return &SettingsService{repo: repo, ttl: ttl, log: log, now: time.Now}
}

// Get devuelve la configuración vigente. Si no hay fila guardada usa entity.DefaultSettings.
func (s *SettingsService) Get(ctx context.Context) (entity.Settings, error) {
	s.mu.RLock()
	if s.cached != nil && s.ttl > 0 && s.now().Sub(s.loadedAt) < s.ttl {
		out := cloneSettings(*s.cached)
		s.mu.RUnlock()
		return out, nil
	}
	s.mu.RUnlock()

	stored, err := s.repo.Get(ctx)
	if err != nil {
		return entity.Settings{}, err
	}
	current := entity.DefaultSettings()
	if stored != nil {
		current = *stored
	}

	s.mu.Lock()
	s.cached = &current
	s.loadedAt = s.now()
	s.mu.Unlock()
	return cloneSettings(current), nil
}

// Invalidate descarta la copia en caché.
func (s *SettingsService) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

// Update aplica los cambios, persiste y deja la caché vacía. La moneda base no es editable.
func (s *SettingsService) Update(ctx context.Context, in dto.SettingsRequest, actor string) (*dto.SettingsResponse, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	if in.SupportedCurrencies != nil {
		currencies := make([]string, 0, len(in.SupportedCurrencies)+1)
		seen := map[string]bool{}
		for _, c := range append([]string{current.BaseCurrency}, in.SupportedCurrencies...) {
			c = strings.ToUpper(strings.TrimSpace(c))
			if len(c) != 3 {
				return nil, fmt.Errorf("%w: moneda %q", domain.ErrInvalidInput, c)
			}
			if !seen[c] {
				seen[c] = true
				currencies = append(currencies, c)
			}
		}
		current.SupportedCurrencies = currencies
	}
	if in.FallbackRates != nil {
		rates := make(map[string]decimal.Decimal, len(in.FallbackRates))
		for c, r := range in.FallbackRates {
			if !r.IsPositive() {
				return nil, fmt.Errorf("%w: tasa de %s debe ser positiva", domain.ErrInvalidInput, c)
			}
			rates[strings.ToUpper(c)] = r
		}
		current.FallbackRates = rates
	}
	if in.DefaultLowStockThreshold != nil {
		if *in.DefaultLowStockThreshold < 0 {
			return nil, fmt.Errorf("%w: umbral negativo", domain.ErrInvalidInput)
		}
		current.DefaultLowStockThreshold = *in.DefaultLowStockThreshold
	}
	current.UpdatedAt = s.now()
	current.UpdatedBy = actor

	if err := s.repo.Save(ctx, &current); err != nil {
		return nil, err
	}
	s.Invalidate()
	s.log.Info().Str("updated_by", actor).Strs("currencies", current.SupportedCurrencies).Msg("configuración actualizada")
	return ToSettingsResponse(current), nil
}

// ToSettingsResponse mapea la configuración al DTO.
func ToSettingsResponse(st entity.Settings) *dto.SettingsResponse {
	return &dto.SettingsResponse{
		BaseCurrency:             st.BaseCurrency,
		SupportedCurrencies:      st.SupportedCurrencies,
		FallbackRates:            st.FallbackRates,
		DefaultLowStockThreshold: st.DefaultLowStockThreshold,
		UpdatedAt:                st.UpdatedAt,
		UpdatedBy:                st.UpdatedBy,
	}
}

func cloneSettings(st entity.Settings) entity.Settings {
	out := st
	out.SupportedCurrencies = append([]string(nil), st.SupportedCurrencies...)
	out.FallbackRates = make(map[string]decimal.Decimal, len(st.FallbackRates))
	for k, v := range st.FallbackRates {
		out.FallbackRates[k] = v
	}
	return out
}
