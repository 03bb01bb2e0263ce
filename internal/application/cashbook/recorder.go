// Package cashbook contiene el registro del libro de caja (append-only) y sus consultas.
package cashbook

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/yuandi-erp/internal/domain"
	"github.com/jhoicas/yuandi-erp/internal/domain/entity"
	"github.com/jhoicas/yuandi-erp/internal/domain/repository"
)

var tracer = otel.Tracer("github.com/jhoicas/yuandi-erp/internal/application/cashbook")

// RecordEntryInput entrada para registrar un asiento.
// FXRate en cero significa "resolver con RateResolver"; TransactionDate en cero significa ahora.
type RecordEntryInput struct {
	Type            string
	Category        string
	Amount          int64
	Currency        string
	FXRate          decimal.Decimal
	TransactionDate time.Time
	ReferenceType   string
	ReferenceID     string
	Description     string
	Actor           string
}

// Recorder registra asientos inmutables en el libro de caja.
type Recorder struct {
	txRunner repository.TxRunner
	rates    RateResolver
	log      zerolog.Logger
	now      func() time.Time
}

// NewRecorder construye el registrador.
func NewRecorder(txRunner repository.TxRunner, rates RateResolver, log zerolog.Logger) *Recorder {
	return &Recorder{txRunner: txRunner, rates: rates, log: log, now: time.Now}
}

// RecordEntry registra un asiento en su propia transacción.
func (r *Recorder) RecordEntry(ctx context.Context, in RecordEntryInput) (*entity.CashbookEntry, error) {
	var entry *entity.CashbookEntry
	err := r.txRunner.Run(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		e, err := r.RecordEntryInTx(ctx, repos, in)
		if err != nil {
			return err
		}
		entry = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.log.Info().
		Str("entry_id", entry.ID).
		Str("category", entry.Category).
		Int64("amount", entry.Amount).
		Str("currency", entry.Currency).
		Msg("asiento de caja registrado")
	return entry, nil
}

// RecordEntryInTx registra el asiento usando los repositorios de la transacción del caller.
// Si devuelve error el caller debe hacer rollback.
func (r *Recorder) RecordEntryInTx(ctx context.Context, repos repository.TxRepositories, in RecordEntryInput) (*entity.CashbookEntry, error) {
	ctx, span := tracer.Start(ctx, "cashbook.RecordEntry", trace.WithAttributes(
		attribute.String("cashbook.category", in.Category),
		attribute.String("cashbook.currency", in.Currency),
	))
	defer span.End()

	if err := validateEntry(in); err != nil {
		return nil, err
	}
	now := r.now()
	date := in.TransactionDate
	if date.IsZero() {
		date = now
	}
	currency := strings.ToUpper(in.Currency)

	rate := in.FXRate
	if !rate.IsPositive() {
		resolved, err := r.rates.Resolve(ctx, currency, date)
		if err != nil {
			return nil, err
		}
		rate = resolved
	}

	entry := &entity.CashbookEntry{
		ID:              uuid.New().String(),
		TransactionDate: date,
		Type:            in.Type,
		Category:        in.Category,
		Amount:          in.Amount,
		Currency:        currency,
		FXRate:          rate,
		AmountBase:      ToBase(in.Amount, rate),
		ReferenceType:   in.ReferenceType,
		ReferenceID:     in.ReferenceID,
		Description:     in.Description,
		CreatedBy:       in.Actor,
		CreatedAt:       now,
	}
	if err := repos.Cashbook.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// ToBase convierte un monto entero a moneda base redondeando al entero más cercano.
func ToBase(amount int64, rate decimal.Decimal) int64 {
	return decimal.NewFromInt(amount).Mul(rate).Round(0).IntPart()
}

func validateEntry(in RecordEntryInput) error {
	if !entity.ValidCashbookType(in.Type) {
		return fmt.Errorf("%w: tipo de asiento %q", domain.ErrInvalidInput, in.Type)
	}
	if !entity.ValidCashbookCategory(in.Category) {
		return fmt.Errorf("%w: categoría %q", domain.ErrInvalidInput, in.Category)
	}
	if in.Amount == 0 {
		return fmt.Errorf("%w: el monto no puede ser cero", domain.ErrInvalidInput)
	}
	// Los ingresos suman y los egresos restan: el signo debe coincidir con el tipo.
	if in.Type == entity.CashbookTypeIncome && in.Amount < 0 {
		return fmt.Errorf("%w: un ingreso debe ser positivo", domain.ErrInvalidInput)
	}
	if in.Type == entity.CashbookTypeExpense && in.Amount > 0 {
		return fmt.Errorf("%w: un egreso debe ser negativo", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.Currency) == "" {
		return fmt.Errorf("%w: moneda requerida", domain.ErrInvalidInput)
	}
	if in.FXRate.IsNegative() {
		return fmt.Errorf("%w: tasa de cambio negativa", domain.ErrInvalidInput)
	}
	return nil
}
