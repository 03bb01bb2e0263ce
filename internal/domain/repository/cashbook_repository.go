package repository

import (
	"context"
	"time"

	"github.com/jhoicas/yuandi-erp/internal/domain/entity"
)

// CashbookFilter filtros del libro de caja.
type CashbookFilter struct {
	From, To      *time.Time
	Type          string
	Category      string
	ReferenceType string
	ReferenceID   string
	Limit         int
	Offset        int
}

// CashbookRepository puerto del libro de caja. No existen operaciones de actualización ni borrado.
type CashbookRepository interface {
	Create(ctx context.Context, entry *entity.CashbookEntry) error
	// List devuelve los asientos con BalanceAfter calculado sobre todo el libro
	// (suma de AmountBase de los asientos con fecha <= la del asiento).
	List(ctx context.Context, filter CashbookFilter) ([]*entity.CashbookEntry, error)
	// BalanceAt suma AmountBase de todos los asientos con transaction_date <= at.
	BalanceAt(ctx context.Context, at time.Time) (int64, error)
}
