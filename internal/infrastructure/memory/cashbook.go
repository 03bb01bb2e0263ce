package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/yuandi-erp/internal/domain/entity"
	"github.com/jhoicas/yuandi-erp/internal/domain/repository"
)

var _ repository.CashbookRepository = (*CashbookRepo)(nil)

// CashbookRepo libro de caja en memoria (append-only).
type CashbookRepo struct {
	s  *Store
	tx *tables
}

func (r *CashbookRepo) Create(ctx context.Context, e *entity.CashbookEntry) error {
	return r.s.write(ctx, r.tx, OpCashbookCreate, func(t *tables) error {
		entry := *e
		entry.BalanceAfter = nil
		t.cashbook = append(t.cashbook, entry)
		return nil
	})
}

// List calcula el saldo acumulado sobre el libro completo (fecha, orden de inserción)
// y luego filtra y pagina, más reciente primero.
func (r *CashbookRepo) List(ctx context.Context, f repository.CashbookFilter) ([]*entity.CashbookEntry, error) {
	var ledger []entity.CashbookEntry
	err := r.s.read(ctx, r.tx, func(t *tables) error {
		ledger = append(ledger, t.cashbook...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(ledger, func(i, j int) bool { return ledger[i].TransactionDate.Before(ledger[j].TransactionDate) })

	var running int64
	list := make([]*entity.CashbookEntry, 0, len(ledger))
	for i := range ledger {
		e := ledger[i]
		running += e.AmountBase
		balance := running
		e.BalanceAfter = &balance
		if !inRange(e.TransactionDate, f.From, f.To) ||
			(f.Type != "" && e.Type != f.Type) ||
			(f.Category != "" && e.Category != f.Category) ||
			(f.ReferenceType != "" && e.ReferenceType != f.ReferenceType) ||
			(f.ReferenceID != "" && e.ReferenceID != f.ReferenceID) {
			continue
		}
		list = append(list, &e)
	}
	for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
		list[i], list[j] = list[j], list[i]
	}
	return page(list, f.Limit, f.Offset), nil
}

func (r *CashbookRepo) BalanceAt(ctx context.Context, at time.Time) (int64, error) {
	var total int64
	err := r.s.read(ctx, r.tx, func(t *tables) error {
		for _, e := range t.cashbook {
			if !e.TransactionDate.After(at) {
				total += e.AmountBase
			}
		}
		return nil
	})
	return total, err
}
