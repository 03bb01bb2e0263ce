package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/yuandi-erp/internal/domain/entity"
	"github.com/jhoicas/yuandi-erp/internal/domain/repository"
)

var _ repository.CashbookRepository = (*CashbookRepo)(nil)

const cashbookColumns = `id, transaction_date, type, category, amount, currency, fx_rate, amount_base, reference_type, reference_id, description, created_by, created_at`

// CashbookRepo libro de caja sobre PostgreSQL. Append-only (ver trigger cashbook_append_only).
type CashbookRepo struct {
	q Querier
}

// NewCashbookRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCashbookRepository(q Querier) *CashbookRepo {
	return &CashbookRepo{q: q}
}

// Create inserta un asiento.
func (r *CashbookRepo) Create(ctx context.Context, e *entity.CashbookEntry) error {
	_, err := r.q.Exec(ctx, `INSERT INTO cashbook (`+cashbookColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		e.ID, e.TransactionDate, e.Type, e.Category, e.Amount, e.Currency, e.FXRate, e.AmountBase,
		e.ReferenceType, e.ReferenceID, e.Description, e.CreatedBy, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create cashbook entry: %w", err)
	}
	return nil
}

// List aplica los filtros sobre el libro completo con saldo acumulado (ventana sobre fecha y seq),
// así balance_after no depende de los filtros ni de la página.
func (r *CashbookRepo) List(ctx context.Context, f repository.CashbookFilter) ([]*entity.CashbookEntry, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.From != nil {
		add("transaction_date >= $%d", *f.From)
	}
	if f.To != nil {
		add("transaction_date <= $%d", *f.To)
	}
	if f.Type != "" {
		add("type = $%d", f.Type)
	}
	if f.Category != "" {
		add("category = $%d", f.Category)
	}
	if f.ReferenceType != "" {
		add("reference_type = $%d", f.ReferenceType)
	}
	if f.ReferenceID != "" {
		add("reference_id = $%d", f.ReferenceID)
	}

	query := `SELECT ` + cashbookColumns + `, balance_after FROM (
		SELECT ` + cashbookColumns + `, seq,
			(SUM(amount_base) OVER (ORDER BY transaction_date, seq ROWS BETWEEN UNBOUNDED PRECEDING AND CURRENT ROW))::BIGINT AS balance_after
		FROM cashbook
	) ledger`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	args = append(args, f.Limit, f.Offset)
	query += fmt.Sprintf(` ORDER BY transaction_date DESC, seq DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cashbook: %w", err)
	}
	defer rows.Close()
	var list []*entity.CashbookEntry
	for rows.Next() {
		var e entity.CashbookEntry
		var balance int64
		if err := rows.Scan(&e.ID, &e.TransactionDate, &e.Type, &e.Category, &e.Amount, &e.Currency,
			&e.FXRate, &e.AmountBase, &e.ReferenceType, &e.ReferenceID, &e.Description,
			&e.CreatedBy, &e.CreatedAt, &balance); err != nil {
			return nil, fmt.Errorf("scan cashbook entry: %w", err)
		}
		e.BalanceAfter = &balance
		list = append(list, &e)
	}
	return list, rows.Err()
}

// BalanceAt saldo en moneda base al instante at.
func (r *CashbookRepo) BalanceAt(ctx context.Context, at time.Time) (int64, error) {
	var balance int64
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount_base), 0)::BIGINT FROM cashbook WHERE transaction_date <= $1`, at,
	).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("cashbook balance: %w", err)
	}
	return balance, nil
}
