package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/yuandi-erp/internal/domain"
	"github.com/jhoicas/yuandi-erp/internal/domain/entity"
	"github.com/jhoicas/yuandi-erp/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = `id, order_number, customer_name, customer_phone, customer_email, shipping_address, status,
	total_amount, discount_amount, final_amount, refund_amount, currency, cancel_reason, refund_reason,
	paid_at, shipped_at, completed_at, cancelled_at, refunded_at, created_by, created_at, updated_at`

// OrderRepo pedidos y líneas sobre PostgreSQL (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create inserta cabecera y líneas. Debe llamarse dentro de una tx para que sea atómico.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	_, err := r.q.Exec(ctx, `INSERT INTO orders (`+orderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`,
		o.ID, o.OrderNumber, o.CustomerName, o.CustomerPhone, o.CustomerEmail, o.ShippingAddress, o.Status,
		o.TotalAmount, o.DiscountAmount, o.FinalAmount, o.RefundAmount, o.Currency, o.CancelReason, o.RefundReason,
		o.PaidAt, o.ShippedAt, o.CompletedAt, o.CancelledAt, o.RefundedAt, o.CreatedBy, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert order: %w", err)
	}
	for i, it := range o.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO order_items (id, order_id, product_id, product_name, sku, quantity, unit_price, subtotal, line_no)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			it.ID, o.ID, it.ProductID, it.ProductName, it.SKU, it.Quantity, it.UnitPrice, it.Subtotal, i+1,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

// GetByID pedido con sus líneas.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

// GetForUpdate pedido con sus líneas, bloqueando la fila de la cabecera.
func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *OrderRepo) getOne(ctx context.Context, query, id string) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	items, err := r.items(ctx, []string{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]
	return o, nil
}

// UpdateStatus cambia el estado y sella la fecha correspondiente.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, upd repository.OrderStatusUpdate) error {
	var query string
	args := []any{id, upd.Status, upd.At}
	switch upd.Status {
	case entity.OrderStatusShipped:
		query = `UPDATE orders SET status = $2, shipped_at = $3, updated_at = $3 WHERE id = $1`
	case entity.OrderStatusDone:
		query = `UPDATE orders SET status = $2, completed_at = $3, updated_at = $3 WHERE id = $1`
	case entity.OrderStatusCancelled:
		query = `UPDATE orders SET status = $2, cancelled_at = $3, cancel_reason = $4, updated_at = $3 WHERE id = $1`
		args = append(args, upd.Reason)
	case entity.OrderStatusRefunded:
		query = `UPDATE orders SET status = $2, refunded_at = $3, refund_reason = $4, refund_amount = $5, updated_at = $3 WHERE id = $1`
		args = append(args, upd.Reason, upd.RefundAmount)
	default:
		return fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, upd.Status)
	}
	cmd, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// List pedidos filtrados por estado o búsqueda, más recientes primero.
func (r *OrderRepo) List(ctx context.Context, f repository.OrderFilter) ([]*entity.Order, error) {
	var (
		where []string
		args  []any
	)
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+s+"%")
		where = append(where, fmt.Sprintf("(order_number ILIKE $%d OR customer_name ILIKE $%d)", len(args), len(args)))
	}
	query := `SELECT ` + orderColumns + ` FROM orders`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	args = append(args, f.Limit, f.Offset)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	var (
		list []*entity.Order
		ids  []string
	)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
		ids = append(ids, o.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if len(ids) == 0 {
		return list, nil
	}
	items, err := r.items(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, o := range list {
		o.Items = items[o.ID]
	}
	return list, nil
}

func (r *OrderRepo) items(ctx context.Context, orderIDs []string) (map[string][]entity.OrderItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, product_id, product_name, sku, quantity, unit_price, subtotal
		FROM order_items WHERE order_id::text = ANY($1) ORDER BY order_id, line_no`, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	out := make(map[string][]entity.OrderItem, len(orderIDs))
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.SKU,
			&it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		out[it.OrderID] = append(out[it.OrderID], it)
	}
	return out, rows.Err()
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	err := row.Scan(&o.ID, &o.OrderNumber, &o.CustomerName, &o.CustomerPhone, &o.CustomerEmail, &o.ShippingAddress,
		&o.Status, &o.TotalAmount, &o.DiscountAmount, &o.FinalAmount, &o.RefundAmount, &o.Currency,
		&o.CancelReason, &o.RefundReason, &o.PaidAt, &o.ShippedAt, &o.CompletedAt, &o.CancelledAt, &o.RefundedAt,
		&o.CreatedBy, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
