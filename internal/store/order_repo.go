package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/backoffice/internal/apperr"
	"github.com/jcmexdev/backoffice/internal/order"
	"github.com/jcmexdev/backoffice/internal/page"
)

var _ order.Repository = (*orderRepo)(nil)

type orderRepo struct {
	s *Store
}

// Orders returns the order repository backed by this store.
func (s *Store) Orders() order.Repository {
	return &orderRepo{s: s}
}

func (r *orderRepo) Create(ctx context.Context, o *order.Order) error {
	const insertOrder = `
		INSERT INTO orders
			(reference, customer_id, status, subtotal, discounts, total, created_at, paid_at, cancelled_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := r.s.q(ctx).ExecContext(ctx, insertOrder,
		o.Reference, o.CustomerID, string(o.Status),
		o.Subtotal.String(), o.Discounts.String(), o.Total.String(),
		formatTime(o.CreatedAt), nullableTime(o.PaidAt), nullableTime(o.CancelledAt),
	)
	if err != nil {
		return fmt.Errorf("store: create order %s: %w", o.Reference, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("store: create order %s: %w", o.Reference, err)
	}
	o.ID = id

	const insertItem = `
		INSERT INTO order_items
			(order_id, product_id, sku, product_name, quantity, unit_price, discount, line_total)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?)`

	for i := range o.Items {
		it := &o.Items[i]
		res, err := r.s.q(ctx).ExecContext(ctx, insertItem,
			o.ID, it.ProductID, it.SKU, it.ProductName, it.Quantity,
			it.UnitPrice.String(), it.Discount.String(), it.LineTotal.String(),
		)
		if err != nil {
			return fmt.Errorf("store: create order item for %s: %w", o.Reference, err)
		}
		itemID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("store: create order item for %s: %w", o.Reference, err)
		}
		it.ID = itemID
	}
	return nil
}

func (r *orderRepo) FindByID(ctx context.Context, id int64) (*order.Order, error) {
	const q = `
		SELECT id, reference, customer_id, status, subtotal, discounts, total, created_at, paid_at, cancelled_at
		FROM   orders
		WHERE  id = ?`

	o, err := scanOrder(r.s.q(ctx).QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("order %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("store: find order %d: %w", id, err)
	}

	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, o *order.Order) error {
	const q = `
		UPDATE orders
		SET    status = ?, paid_at = ?, cancelled_at = ?
		WHERE  id = ?`

	res, err := r.s.q(ctx).ExecContext(ctx, q,
		string(o.Status), nullableTime(o.PaidAt), nullableTime(o.CancelledAt), o.ID,
	)
	if err != nil {
		return fmt.Errorf("store: update order %d status: %w", o.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: update order %d status: %w", o.ID, err)
	}
	if n == 0 {
		return apperr.NotFound("order %d not found", o.ID)
	}
	return nil
}

func (r *orderRepo) List(ctx context.Context, status *order.Status, req page.Request) (page.Page[order.Order], error) {
	req = req.Normalized()
	var zero page.Page[order.Order]

	where := ""
	args := []any{}
	if status != nil {
		where = "WHERE status = ?"
		args = append(args, string(*status))
	}

	var total int64
	if err := r.s.q(ctx).QueryRowContext(ctx,
		"SELECT COUNT(*) FROM orders "+where, args...,
	).Scan(&total); err != nil {
		return zero, fmt.Errorf("store: count orders: %w", err)
	}

	q := fmt.Sprintf(`
		SELECT id, reference, customer_id, status, subtotal, discounts, total, created_at, paid_at, cancelled_at
		FROM   orders %s
		ORDER  BY created_at DESC, id DESC
		LIMIT  ? OFFSET ?`, where)
	rows, err := r.s.q(ctx).QueryContext(ctx, q, append(args, req.Size, req.Offset())...)
	if err != nil {
		return zero, fmt.Errorf("store: list orders: %w", err)
	}
	defer rows.Close()

	items := []order.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return zero, fmt.Errorf("store: list orders: %w", err)
		}
		items = append(items, *o)
	}
	if err := rows.Err(); err != nil {
		return zero, fmt.Errorf("store: list orders: %w", err)
	}

	for i := range items {
		if err := r.loadItems(ctx, &items[i]); err != nil {
			return zero, err
		}
	}

	return page.Page[order.Order]{Items: items, Number: req.Number, Size: req.Size, Total: total}, nil
}

func (r *orderRepo) MarkLateBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.s.q(ctx).ExecContext(ctx,
		`UPDATE orders SET status = ? WHERE status = ? AND created_at < ?`,
		string(order.StatusLate), string(order.StatusCreated), formatTime(cutoff),
	)
	if err != nil {
		return 0, fmt.Errorf("store: mark late orders: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("store: mark late orders: %w", err)
	}
	return n, nil
}

func (r *orderRepo) loadItems(ctx context.Context, o *order.Order) error {
	const q = `
		SELECT id, product_id, sku, product_name, quantity, unit_price, discount, line_total
		FROM   order_items
		WHERE  order_id = ?
		ORDER  BY id`

	rows, err := r.s.q(ctx).QueryContext(ctx, q, o.ID)
	if err != nil {
		return fmt.Errorf("store: load items of order %d: %w", o.ID, err)
	}
	defer rows.Close()

	o.Items = nil
	for rows.Next() {
		var it order.Item
		var unitPrice, discount, lineTotal string
		if err := rows.Scan(&it.ID, &it.ProductID, &it.SKU, &it.ProductName, &it.Quantity,
			&unitPrice, &discount, &lineTotal); err != nil {
			return fmt.Errorf("store: load items of order %d: %w", o.ID, err)
		}
		if it.UnitPrice, err = decimal.NewFromString(unitPrice); err != nil {
			return fmt.Errorf("store: parse unit_price %q: %w", unitPrice, err)
		}
		if it.Discount, err = decimal.NewFromString(discount); err != nil {
			return fmt.Errorf("store: parse discount %q: %w", discount, err)
		}
		if it.LineTotal, err = decimal.NewFromString(lineTotal); err != nil {
			return fmt.Errorf("store: parse line_total %q: %w", lineTotal, err)
		}
		o.Items = append(o.Items, it)
	}
	return rows.Err()
}

func scanOrder(row rowScanner) (*order.Order, error) {
	var o order.Order
	var status, subtotal, discounts, total, createdAt string
	var paidAt, cancelledAt sql.NullString

	err := row.Scan(&o.ID, &o.Reference, &o.CustomerID, &status,
		&subtotal, &discounts, &total, &createdAt, &paidAt, &cancelledAt)
	if err != nil {
		return nil, err
	}

	o.Status = order.Status(status)
	if o.Subtotal, err = decimal.NewFromString(subtotal); err != nil {
		return nil, fmt.Errorf("parse subtotal %q: %w", subtotal, err)
	}
	if o.Discounts, err = decimal.NewFromString(discounts); err != nil {
		return nil, fmt.Errorf("parse discounts %q: %w", discounts, err)
	}
	if o.Total, err = decimal.NewFromString(total); err != nil {
		return nil, fmt.Errorf("parse total %q: %w", total, err)
	}
	if o.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if o.PaidAt, err = parseNullableTime(paidAt); err != nil {
		return nil, err
	}
	if o.CancelledAt, err = parseNullableTime(cancelledAt); err != nil {
		return nil, err
	}
	return &o, nil
}

// nullableTime returns nil for absent timestamps so SQLite stores NULL.
func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func parseNullableTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := parseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
