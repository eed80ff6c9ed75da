package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/backoffice/internal/apperr"
	"github.com/jcmexdev/backoffice/internal/catalog"
	"github.com/jcmexdev/backoffice/internal/page"
)

var _ catalog.Repository = (*productRepo)(nil)

type productRepo struct {
	s *Store
}

// Products returns the catalog repository backed by this store.
func (s *Store) Products() catalog.Repository {
	return &productRepo{s: s}
}

func (r *productRepo) Create(ctx context.Context, p *catalog.Product) error {
	const q = `
		INSERT INTO products (sku, name, gross_price, stock, minimum_stock, active)
		VALUES (?, ?, ?, ?, ?, ?)`

	res, err := r.s.q(ctx).ExecContext(ctx, q,
		p.SKU, p.Name, p.GrossPrice.String(), p.Stock, p.MinimumStock, boolToInt(p.Active),
	)
	if err != nil {
		return fmt.Errorf("store: create product %q: %w", p.SKU, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("store: create product %q: %w", p.SKU, err)
	}
	p.ID = id
	return nil
}

func (r *productRepo) Update(ctx context.Context, p *catalog.Product) error {
	const q = `
		UPDATE products
		SET    sku = ?, name = ?, gross_price = ?, stock = ?, minimum_stock = ?, active = ?
		WHERE  id = ?`

	res, err := r.s.q(ctx).ExecContext(ctx, q,
		p.SKU, p.Name, p.GrossPrice.String(), p.Stock, p.MinimumStock, boolToInt(p.Active), p.ID,
	)
	if err != nil {
		return fmt.Errorf("store: update product %d: %w", p.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: update product %d: %w", p.ID, err)
	}
	if n == 0 {
		return apperr.NotFound("product %d not found", p.ID)
	}
	return nil
}

func (r *productRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.s.q(ctx).ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete product %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: delete product %d: %w", id, err)
	}
	if n == 0 {
		return apperr.NotFound("product %d not found", id)
	}
	return nil
}

func (r *productRepo) FindByID(ctx context.Context, id int64) (*catalog.Product, error) {
	const q = `
		SELECT id, sku, name, gross_price, stock, minimum_stock, active
		FROM   products
		WHERE  id = ?`

	p, err := scanProduct(r.s.q(ctx).QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("product %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("store: find product %d: %w", id, err)
	}
	return p, nil
}

func (r *productRepo) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	var exists bool
	err := r.s.q(ctx).QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM products WHERE sku = ?)`, sku,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("store: exists product %q: %w", sku, err)
	}
	return exists, nil
}

func (r *productRepo) List(ctx context.Context, active *bool, req page.Request) (page.Page[catalog.Product], error) {
	req = req.Normalized()
	var zero page.Page[catalog.Product]

	where := ""
	args := []any{}
	if active != nil {
		where = "WHERE active = ?"
		args = append(args, boolToInt(*active))
	}

	var total int64
	if err := r.s.q(ctx).QueryRowContext(ctx,
		"SELECT COUNT(*) FROM products "+where, args...,
	).Scan(&total); err != nil {
		return zero, fmt.Errorf("store: count products: %w", err)
	}

	q := fmt.Sprintf(`
		SELECT id, sku, name, gross_price, stock, minimum_stock, active
		FROM   products %s
		ORDER  BY id
		LIMIT  ? OFFSET ?`, where)
	rows, err := r.s.q(ctx).QueryContext(ctx, q, append(args, req.Size, req.Offset())...)
	if err != nil {
		return zero, fmt.Errorf("store: list products: %w", err)
	}
	defer rows.Close()

	items := []catalog.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return zero, fmt.Errorf("store: list products: %w", err)
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return zero, fmt.Errorf("store: list products: %w", err)
	}

	return page.Page[catalog.Product]{Items: items, Number: req.Number, Size: req.Size, Total: total}, nil
}

func (r *productRepo) AdjustStock(ctx context.Context, id int64, delta int) error {
	res, err := r.s.q(ctx).ExecContext(ctx,
		`UPDATE products SET stock = stock + ? WHERE id = ?`, delta, id,
	)
	if err != nil {
		// A CHECK violation here means a caller skipped the sufficiency
		// check; surface it loudly rather than masking it.
		return fmt.Errorf("store: adjust stock of product %d by %d: %w", id, delta, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: adjust stock of product %d: %w", id, err)
	}
	if n == 0 {
		return apperr.NotFound("product %d not found", id)
	}
	return nil
}

func (r *productRepo) FindBelowMinimum(ctx context.Context) ([]catalog.Product, error) {
	const q = `
		SELECT id, sku, name, gross_price, stock, minimum_stock, active
		FROM   products
		WHERE  stock < minimum_stock
		ORDER  BY sku`

	rows, err := r.s.q(ctx).QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("store: products below minimum: %w", err)
	}
	defer rows.Close()

	var out []catalog.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("store: products below minimum: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*catalog.Product, error) {
	var p catalog.Product
	var price string
	var active int
	if err := row.Scan(&p.ID, &p.SKU, &p.Name, &price, &p.Stock, &p.MinimumStock, &active); err != nil {
		return nil, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("parse gross_price %q: %w", price, err)
	}
	p.GrossPrice = d
	p.Active = active != 0
	return &p, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
