package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jcmexdev/backoffice/internal/apperr"
	"github.com/jcmexdev/backoffice/internal/customer"
	"github.com/jcmexdev/backoffice/internal/page"
)

var _ customer.Repository = (*customerRepo)(nil)

type customerRepo struct {
	s *Store
}

// Customers returns the customer repository backed by this store.
func (s *Store) Customers() customer.Repository {
	return &customerRepo{s: s}
}

func (r *customerRepo) Create(ctx context.Context, c *customer.Customer) error {
	const q = `
		INSERT INTO customers
			(name, email, tax_id, street, number, complement, neighborhood, city, region, postal_code, created_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	a := c.Address
	res, err := r.s.q(ctx).ExecContext(ctx, q,
		c.Name, c.Email, c.TaxID,
		a.Street, a.Number, a.Complement, a.Neighborhood, a.City, a.Region, a.PostalCode,
		formatTime(c.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("store: create customer %q: %w", c.Email, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("store: create customer %q: %w", c.Email, err)
	}
	c.ID = id
	return nil
}

func (r *customerRepo) Update(ctx context.Context, c *customer.Customer) error {
	const q = `
		UPDATE customers
		SET    name = ?, email = ?, tax_id = ?,
		       street = ?, number = ?, complement = ?, neighborhood = ?, city = ?, region = ?, postal_code = ?
		WHERE  id = ?`

	a := c.Address
	res, err := r.s.q(ctx).ExecContext(ctx, q,
		c.Name, c.Email, c.TaxID,
		a.Street, a.Number, a.Complement, a.Neighborhood, a.City, a.Region, a.PostalCode,
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("store: update customer %d: %w", c.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: update customer %d: %w", c.ID, err)
	}
	if n == 0 {
		return apperr.NotFound("customer %d not found", c.ID)
	}
	return nil
}

func (r *customerRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.s.q(ctx).ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete customer %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: delete customer %d: %w", id, err)
	}
	if n == 0 {
		return apperr.NotFound("customer %d not found", id)
	}
	return nil
}

func (r *customerRepo) FindByID(ctx context.Context, id int64) (*customer.Customer, error) {
	const q = `
		SELECT id, name, email, tax_id, street, number, complement, neighborhood, city, region, postal_code, created_at
		FROM   customers
		WHERE  id = ?`

	c, err := scanCustomer(r.s.q(ctx).QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("customer %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("store: find customer %d: %w", id, err)
	}
	return c, nil
}

func (r *customerRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.s.q(ctx).QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM customers WHERE email = ?)`, email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("store: exists customer email: %w", err)
	}
	return exists, nil
}

func (r *customerRepo) ExistsByTaxID(ctx context.Context, taxID string) (bool, error) {
	var exists bool
	err := r.s.q(ctx).QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM customers WHERE tax_id = ?)`, taxID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("store: exists customer tax id: %w", err)
	}
	return exists, nil
}

func (r *customerRepo) Search(ctx context.Context, q string, req page.Request) (page.Page[customer.Customer], error) {
	req = req.Normalized()
	var zero page.Page[customer.Customer]

	pattern := "%" + q + "%"

	var total int64
	if err := r.s.q(ctx).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM customers WHERE name LIKE ? COLLATE NOCASE OR email LIKE ? COLLATE NOCASE`,
		pattern, pattern,
	).Scan(&total); err != nil {
		return zero, fmt.Errorf("store: count customers: %w", err)
	}

	const sel = `
		SELECT id, name, email, tax_id, street, number, complement, neighborhood, city, region, postal_code, created_at
		FROM   customers
		WHERE  name LIKE ? COLLATE NOCASE OR email LIKE ? COLLATE NOCASE
		ORDER  BY id
		LIMIT  ? OFFSET ?`
	rows, err := r.s.q(ctx).QueryContext(ctx, sel, pattern, pattern, req.Size, req.Offset())
	if err != nil {
		return zero, fmt.Errorf("store: search customers: %w", err)
	}
	defer rows.Close()

	items := []customer.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return zero, fmt.Errorf("store: search customers: %w", err)
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return zero, fmt.Errorf("store: search customers: %w", err)
	}

	return page.Page[customer.Customer]{Items: items, Number: req.Number, Size: req.Size, Total: total}, nil
}

func scanCustomer(row rowScanner) (*customer.Customer, error) {
	var c customer.Customer
	var createdAt string
	err := row.Scan(
		&c.ID, &c.Name, &c.Email, &c.TaxID,
		&c.Address.Street, &c.Address.Number, &c.Address.Complement,
		&c.Address.Neighborhood, &c.Address.City, &c.Address.Region, &c.Address.PostalCode,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}
	c.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
