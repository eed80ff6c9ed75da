package order

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jcmexdev/backoffice/internal/apperr"
	"github.com/jcmexdev/backoffice/internal/catalog"
	"github.com/jcmexdev/backoffice/internal/customer"
	"github.com/jcmexdev/backoffice/internal/money"
	"github.com/jcmexdev/backoffice/internal/page"
)

// LineInput is one requested line: product, quantity and an optional
// discount amount (zero when absent).
type LineInput struct {
	ProductID int64
	Quantity  int
	Discount  decimal.Decimal
}

// CreateInput is a creation request: one customer, at least one line.
type CreateInput struct {
	CustomerID int64
	Items      []LineInput
}

// Service orchestrates the order lifecycle. Create, Pay, Cancel and
// SweepLate each run inside one transaction scope.
type Service struct {
	tx        TxRunner
	orders    Repository
	customers customer.Repository
	products  catalog.Repository
	now       func() time.Time
}

func NewService(tx TxRunner, orders Repository, customers customer.Repository, products catalog.Repository) *Service {
	return &Service{
		tx:        tx,
		orders:    orders,
		customers: customers,
		products:  products,
		now:       time.Now,
	}
}

// Create builds and persists an order from the requested lines, decrementing
// product stock as each line is priced.
//
// Lines are processed in input order; the first line with insufficient stock
// aborts the whole request. Stock already decremented for earlier lines is
// NOT reverted by this code: the surrounding transaction rolls everything
// back, which is the only thing guaranteeing all-or-nothing stock mutation.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Order, error) {
	if len(in.Items) == 0 {
		return nil, apperr.Business("order must contain at least one item")
	}
	for _, it := range in.Items {
		if it.Quantity < 1 {
			return nil, apperr.Business("item quantity must be at least 1")
		}
		if it.Discount.IsNegative() {
			return nil, apperr.Business("item discount must not be negative")
		}
	}

	var out *Order
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		if _, err := s.customers.FindByID(ctx, in.CustomerID); err != nil {
			return err
		}

		o := &Order{
			Reference:  uuid.NewString(),
			CustomerID: in.CustomerID,
			Status:     StatusCreated,
			CreatedAt:  s.now(),
		}

		subtotal := decimal.Zero
		discounts := decimal.Zero

		for _, it := range in.Items {
			p, err := s.products.FindByID(ctx, it.ProductID)
			if err != nil {
				return err
			}
			if p.Stock < it.Quantity {
				return apperr.Business("insufficient stock for SKU %s", p.SKU)
			}
			if err := s.products.AdjustStock(ctx, p.ID, -it.Quantity); err != nil {
				return err
			}

			unitPrice := money.Round(p.GrossPrice)
			lineTotal := money.Round(money.MulQty(unitPrice, it.Quantity).Sub(it.Discount))

			o.Items = append(o.Items, Item{
				ProductID:   p.ID,
				SKU:         p.SKU,
				ProductName: p.Name,
				Quantity:    it.Quantity,
				UnitPrice:   unitPrice,
				Discount:    money.Round(it.Discount),
				LineTotal:   lineTotal,
			})

			subtotal = subtotal.Add(money.MulQty(unitPrice, it.Quantity))
			discounts = discounts.Add(it.Discount)
		}

		o.Subtotal = money.Round(subtotal)
		o.Discounts = money.Round(discounts)
		o.Total = money.Round(o.Subtotal.Sub(o.Discounts))

		if err := s.orders.Create(ctx, o); err != nil {
			return err
		}
		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "order created",
		"order_id", out.ID,
		"reference", out.Reference,
		"customer_id", out.CustomerID,
		"total", out.Total.String(),
		"items", len(out.Items),
	)
	return out, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Order, error) {
	return s.orders.FindByID(ctx, id)
}

// List returns a page of orders, optionally filtered by status.
func (s *Service) List(ctx context.Context, status *Status, req page.Request) (page.Page[Order], error) {
	return s.orders.List(ctx, status, req)
}

// Pay applies the pay transition and persists it.
func (s *Service) Pay(ctx context.Context, id int64) (*Order, error) {
	var out *Order
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		o, err := s.orders.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := o.Pay(s.now()); err != nil {
			return err
		}
		if err := s.orders.UpdateStatus(ctx, o); err != nil {
			return err
		}
		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "order paid", "order_id", out.ID, "reference", out.Reference)
	return out, nil
}

// Cancel applies the cancel transition, restoring each line's quantity to
// stock. Cancelling an already-cancelled order returns it unchanged.
func (s *Service) Cancel(ctx context.Context, id int64) (*Order, error) {
	var out *Order
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		o, err := s.orders.FindByID(ctx, id)
		if err != nil {
			return err
		}
		restock, err := o.Cancel(s.now())
		if err != nil {
			return err
		}
		if restock {
			for _, it := range o.Items {
				if err := s.products.AdjustStock(ctx, it.ProductID, it.Quantity); err != nil {
					return err
				}
			}
			if err := s.orders.UpdateStatus(ctx, o); err != nil {
				return err
			}
		}
		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "order cancelled", "order_id", out.ID, "reference", out.Reference)
	return out, nil
}

// SweepLate marks every CREATED order older than the given age as LATE and
// returns the count of newly-transitioned orders. Safe to call repeatedly.
func (s *Service) SweepLate(ctx context.Context, olderThan time.Duration) (int64, error) {
	var count int64
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		cutoff := s.now().Add(-olderThan)
		n, err := s.orders.MarkLateBefore(ctx, cutoff)
		if err != nil {
			return err
		}
		count = n
		return nil
	})
	if err != nil {
		return 0, err
	}

	if count > 0 {
		slog.InfoContext(ctx, "orders marked late", "count", count)
	}
	return count, nil
}
