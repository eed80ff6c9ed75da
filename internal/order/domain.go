package order

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/backoffice/internal/apperr"
)

// Status is the lifecycle state of an order.
//
// CREATED is the initial state. PAID and CANCELLED are terminal. LATE marks
// an order that sat in CREATED past the lateness threshold; it is
// informational and does not block payment or cancellation.
type Status string

const (
	StatusCreated   Status = "CREATED"
	StatusPaid      Status = "PAID"
	StatusCancelled Status = "CANCELLED"
	StatusLate      Status = "LATE"
)

// LateAfter is the age at which a CREATED order is considered late.
const LateAfter = 48 * time.Hour

// ParseStatus validates a caller-supplied status string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusCreated, StatusPaid, StatusCancelled, StatusLate:
		return Status(s), nil
	}
	return "", apperr.Business("unknown order status %q", s)
}

// Item is one line of an order. UnitPrice and Discount are snapshots taken
// at order time; later catalog price changes do not touch them.
type Item struct {
	ID          int64
	ProductID   int64
	SKU         string
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	Discount    decimal.Decimal
	LineTotal   decimal.Decimal
}

// Order owns its items; they cannot outlive it. All monetary fields carry
// exactly 2 decimal places.
type Order struct {
	ID          int64
	Reference   string
	CustomerID  int64
	Status      Status
	Subtotal    decimal.Decimal
	Discounts   decimal.Decimal
	Total       decimal.Decimal
	Items       []Item
	CreatedAt   time.Time
	PaidAt      *time.Time
	CancelledAt *time.Time
}

// Pay transitions the order to PAID. Only PAID and CANCELLED block the
// transition; a LATE order pays exactly like a CREATED one.
func (o *Order) Pay(now time.Time) error {
	switch o.Status {
	case StatusCancelled:
		return apperr.Business("order is cancelled")
	case StatusPaid:
		return apperr.Business("order already paid")
	}
	o.Status = StatusPaid
	o.PaidAt = &now
	return nil
}

// Cancel transitions the order to CANCELLED. Cancelling an already-cancelled
// order is an idempotent no-op: restock is false and nothing changes, so
// stock is never restored twice. Cancelling a paid order fails.
func (o *Order) Cancel(now time.Time) (restock bool, err error) {
	if o.Status == StatusPaid {
		return false, apperr.Business("order already paid; cannot cancel")
	}
	if o.Status == StatusCancelled {
		return false, nil
	}
	o.Status = StatusCancelled
	o.CancelledAt = &now
	return true, nil
}
