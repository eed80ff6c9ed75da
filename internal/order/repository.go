package order

import (
	"context"
	"time"

	"github.com/jcmexdev/backoffice/internal/page"
)

// Repository is the persistence port for orders and their items.
type Repository interface {
	// Create persists the order and its items in one go, assigning ids.
	Create(ctx context.Context, o *Order) error

	// FindByID loads the order with its items.
	FindByID(ctx context.Context, id int64) (*Order, error)

	// UpdateStatus persists the status and the paid/cancelled timestamps.
	UpdateStatus(ctx context.Context, o *Order) error

	// List returns a page of orders, optionally filtered by status,
	// newest first. Items are loaded for each order on the page.
	List(ctx context.Context, status *Status, req page.Request) (page.Page[Order], error)

	// MarkLateBefore flips every CREATED order created before cutoff to
	// LATE and returns how many were affected. Orders already LATE are
	// not revisited.
	MarkLateBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// TxRunner scopes a function to one atomic transaction: commit when fn
// returns nil, rollback on error or panic. The transaction travels in the
// context so repository calls inside fn share it.
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}
