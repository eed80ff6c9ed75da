package catalog

import (
	"context"

	"github.com/jcmexdev/backoffice/internal/page"
)

// Repository is the persistence port for products. Implementations must
// honour any transaction carried in ctx (see the store package).
type Repository interface {
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*Product, error)
	ExistsBySKU(ctx context.Context, sku string) (bool, error)
	List(ctx context.Context, active *bool, req page.Request) (page.Page[Product], error)

	// AdjustStock applies a signed delta to a product's stock. Callers check
	// sufficiency before passing a negative delta; the schema additionally
	// rejects any write that would take stock below zero.
	AdjustStock(ctx context.Context, id int64, delta int) error

	// FindBelowMinimum returns every product whose stock is under its
	// minimum threshold. Read-only, used by the daily audit.
	FindBelowMinimum(ctx context.Context) ([]Product, error)
}
