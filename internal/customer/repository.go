package customer

import (
	"context"

	"github.com/jcmexdev/backoffice/internal/page"
)

// Repository is the persistence port for customers.
type Repository interface {
	Create(ctx context.Context, c *Customer) error
	Update(ctx context.Context, c *Customer) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*Customer, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByTaxID(ctx context.Context, taxID string) (bool, error)

	// Search matches q case-insensitively against name and email.
	// An empty q returns all customers.
	Search(ctx context.Context, q string, req page.Request) (page.Page[Customer], error)
}

// LookedUpAddress is what the postal-code lookup returns for a valid code.
type LookedUpAddress struct {
	Street       string
	Neighborhood string
	City         string
	Region       string
}

// AddressLookup resolves a postal code to address fields. Implementations
// return a BusinessError for codes the provider rejects as invalid.
type AddressLookup interface {
	Lookup(ctx context.Context, postalCode string) (*LookedUpAddress, error)
}
