package customer

import (
	"context"
	"strings"

	"github.com/jcmexdev/backoffice/internal/apperr"
	"github.com/jcmexdev/backoffice/internal/page"
	"github.com/jcmexdev/backoffice/internal/pkg/retry"
)

// Input carries the caller-supplied fields for creating or updating a
// customer. Address fields other than PostalCode and Number may be left
// blank to be filled in from the lookup service.
type Input struct {
	Name    string
	Email   string
	TaxID   string
	Address Address
}

// Service implements customer management. Create and Update enrich the
// address from the postal-code lookup and are wrapped in a bounded retry:
// the lookup is a network call that can fail transiently.
type Service struct {
	customers Repository
	addresses AddressLookup
	retryCfg  retry.Config
}

func NewService(customers Repository, addresses AddressLookup) *Service {
	return &Service{
		customers: customers,
		addresses: addresses,
		retryCfg:  retry.DefaultConfig(),
	}
}

func (s *Service) Create(ctx context.Context, in Input) (*Customer, error) {
	return retry.Do(ctx, s.retryCfg, func() (*Customer, error) {
		return s.create(ctx, in)
	})
}

func (s *Service) create(ctx context.Context, in Input) (*Customer, error) {
	if err := s.checkUnique(ctx, in.Email, in.TaxID); err != nil {
		return nil, err
	}
	addr, err := s.enrichAddress(ctx, in.Address)
	if err != nil {
		return nil, err
	}

	c := &Customer{
		Name:    in.Name,
		Email:   in.Email,
		TaxID:   in.TaxID,
		Address: addr,
	}
	if err := s.customers.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (*Customer, error) {
	return retry.Do(ctx, s.retryCfg, func() (*Customer, error) {
		return s.update(ctx, id, in)
	})
}

func (s *Service) update(ctx context.Context, id int64, in Input) (*Customer, error) {
	c, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if c.Email != in.Email {
		taken, err := s.customers.ExistsByEmail(ctx, in.Email)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperr.Business("email already registered")
		}
	}
	if c.TaxID != in.TaxID {
		taken, err := s.customers.ExistsByTaxID(ctx, in.TaxID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperr.Business("tax id already registered")
		}
	}

	addr, err := s.enrichAddress(ctx, in.Address)
	if err != nil {
		return nil, err
	}

	c.Name = in.Name
	c.Email = in.Email
	c.TaxID = in.TaxID
	c.Address = addr
	if err := s.customers.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.customers.FindByID(ctx, id); err != nil {
		return err
	}
	return s.customers.Delete(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Customer, error) {
	return s.customers.FindByID(ctx, id)
}

func (s *Service) Search(ctx context.Context, q string, req page.Request) (page.Page[Customer], error) {
	return s.customers.Search(ctx, q, req)
}

func (s *Service) checkUnique(ctx context.Context, email, taxID string) error {
	taken, err := s.customers.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if taken {
		return apperr.Business("email already registered")
	}
	taken, err = s.customers.ExistsByTaxID(ctx, taxID)
	if err != nil {
		return err
	}
	if taken {
		return apperr.Business("tax id already registered")
	}
	return nil
}

// enrichAddress resolves the postal code and fills in the fields the caller
// left blank. Caller-supplied non-blank values always win over looked-up ones.
func (s *Service) enrichAddress(ctx context.Context, in Address) (Address, error) {
	if strings.TrimSpace(in.PostalCode) == "" {
		return Address{}, apperr.Business("postal code is required")
	}

	looked, err := s.addresses.Lookup(ctx, in.PostalCode)
	if err != nil {
		return Address{}, err
	}

	return Address{
		Street:       firstNonBlank(in.Street, looked.Street),
		Number:       in.Number,
		Complement:   in.Complement,
		Neighborhood: firstNonBlank(in.Neighborhood, looked.Neighborhood),
		City:         firstNonBlank(in.City, looked.City),
		Region:       firstNonBlank(in.Region, looked.Region),
		PostalCode:   in.PostalCode,
	}, nil
}

func firstNonBlank(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}
