package catalog

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/backoffice/internal/apperr"
	"github.com/jcmexdev/backoffice/internal/money"
	"github.com/jcmexdev/backoffice/internal/page"
)

// Input carries the caller-supplied fields for creating or updating a product.
type Input struct {
	SKU          string
	Name         string
	GrossPrice   decimal.Decimal
	Stock        int
	MinimumStock int
	Active       bool
}

// Service implements catalog management on top of the repository port.
type Service struct {
	products Repository
}

func NewService(products Repository) *Service {
	return &Service{products: products}
}

func (s *Service) Create(ctx context.Context, in Input) (*Product, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	taken, err := s.products.ExistsBySKU(ctx, in.SKU)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Business("SKU %s already registered", in.SKU)
	}

	p := &Product{
		SKU:          in.SKU,
		Name:         in.Name,
		GrossPrice:   money.Round(in.GrossPrice),
		Stock:        in.Stock,
		MinimumStock: in.MinimumStock,
		Active:       in.Active,
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (*Product, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.SKU != in.SKU {
		taken, err := s.products.ExistsBySKU(ctx, in.SKU)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperr.Business("SKU %s already registered", in.SKU)
		}
	}

	p.SKU = in.SKU
	p.Name = in.Name
	p.GrossPrice = money.Round(in.GrossPrice)
	p.Stock = in.Stock
	p.MinimumStock = in.MinimumStock
	p.Active = in.Active
	if err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.products.FindByID(ctx, id); err != nil {
		return err
	}
	return s.products.Delete(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Product, error) {
	return s.products.FindByID(ctx, id)
}

// List returns a page of products, optionally filtered by the active flag.
func (s *Service) List(ctx context.Context, active *bool, req page.Request) (page.Page[Product], error) {
	return s.products.List(ctx, active, req)
}

// AuditLowStock logs every product whose stock fell under its minimum
// threshold and returns them. It mutates nothing; alerting on the log output
// is the caller's concern.
func (s *Service) AuditLowStock(ctx context.Context) ([]Product, error) {
	low, err := s.products.FindBelowMinimum(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range low {
		slog.WarnContext(ctx, "restock needed",
			"sku", p.SKU,
			"stock", p.Stock,
			"minimum", p.MinimumStock,
		)
	}
	return low, nil
}

func validate(in Input) error {
	if in.SKU == "" {
		return apperr.Business("SKU is required")
	}
	if in.GrossPrice.IsNegative() {
		return apperr.Business("gross price must not be negative")
	}
	if in.Stock < 0 {
		return apperr.Business("stock must not be negative")
	}
	if in.MinimumStock < 0 {
		return apperr.Business("minimum stock must not be negative")
	}
	return nil
}
