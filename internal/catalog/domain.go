package catalog

import "github.com/shopspring/decimal"

// Product is a catalog entry. SKU is the natural key and is immutable once
// taken by another product; Stock is only ever mutated through
// Repository.AdjustStock and never goes negative.
type Product struct {
	ID           int64
	SKU          string
	Name         string
	GrossPrice   decimal.Decimal
	Stock        int
	MinimumStock int
	Active       bool
}

// BelowMinimum reports whether the product needs restocking.
func (p *Product) BelowMinimum() bool {
	return p.Stock < p.MinimumStock
}
