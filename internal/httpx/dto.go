package httpx

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/backoffice/internal/catalog"
	"github.com/jcmexdev/backoffice/internal/customer"
	"github.com/jcmexdev/backoffice/internal/order"
	"github.com/jcmexdev/backoffice/internal/page"
)

type AddressDTO struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	Region       string `json:"region"`
	PostalCode   string `json:"postal_code"`
}

type CustomerRequest struct {
	Name    string     `json:"name"`
	Email   string     `json:"email"`
	TaxID   string     `json:"tax_id"`
	Address AddressDTO `json:"address"`
}

type CustomerResponse struct {
	ID      int64      `json:"id"`
	Name    string     `json:"name"`
	Email   string     `json:"email"`
	TaxID   string     `json:"tax_id"`
	Address AddressDTO `json:"address"`
}

type ProductRequest struct {
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	GrossPrice   decimal.Decimal `json:"gross_price"`
	Stock        int             `json:"stock"`
	MinimumStock int             `json:"minimum_stock"`
	Active       bool            `json:"active"`
}

type ProductResponse struct {
	ID           int64           `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	GrossPrice   decimal.Decimal `json:"gross_price"`
	Stock        int             `json:"stock"`
	MinimumStock int             `json:"minimum_stock"`
	Active       bool            `json:"active"`
}

type CreateOrderRequest struct {
	CustomerID int64              `json:"customer_id"`
	Items      []OrderItemRequest `json:"items"`
}

type OrderItemRequest struct {
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Discount  decimal.Decimal `json:"discount"`
}

type OrderResponse struct {
	ID          int64               `json:"id"`
	Reference   string              `json:"reference"`
	CustomerID  int64               `json:"customer_id"`
	Status      string              `json:"status"`
	Subtotal    decimal.Decimal     `json:"subtotal"`
	Discounts   decimal.Decimal     `json:"discounts"`
	Total       decimal.Decimal     `json:"total"`
	CreatedAt   time.Time           `json:"created_at"`
	PaidAt      *time.Time          `json:"paid_at,omitempty"`
	CancelledAt *time.Time          `json:"cancelled_at,omitempty"`
	Items       []OrderItemResponse `json:"items"`
}

type OrderItemResponse struct {
	ProductID   int64           `json:"product_id"`
	SKU         string          `json:"sku"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

type PageResponse[T any] struct {
	Items []T   `json:"items"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
	Total int64 `json:"total"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func mapCustomer(c *customer.Customer) CustomerResponse {
	return CustomerResponse{
		ID:    c.ID,
		Name:  c.Name,
		Email: c.Email,
		TaxID: c.TaxID,
		Address: AddressDTO{
			Street:       c.Address.Street,
			Number:       c.Address.Number,
			Complement:   c.Address.Complement,
			Neighborhood: c.Address.Neighborhood,
			City:         c.Address.City,
			Region:       c.Address.Region,
			PostalCode:   c.Address.PostalCode,
		},
	}
}

func mapProduct(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		SKU:          p.SKU,
		Name:         p.Name,
		GrossPrice:   p.GrossPrice,
		Stock:        p.Stock,
		MinimumStock: p.MinimumStock,
		Active:       p.Active,
	}
}

func mapOrder(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = OrderItemResponse{
			ProductID:   it.ProductID,
			SKU:         it.SKU,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Discount:    it.Discount,
			LineTotal:   it.LineTotal,
		}
	}
	return OrderResponse{
		ID:          o.ID,
		Reference:   o.Reference,
		CustomerID:  o.CustomerID,
		Status:      string(o.Status),
		Subtotal:    o.Subtotal,
		Discounts:   o.Discounts,
		Total:       o.Total,
		CreatedAt:   o.CreatedAt,
		PaidAt:      o.PaidAt,
		CancelledAt: o.CancelledAt,
		Items:       items,
	}
}

func mapPage[T any, R any](p page.Page[T], f func(*T) R) PageResponse[R] {
	items := make([]R, len(p.Items))
	for i := range p.Items {
		items[i] = f(&p.Items[i])
	}
	return PageResponse[R]{Items: items, Page: p.Number, Size: p.Size, Total: p.Total}
}
