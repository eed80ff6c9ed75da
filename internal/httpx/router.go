package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(customers *CustomerHandler, products *ProductHandler, orders *OrderHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/customers", func(r chi.Router) {
			r.Post("/", customers.Create)
			r.Get("/", customers.Search)
			r.Get("/{id}", customers.Get)
			r.Put("/{id}", customers.Update)
			r.Delete("/{id}", customers.Delete)
		})

		r.Route("/products", func(r chi.Router) {
			r.Post("/", products.Create)
			r.Get("/", products.List)
			r.Get("/{id}", products.Get)
			r.Put("/{id}", products.Update)
			r.Delete("/{id}", products.Delete)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", orders.Create)
			r.Get("/", orders.List)
			r.Get("/{id}", orders.Get)
			r.Post("/{id}/pay", orders.Pay)
			r.Post("/{id}/cancel", orders.Cancel)
		})
	})

	return r
}
