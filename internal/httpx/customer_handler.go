package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/jcmexdev/backoffice/internal/customer"
)

// CustomerHandler exposes customer management over HTTP.
type CustomerHandler struct {
	service *customer.Service
}

func NewCustomerHandler(service *customer.Service) *CustomerHandler {
	return &CustomerHandler{service: service}
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeCustomer(w, r)
	if !ok {
		return
	}

	c, err := h.service.Create(r.Context(), in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapCustomer(c))
}

func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "id must be numeric")
		return
	}
	in, ok := decodeCustomer(w, r)
	if !ok {
		return
	}

	c, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCustomer(c))
}

func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "id must be numeric")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "id must be numeric")
		return
	}
	c, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCustomer(c))
}

func (h *CustomerHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	res, err := h.service.Search(r.Context(), q, pageRequest(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapPage(res, mapCustomer))
}

func decodeCustomer(w http.ResponseWriter, r *http.Request) (customer.Input, bool) {
	var req CustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return customer.Input{}, false
	}
	if req.Name == "" || req.Email == "" || req.TaxID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name, email and tax_id are required")
		return customer.Input{}, false
	}
	return customer.Input{
		Name:  req.Name,
		Email: req.Email,
		TaxID: req.TaxID,
		Address: customer.Address{
			Street:       req.Address.Street,
			Number:       req.Address.Number,
			Complement:   req.Address.Complement,
			Neighborhood: req.Address.Neighborhood,
			City:         req.Address.City,
			Region:       req.Address.Region,
			PostalCode:   req.Address.PostalCode,
		},
	}, true
}
