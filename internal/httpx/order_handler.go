package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/jcmexdev/backoffice/internal/order"
)

// OrderHandler exposes the order lifecycle over HTTP.
type OrderHandler struct {
	service *order.Service
}

func NewOrderHandler(service *order.Service) *OrderHandler {
	return &OrderHandler{service: service}
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.CustomerID == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "customer_id is required")
		return
	}

	items := make([]order.LineInput, len(req.Items))
	for i, it := range req.Items {
		items[i] = order.LineInput{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Discount:  it.Discount,
		}
	}

	o, err := h.service.Create(r.Context(), order.CreateInput{
		CustomerID: req.CustomerID,
		Items:      items,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapOrder(o))
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "id must be numeric")
		return
	}
	o, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(o))
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	var status *order.Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		st, err := order.ParseStatus(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		status = &st
	}

	res, err := h.service.List(r.Context(), status, pageRequest(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapPage(res, mapOrder))
}

func (h *OrderHandler) Pay(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "id must be numeric")
		return
	}
	o, err := h.service.Pay(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(o))
}

func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "id must be numeric")
		return
	}
	o, err := h.service.Cancel(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(o))
}
