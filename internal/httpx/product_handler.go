package httpx

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/jcmexdev/backoffice/internal/catalog"
)

// ProductHandler exposes catalog management over HTTP.
type ProductHandler struct {
	service *catalog.Service
}

func NewProductHandler(service *catalog.Service) *ProductHandler {
	return &ProductHandler{service: service}
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeProduct(w, r)
	if !ok {
		return
	}

	p, err := h.service.Create(r.Context(), in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapProduct(p))
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "id must be numeric")
		return
	}
	in, ok := decodeProduct(w, r)
	if !ok {
		return
	}

	p, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapProduct(p))
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "id must be numeric")
		return
	}
	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapProduct(p))
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	var active *bool
	if raw := r.URL.Query().Get("active"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "active must be a boolean")
			return
		}
		active = &v
	}

	res, err := h.service.List(r.Context(), active, pageRequest(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapPage(res, mapProduct))
}

func decodeProduct(w http.ResponseWriter, r *http.Request) (catalog.Input, bool) {
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return catalog.Input{}, false
	}
	if req.SKU == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "sku and name are required")
		return catalog.Input{}, false
	}
	return catalog.Input{
		SKU:          req.SKU,
		Name:         req.Name,
		GrossPrice:   req.GrossPrice,
		Stock:        req.Stock,
		MinimumStock: req.MinimumStock,
		Active:       req.Active,
	}, true
}
