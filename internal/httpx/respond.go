package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/backoffice/internal/apperr"
	"github.com/jcmexdev/backoffice/internal/page"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}

// respondError maps domain errors to their response category: 404 for a
// missing resource, 422 for a business-rule rejection, 500 otherwise.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case apperr.IsNotFound(err):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case apperr.IsBusiness(err):
		writeError(w, http.StatusUnprocessableEntity, "business_rule_violation", err.Error())
	default:
		slog.ErrorContext(r.Context(), "unexpected error", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "unexpected error")
	}
}

// pathID parses the {id} path parameter.
func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// pageRequest reads the page/size query parameters. Absent or malformed
// values fall back to the defaults via Normalized.
func pageRequest(r *http.Request) page.Request {
	number, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	return page.Request{Number: number, Size: size}.Normalized()
}
