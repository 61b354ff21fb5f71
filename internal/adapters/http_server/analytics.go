package httpserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func limitParam(r *http.Request, def int) int {
	if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && n > 0 && n <= 100 {
		return n
	}
	return def
}

func (h *Handlers) topBrands(w http.ResponseWriter, r *http.Request) {
	out, err := h.Analytics.TopBrands(r.Context(), limitParam(r, 10))
	if err != nil {
		writeError(w, r, err, "analytics unavailable")
		return
	}
	writeCached(w, r, map[string]any{"items": out})
}

func (h *Handlers) brandPerformance(w http.ResponseWriter, r *http.Request) {
	out, err := h.Analytics.BrandPerformance(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err, "analytics unavailable")
		return
	}
	writeCached(w, r, out)
}

func (h *Handlers) categoryPerformance(w http.ResponseWriter, r *http.Request) {
	out, err := h.Analytics.CategoryPerformance(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err, "analytics unavailable")
		return
	}
	writeCached(w, r, out)
}

func (h *Handlers) overview(w http.ResponseWriter, r *http.Request) {
	out, err := h.Analytics.Overview(r.Context(), limitParam(r, 5))
	if err != nil {
		writeError(w, r, err, "analytics unavailable")
		return
	}
	writeCached(w, r, out)
}
