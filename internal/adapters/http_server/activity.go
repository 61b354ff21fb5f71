package httpserver

import (
	"net/http"

	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/table"
)

func (h *Handlers) listActivity(w http.ResponseWriter, r *http.Request) {
	q, ok := pageQuery(w, r)
	if !ok {
		return
	}
	items, total, err := h.Activity.List(r.Context(), q.Page, q.Limit)
	if err != nil {
		writeError(w, r, err, "could not load activity")
		return
	}
	pager := table.NewPager(q.Page, q.Limit, total)
	writeCached(w, r, map[string]any{"items": items, "pagination": pager.Controls()})
}
