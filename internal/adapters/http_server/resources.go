package httpserver

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/domain"
	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/reqctx"
	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/table"
)

func (h *Handlers) listItems(w http.ResponseWriter, r *http.Request) {
	h.tableView(w, r, false)
}

func (h *Handlers) listDeleted(w http.ResponseWriter, r *http.Request) {
	h.tableView(w, r, true)
}

func (h *Handlers) tableView(w http.ResponseWriter, r *http.Request, deleted bool) {
	res, ok := h.resource(w, r)
	if !ok {
		return
	}
	q, ok := pageQuery(w, r)
	if !ok {
		return
	}
	q.Deleted = deleted

	view, err := h.view(r, res, q)
	if err != nil {
		writeError(w, r, err, "could not load "+res.Title)
		return
	}
	writeCached(w, r, view)
}

// view fetches one page and presents it with the admin's selection.
func (h *Handlers) view(r *http.Request, res domain.Resource, q domain.PageQuery) (table.View, error) {
	page, err := h.Coll.List(r.Context(), res, q)
	if err != nil {
		return table.View{}, err
	}
	// past the end: show the last page instead of an empty one
	if last := table.NewPagerPages(1, page.Limit, page.Total, page.TotalPages).TotalPages(); q.Page > last {
		q.Page = last
		if page, err = h.Coll.List(r.Context(), res, q); err != nil {
			return table.View{}, err
		}
	}
	sel, err := h.Sel.Load(r.Context(), reqctx.Session(r.Context()), res.Name, q.Parent, q.Deleted)
	if err != nil {
		return table.View{}, err
	}
	f := table.Filter{
		Column: r.URL.Query().Get("filterColumn"),
		Text:   r.URL.Query().Get("filter"),
	}
	if _, ok := res.ColumnByKey(f.Column); !ok {
		f.Column = res.FilterColumn
	}
	return table.Present(res, page, f, sel), nil
}

func (h *Handlers) getItem(w http.ResponseWriter, r *http.Request) {
	res, ok := h.resource(w, r)
	if !ok {
		return
	}
	row, err := h.Coll.Get(r.Context(), res, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err, "could not load item")
		return
	}
	writeCached(w, r, row)
}

func (h *Handlers) createItem(w http.ResponseWriter, r *http.Request) {
	res, ok := h.resource(w, r)
	if !ok {
		return
	}
	in, err := readInput(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	sub, err := h.Forms.Build(res, in, nil)
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	body, err := sub.Encode()
	if err != nil {
		writeError(w, r, err, "could not encode form")
		return
	}
	row, err := h.Mut.Create(r.Context(), res, in.Parent, body)
	if err != nil {
		writeError(w, r, err, "could not create item")
		return
	}
	writeJSON(w, http.StatusCreated, row)
}

func (h *Handlers) updateItem(w http.ResponseWriter, r *http.Request) {
	res, ok := h.resource(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	in, err := readInput(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}

	// the saved entity tells which assets a cleared preview refers to
	var saved domain.Row
	if len(res.Assets) > 0 && len(in.Remove) > 0 {
		if saved, err = h.Coll.Get(r.Context(), res, id); err != nil {
			writeError(w, r, err, "could not load item")
			return
		}
	}
	if saved == nil {
		saved = domain.Row{}
	}

	sub, err := h.Forms.Build(res, in, saved)
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	body, err := sub.Encode()
	if err != nil {
		writeError(w, r, err, "could not encode form")
		return
	}
	row, err := h.Mut.Update(r.Context(), res, id, body)
	if err != nil {
		writeError(w, r, err, "could not update item")
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (h *Handlers) deleteItem(w http.ResponseWriter, r *http.Request) {
	res, ok := h.resource(w, r)
	if !ok {
		return
	}
	if err := h.Mut.Delete(r.Context(), res, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err, "could not delete item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) setStatus(w http.ResponseWriter, r *http.Request) {
	res, ok := h.resource(w, r)
	if !ok {
		return
	}
	var req struct {
		IsActive *bool `json:"isActive"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IsActive == nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "isActive is required")
		return
	}
	row, err := h.Mut.SetStatus(r.Context(), res, chi.URLParam(r, "id"), *req.IsActive)
	if err != nil {
		writeError(w, r, err, "could not change status")
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func trimIDs(ids []string) []string {
	out := ids[:0:0]
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}
