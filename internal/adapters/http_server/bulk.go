package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/app"
	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/domain"
	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/reqctx"
)

func decodeBody(r *http.Request, dst any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody)).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (h *Handlers) getSelection(w http.ResponseWriter, r *http.Request) {
	res, ok := h.resource(w, r)
	if !ok {
		return
	}
	parent := r.URL.Query().Get("parent")
	sel, err := h.Sel.Load(r.Context(), reqctx.Session(r.Context()), res.Name, parent, deletedListing(r))
	if err != nil {
		writeError(w, r, err, "could not load selection")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ids": sel.IDs(), "count": sel.Len()})
}

func (h *Handlers) changeSelection(w http.ResponseWriter, r *http.Request) {
	res, ok := h.resource(w, r)
	if !ok {
		return
	}
	var req struct {
		Op  app.SelectionOp `json:"op"`
		IDs []string        `json:"ids"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	parent := r.URL.Query().Get("parent")
	sel, err := h.Sel.Apply(r.Context(), reqctx.Session(r.Context()), res.Name, parent, deletedListing(r), req.Op, trimIDs(req.IDs))
	if err != nil {
		writeError(w, r, err, "could not change selection")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ids": sel.IDs(), "count": sel.Len()})
}

// deletedListing reports whether a selection request targets the
// deleted-items table (?deleted=true).
func deletedListing(r *http.Request) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get("deleted"))
	return v
}

type bulkRequest struct {
	IDs     []string `json:"ids"`
	Confirm bool     `json:"confirm"`
}

func (h *Handlers) bulkDelete(w http.ResponseWriter, r *http.Request) {
	h.bulk(w, r, app.BulkDelete)
}

func (h *Handlers) bulkRecover(w http.ResponseWriter, r *http.Request) {
	h.bulk(w, r, app.BulkRecover)
}

// bulk applies action to the posted ids, or to the stored selection when none
// are posted, then answers with the refetched table.
func (h *Handlers) bulk(w http.ResponseWriter, r *http.Request, action app.BulkAction) {
	res, ok := h.resource(w, r)
	if !ok {
		return
	}
	q, ok := pageQuery(w, r)
	if !ok {
		return
	}
	var req bulkRequest
	if err := decodeBody(r, &req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}

	// recover works on the deleted-items table, delete on the live one
	q.Deleted = action == app.BulkRecover

	ids := trimIDs(req.IDs)
	if len(ids) == 0 {
		sel, err := h.Sel.Load(r.Context(), reqctx.Session(r.Context()), res.Name, q.Parent, q.Deleted)
		if err != nil {
			writeError(w, r, err, "could not load selection")
			return
		}
		ids = sel.IDs()
	}
	if len(ids) == 0 {
		writeError(w, r, domain.ErrEmptySelection, "")
		return
	}
	if action == app.BulkDelete && !req.Confirm {
		writeError(w, r, domain.ErrConfirmRequired, "")
		return
	}

	if err := h.Mut.Bulk(r.Context(), res, q.Parent, action, ids); err != nil {
		writeError(w, r, err, "bulk action failed")
		return
	}

	// the acted-on listing is refetched
	view, err := h.view(r, res, q)
	if err != nil {
		writeError(w, r, err, "could not reload "+res.Title)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"affected": len(ids), "view": view})
}

func (h *Handlers) reorder(w http.ResponseWriter, r *http.Request) {
	res, ok := h.resource(w, r)
	if !ok {
		return
	}
	var req struct {
		From   *int   `json:"from"`
		To     *int   `json:"to"`
		Page   int    `json:"page"`
		Limit  int    `json:"limit"`
		Parent string `json:"parent"`
	}
	if err := decodeBody(r, &req); err != nil || req.From == nil || req.To == nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "from and to are required")
		return
	}
	q := domain.PageQuery{Parent: req.Parent, Page: req.Page, Limit: req.Limit}
	out, err := h.Reorder.Move(r.Context(), res, q, *req.From, *req.To)
	if err != nil {
		p := problemFor(err, "could not save the new order")
		if out.RolledBack {
			p.Rollback = out.Items
		}
		if p.Status >= 500 {
			log.Error().Err(err).Str("resource", res.Name).Msg("reorder failed")
		}
		writeProblemBody(w, p)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
