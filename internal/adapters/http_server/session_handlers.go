package httpserver

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/app"
	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/forms"
	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/reqctx"
)

func (h *Handlers) getContext(w http.ResponseWriter, r *http.Request) {
	sc, err := h.Scope.Get(r.Context(), reqctx.Session(r.Context()))
	if err != nil {
		writeError(w, r, err, "could not load context")
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

func (h *Handlers) putContext(w http.ResponseWriter, r *http.Request) {
	var next app.Scope
	if err := decodeBody(r, &next); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	sc, err := h.Scope.Set(r.Context(), reqctx.Session(r.Context()), next)
	if err != nil {
		writeError(w, r, err, "could not save context")
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

func (h *Handlers) clearContext(w http.ResponseWriter, r *http.Request) {
	if err := h.Scope.Clear(r.Context(), reqctx.Session(r.Context())); err != nil {
		writeError(w, r, err, "could not clear context")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) changePassword(w http.ResponseWriter, r *http.Request) {
	in, err := readInput(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	var f forms.ChangePasswordForm
	if err := h.Forms.Decode(in.Data, &f); err != nil {
		writeError(w, r, err, "")
		return
	}
	if err := h.Auth.ChangePassword(r.Context(), f.CurrentPassword, f.NewPassword); err != nil {
		writeError(w, r, err, "could not change password")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Auth.Logout(r.Context(), reqctx.Session(r.Context())); err != nil {
		// the local session state is gone either way
		log.Warn().Err(err).Msg("backend logout failed")
	}
	http.SetCookie(w, &http.Cookie{Name: "accessToken", Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	w.WriteHeader(http.StatusNoContent)
}
