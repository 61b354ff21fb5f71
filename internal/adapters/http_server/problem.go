package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/domain"
	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/forms"
)

type problem struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
	// Rollback is the order to restore after a failed reorder.
	Rollback []domain.Row `json:"rollback,omitempty"`
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	writeProblemBody(w, problem{Title: title, Status: status, Detail: detail})
}

func writeProblemBody(w http.ResponseWriter, p problem) {
	if p.Type == "" {
		p.Type = "about:blank"
	}
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// problemFor maps an error to the response the dashboard shows. Backend
// messages are passed through; otherwise fallback is used.
func problemFor(err error, fallback string) problem {
	p := problem{Status: http.StatusInternalServerError, Title: "Internal Server Error", Detail: fallback}

	var ve *forms.ValidationError
	var re *domain.RemoteError
	switch {
	case errors.As(err, &ve):
		p.Status, p.Title, p.Detail, p.Errors = http.StatusUnprocessableEntity, "Validation Failed", "some fields are invalid", ve.Fields
		return p
	case errors.Is(err, domain.ErrValidation):
		p.Status, p.Title = http.StatusUnprocessableEntity, "Validation Failed"
		p.Detail = err.Error()
		return p
	case errors.Is(err, domain.ErrEmptySelection):
		p.Status, p.Title = http.StatusBadRequest, "Empty Selection"
		p.Detail = "select at least one item"
		return p
	case errors.Is(err, domain.ErrConfirmRequired):
		p.Status, p.Title = http.StatusPreconditionRequired, "Confirmation Required"
		p.Detail = "confirm the action before it is applied"
		return p
	case errors.Is(err, domain.ErrUnknownResource):
		p.Status, p.Title = http.StatusNotFound, "Unknown Resource"
		p.Detail = err.Error()
		return p
	case errors.Is(err, domain.ErrNotSupported):
		p.Status, p.Title = http.StatusMethodNotAllowed, "Not Supported"
		p.Detail = err.Error()
		return p
	case errors.Is(err, domain.ErrNotFound):
		p.Status, p.Title = http.StatusNotFound, "Not Found"
	case errors.Is(err, domain.ErrUnauthorized):
		p.Status, p.Title = http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		p.Status, p.Title = http.StatusForbidden, "Forbidden"
	case errors.Is(err, domain.ErrConflict):
		p.Status, p.Title = http.StatusConflict, "Conflict"
	case errors.Is(err, context.DeadlineExceeded):
		p.Status, p.Title = http.StatusGatewayTimeout, "Gateway Timeout"
	case errors.As(err, &re):
		if re.Status >= 400 && re.Status < 500 {
			p.Status, p.Title = re.Status, http.StatusText(re.Status)
		} else {
			p.Status, p.Title = http.StatusBadGateway, "Bad Gateway"
		}
	}
	p.Detail = domain.UserMessage(err, fallback)
	return p
}

func writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	p := problemFor(err, fallback)
	if p.Status >= 500 {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	writeProblemBody(w, p)
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		// Log but don't fail the whole response; return empty ETag and best-effort body.
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeCached writes v with a weak ETag, or 304 when the client has it.
func writeCached(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	// If client already has this version, short-circuit.
	if inm := r.Header.Get("If-None-Match"); inm != "" && etag != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}
	if etag != "" {
		w.Header().Set("ETag", etag)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write cached body")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}
