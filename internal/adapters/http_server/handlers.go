// internal/adapters/http_server/handlers.go
package httpserver

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/app"
	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/domain"
	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/forms"
)

type Handlers struct {
	Coll      *app.CollectionService
	Mut       *app.MutationService
	Reorder   *app.ReorderService
	Sel       *app.SelectionStore
	Analytics *app.AnalyticsService
	Scope     *app.ContextService
	Auth      *app.AuthService
	Forms     *forms.Builder
	Activity  domain.ActivityRepository

	// Now is the clock used for token expiry; nil means time.Now.
	Now func() time.Time
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/v1", func(r chi.Router) {
		r.Use(RequestContext)
		r.Use(Session(h.Now))

		r.Get("/resources", h.listResources)
		r.Route("/resources/{resource}", func(r chi.Router) {
			r.Get("/items", h.listItems)
			r.Post("/items", h.createItem)
			r.Get("/items/{id}", h.getItem)
			r.Put("/items/{id}", h.updateItem)
			r.Delete("/items/{id}", h.deleteItem)
			r.Patch("/items/{id}/status", h.setStatus)
			r.Get("/deleted", h.listDeleted)

			r.Get("/selection", h.getSelection)
			r.Post("/selection", h.changeSelection)
			r.Post("/bulk/delete", h.bulkDelete)
			r.Post("/bulk/recover", h.bulkRecover)
			r.Post("/reorder", h.reorder)
		})

		r.Get("/analytics/top-brands", h.topBrands)
		r.Get("/analytics/brands/{id}/performance", h.brandPerformance)
		r.Get("/analytics/categories/{id}/performance", h.categoryPerformance)
		r.Get("/analytics/overview", h.overview)

		r.Get("/context", h.getContext)
		r.Put("/context", h.putContext)
		r.Delete("/context", h.clearContext)

		r.Patch("/auth/change-password", h.changePassword)
		r.Delete("/auth/logout", h.logout)

		r.Post("/media/preview", h.mediaPreview)
		r.Get("/media/youtube", h.youtubeID)

		r.Get("/activity", h.listActivity)
	})
}

func (h *Handlers) resource(w http.ResponseWriter, r *http.Request) (domain.Resource, bool) {
	res, err := domain.LookupResource(chi.URLParam(r, "resource"))
	if err != nil {
		writeError(w, r, err, "")
		return domain.Resource{}, false
	}
	return res, true
}

// pageQuery reads ?parent&page&limit; page and limit must be integers when set.
func pageQuery(w http.ResponseWriter, r *http.Request) (domain.PageQuery, bool) {
	q := domain.PageQuery{Parent: r.URL.Query().Get("parent")}
	for _, p := range []struct {
		name string
		dst  *int
	}{{"page", &q.Page}, {"limit", &q.Limit}} {
		v := strings.TrimSpace(r.URL.Query().Get(p.name))
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || (p.name == "limit" && n > domain.MaxLimit) {
			writeProblem(w, http.StatusBadRequest, "Invalid "+p.name, p.name+" must be a positive integer (limit at most 100)")
			return domain.PageQuery{}, false
		}
		*p.dst = n
	}
	return q.Normalize(), true
}

func (h *Handlers) listResources(w http.ResponseWriter, r *http.Request) {
	writeCached(w, r, map[string]any{"items": domain.Resources()})
}
