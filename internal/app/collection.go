package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/adapters/observability"
	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/domain"
)

const sharedFetchTimeout = 30 * time.Second

// CollectionService is the cache-aside read side for every resource list.
// Cached pages are keyed by a per-resource generation, so one increment
// makes every cached page of that resource unreachable, whatever parent it
// was listed under.
type CollectionService struct {
	backend  domain.Backend
	cache    domain.Cache
	cacheTTL time.Duration
	sf       singleflight.Group
}

func NewCollectionService(b domain.Backend, c domain.Cache, ttl time.Duration) *CollectionService {
	return &CollectionService{backend: b, cache: c, cacheTTL: ttl}
}

func genKey(resource string) string { return "gen:" + resource }

func pageKey(resource, parent string, gen int64, q domain.PageQuery) string {
	k := fmt.Sprintf("coll:%s:%s:g%d:p%d:l%d", resource, parent, gen, q.Page, q.Limit)
	if q.Deleted {
		k += ":deleted"
	}
	return k
}

func (s *CollectionService) generation(ctx context.Context, resource string) int64 {
	var gen int64
	if _, err := s.cache.Get(ctx, genKey(resource), &gen); err != nil {
		log.Debug().Err(err).Str("resource", resource).Msg("read generation failed")
	}
	return gen
}

// List returns one page of res, from cache when the generation still matches.
func (s *CollectionService) List(ctx context.Context, res domain.Resource, q domain.PageQuery) (domain.Page, error) {
	q = q.Normalize()
	if q.Deleted && !res.SoftDelete {
		return domain.Page{}, fmt.Errorf("%w: %s has no deleted listing", domain.ErrNotSupported, res.Name)
	}

	key := pageKey(res.Name, q.Parent, s.generation(ctx, res.Name), q)
	var out domain.Page
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		observability.ObserveCache("collection", "hit")
		return out, nil
	}
	observability.ObserveCache("collection", "miss")

	// collapse identical concurrent fetches; the shared fetch outlives the
	// caller that happened to start it
	v, err, _ := s.sf.Do(key, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedFetchTimeout)
		defer cancel()
		return s.fetch(fctx, res, q)
	})
	if err != nil {
		return domain.Page{}, err
	}
	page := v.(domain.Page)

	// optional size guard
	if b, _ := json.Marshal(page); len(b) < 1_000_000 {
		if err := s.cache.Set(ctx, key, page, int(s.cacheTTL.Seconds())); err == nil {
			observability.ObserveCache("collection", "set")
		}
	}
	return copyPage(page), nil
}

func (s *CollectionService) fetch(ctx context.Context, res domain.Resource, q domain.PageQuery) (domain.Page, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(q.Page))
	query.Set("limit", strconv.Itoa(q.Limit))

	var env any
	if err := s.backend.Do(ctx, http.MethodGet, res.ListPath(q.Parent, q.Deleted), query, nil, &env); err != nil {
		return domain.Page{}, fmt.Errorf("list %s: %w", res.Name, err)
	}
	return mapPage(env, q), nil
}

// Get fetches one entity. Single items are not cached: edit forms must see
// the saved state.
func (s *CollectionService) Get(ctx context.Context, res domain.Resource, id string) (domain.Row, error) {
	var env any
	if err := s.backend.Do(ctx, http.MethodGet, res.ItemPath(id), nil, nil, &env); err != nil {
		return nil, fmt.Errorf("get %s %s: %w", res.Name, id, err)
	}
	row := mapItem(env)
	if row == nil {
		return nil, fmt.Errorf("get %s %s: %w", res.Name, id, domain.ErrNotFound)
	}
	return row, nil
}

// Invalidate drops every cached page of res. An edit does not always know
// which parent list the row sits in, so the whole resource goes.
func (s *CollectionService) Invalidate(ctx context.Context, res domain.Resource) error {
	if _, err := s.cache.Incr(ctx, genKey(res.Name)); err != nil {
		return fmt.Errorf("invalidate %s: %w", res.Name, err)
	}
	observability.ObserveCache("collection", "incr")
	return nil
}

func copyPage(in domain.Page) domain.Page {
	out := in
	if n := len(in.Items); n > 0 {
		out.Items = make([]domain.Row, n)
		copy(out.Items, in.Items)
	}
	return out
}
