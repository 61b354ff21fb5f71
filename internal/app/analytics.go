package app

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/domain"
)

// AnalyticsService proxies the reporting endpoints and builds the overview.
type AnalyticsService struct {
	backend domain.Backend
	workers int64
}

func NewAnalyticsService(b domain.Backend, workers int) *AnalyticsService {
	if workers <= 0 {
		workers = 4
	}
	return &AnalyticsService{backend: b, workers: int64(workers)}
}

func (s *AnalyticsService) TopBrands(ctx context.Context, limit int) ([]domain.Row, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var env any
	if err := s.backend.Do(ctx, http.MethodGet, "/analytics/brand/top-brands", q, nil, &env); err != nil {
		return nil, fmt.Errorf("top brands: %w", err)
	}
	return mapPage(env, domain.PageQuery{Page: 1, Limit: domain.MaxLimit}).Items, nil
}

func (s *AnalyticsService) BrandPerformance(ctx context.Context, id string) (domain.Row, error) {
	return s.performance(ctx, "/analytics/brand/"+url.PathEscape(id)+"/performance")
}

func (s *AnalyticsService) CategoryPerformance(ctx context.Context, id string) (domain.Row, error) {
	return s.performance(ctx, "/analytics/category/"+url.PathEscape(id)+"/performance")
}

func (s *AnalyticsService) performance(ctx context.Context, path string) (domain.Row, error) {
	var env any
	if err := s.backend.Do(ctx, http.MethodGet, path, nil, nil, &env); err != nil {
		return nil, fmt.Errorf("performance: %w", err)
	}
	row := mapItem(env)
	if row == nil {
		row = domain.Row{}
	}
	return row, nil
}

type BrandOverview struct {
	Brand       domain.Row `json:"brand"`
	Performance domain.Row `json:"performance,omitempty"`
	Error       string     `json:"error,omitempty"`
}

type Overview struct {
	Brands []BrandOverview `json:"brands"`
	Failed int             `json:"failed"`
}

// Overview loads the top brands and each brand's performance concurrently.
// A brand whose performance fails keeps its slot with Error set.
func (s *AnalyticsService) Overview(ctx context.Context, limit int) (Overview, error) {
	brands, err := s.TopBrands(ctx, limit)
	if err != nil {
		return Overview{}, err
	}

	out := Overview{Brands: make([]BrandOverview, len(brands))}
	sem := semaphore.NewWeighted(s.workers)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for i, b := range brands {
		out.Brands[i].Brand = b
		id := b.ID("brandId")
		if id == "" {
			mu.Lock()
			out.Brands[i].Error = "brand id missing"
			out.Failed++
			mu.Unlock()
			continue
		}

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return Overview{}, err
		}
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			defer sem.Release(1)

			perf, err := s.BrandPerformance(ctx, id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Warn().Str("brand", id).Err(err).Msg("brand performance failed")
				out.Brands[i].Error = domain.UserMessage(err, "performance unavailable")
				out.Failed++
				return
			}
			out.Brands[i].Performance = perf
		}(i, id)
	}
	wg.Wait()
	return out, nil
}
