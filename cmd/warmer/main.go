package main

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/adapters/backend"
	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/adapters/observability"
	redisad "github.com/rahuljha1155/plazasales-dashboard-sub005/internal/adapters/redis"
	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/app"
	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/domain"
	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/reqctx"
	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/shared"
)

// warmer loads the first page of each configured collection into the cache so
// the dashboard's landing tables are served without a backend round trip.
func main() {
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogFile)

	log.Info().
		Str("base", cfg.BackendBaseURL).
		Int("workers", cfg.WarmWorkers).
		Strs("resources", cfg.WarmResources).
		Msg("warmer starting")

	if cfg.WarmToken == "" {
		log.Fatal().Msg("WARM_ACCESS_TOKEN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = reqctx.WithToken(ctx, cfg.WarmToken)

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()
	if err := cache.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("redis ping failed")
	}

	be, err := backend.New(cfg.BackendBaseURL, cfg.BackendRPS, cfg.BackendTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize backend client")
	}
	coll := app.NewCollectionService(be, cache, cfg.CacheTTL)

	workers := cfg.WarmWorkers
	if workers <= 0 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup
	var failed int32

	for _, name := range cfg.WarmResources {
		res, err := domain.LookupResource(name)
		if err != nil {
			log.Warn().Str("resource", name).Msg("unknown resource, skipped")
			continue
		}
		// scoped lists need a parent and cannot be warmed blind
		if res.Scoped() {
			log.Warn().Str("resource", name).Str("parent", res.Parent).Msg("scoped resource, skipped")
			continue
		}

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Error().Err(err).Msg("semaphore acquire failed")
			break
		}

		wg.Add(1)
		go func(res domain.Resource) {
			defer wg.Done()
			defer sem.Release(1)

			page, err := coll.List(ctx, res, domain.PageQuery{}.Normalize())
			if err != nil {
				atomic.AddInt32(&failed, 1)
				log.Warn().Str("resource", res.Name).Str("err_type", observability.LabelErr(err)).Err(err).Msg("warm failed")
				return
			}
			log.Info().Str("resource", res.Name).Int("rows", len(page.Items)).Int64("total", page.Total).Msg("warm ok")
		}(res)
	}

	wg.Wait()
	log.Info().Int32("failed", atomic.LoadInt32(&failed)).Msg("warming completed")
}
