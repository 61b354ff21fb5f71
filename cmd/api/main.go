package main

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/adapters/backend"
	server "github.com/rahuljha1155/plazasales-dashboard-sub005/internal/adapters/http_server"
	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/adapters/observability"
	redisad "github.com/rahuljha1155/plazasales-dashboard-sub005/internal/adapters/redis"
	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/app"
	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/domain"
	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/forms"
	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/shared"
	mysqlrepo "github.com/rahuljha1155/plazasales-dashboard-sub005/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogFile)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// cache
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := cache.Ping(ctx); err != nil {
		log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("redis ping failed")
	}
	cancel()
	log.Info().Msg("redis connection ok")

	// activity log is optional
	var activity domain.ActivityRepository = app.NoopActivity{}
	if cfg.MySQLDSN != "" {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		defer db.Close()
		activity = mysqlrepo.New(db)
		log.Info().Msg("database connection ok")
	} else {
		log.Warn().Msg("MYSQL_DSN is empty, activity log disabled")
	}

	be, err := backend.New(cfg.BackendBaseURL, cfg.BackendRPS, cfg.BackendTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize backend client")
	}

	// deps
	coll := app.NewCollectionService(be, cache, cfg.CacheTTL)
	sel := app.NewSelectionStore(cache, cfg.SelectionTTL)
	mut := app.NewMutationService(be, coll, sel, activity)
	scopes := app.NewContextService(cache, cfg.SelectionTTL)

	h := &server.Handlers{
		Coll:      coll,
		Mut:       mut,
		Reorder:   app.NewReorderService(mut),
		Sel:       sel,
		Analytics: app.NewAnalyticsService(be, cfg.AnalyticsWorkers),
		Scope:     scopes,
		Auth:      app.NewAuthService(be, scopes),
		Forms:     forms.NewBuilder(forms.NewValidator()),
		Activity:  activity,
	}

	// http
	srv := server.New(cfg.CORSOrigins)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(h)

	log.Info().Str("addr", cfg.HTTPAddr).Str("backend", cfg.BackendBaseURL).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 10 * time.Second}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
