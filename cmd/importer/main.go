package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotel_saas/internal/adapters/content"
	"hotel_saas/internal/adapters/observability"
	"hotel_saas/internal/app"
	"hotel_saas/internal/domain"
	"hotel_saas/internal/shared"
	mysqlrepo "hotel_saas/internal/storage/mysql"
)

func main() {
	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.ImportTenantID <= 0 || len(cfg.ImportPropertyIDs) == 0 {
		log.Fatal().Msg("IMPORT_TENANT_ID and IMPORT_PROPERTY_IDS are required")
	}
	workers := cfg.ImportWorkers
	if workers < 1 {
		workers = 1
	}

	log.Info().
		Str("base", cfg.ContentBase).
		Int("workers", workers).
		Int64("tenant", cfg.ImportTenantID).
		Int("properties", len(cfg.ImportPropertyIDs)).
		Msg("importer starting")

	observability.Serve(cfg.MetricsAddr, observability.MetricsHandler(observability.InitRegistry()))

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	db.SetMaxOpenConns(workers + 1)
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}

	tenants := mysqlrepo.NewTenants(db)
	if _, err := tenants.Get(ctx, cfg.ImportTenantID); err != nil {
		log.Fatal().Err(err).Int64("tenant", cfg.ImportTenantID).Msg("unknown tenant")
	}

	client, err := content.New(cfg.ContentBase, cfg.ContentKey, cfg.ContentRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize content client")
	}
	imp := app.NewImportService(client, mysqlrepo.NewScoped[domain.Facility](db, mysqlrepo.Facilities), "importer")

	sem := semaphore.NewWeighted(int64(workers))
	var (
		wg       sync.WaitGroup
		created  atomic.Int64
		failures atomic.Int64
	)

	for _, id := range cfg.ImportPropertyIDs {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Warn().Err(err).Msg("import interrupted")
			break
		}

		wg.Add(1)
		go func(propertyID int64) {
			defer wg.Done()
			defer sem.Release(1)

			res, err := imp.ImportProperty(ctx, cfg.ImportTenantID, propertyID)
			if err != nil {
				failures.Add(1)
				log.Warn().Int64("property", propertyID).Err(err).Msg("import failed")
				return
			}
			created.Add(int64(res.Created))
			log.Info().
				Int64("property", propertyID).
				Int("created", res.Created).
				Int("skipped", res.Skipped).
				Bool("missing", res.Missing).
				Msg("import ok")
		}(id)
	}

	wg.Wait()
	log.Info().Int64("created", created.Load()).Int64("failed", failures.Load()).Msg("import completed")
	if failures.Load() > 0 {
		os.Exit(1)
	}
}
