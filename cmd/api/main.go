package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "hotel_saas/internal/adapters/http_server"
	"hotel_saas/internal/adapters/observability"
	redisad "hotel_saas/internal/adapters/redis"
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

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(cfg.DBConnMaxLifetime)
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()
	if err := cache.Ping(ctx); err != nil {
		// reads fall through to MySQL while Redis is down
		log.Warn().Err(err).Msg("redis ping failed")
	}

	// deps
	admins := mysqlrepo.NewAdminUsers(db)
	ttl := cfg.CacheTTL
	h := &server.Handlers{
		Auth:      app.NewAuthService(admins, cfg.JWTSecret, cfg.JWTTTL),
		Admins:    app.NewAdmins(admins),
		Tenants:   app.NewRecords[domain.Tenant]("tenants", mysqlrepo.NewTenants(db), cache, ttl),
		Dashboard: app.NewDashboardService(mysqlrepo.NewStats(db), cache, ttl),

		Rooms:      app.NewEntities[domain.Room]("rooms", mysqlrepo.NewScoped[domain.Room](db, mysqlrepo.Rooms), cache, ttl),
		Facilities: app.NewEntities[domain.Facility]("facilities", mysqlrepo.NewScoped[domain.Facility](db, mysqlrepo.Facilities), cache, ttl),
		Services:   app.NewEntities[domain.Service]("services", mysqlrepo.NewScoped[domain.Service](db, mysqlrepo.Services), cache, ttl),
		Customers:  app.NewEntities[domain.Customer]("customers", mysqlrepo.NewScoped[domain.Customer](db, mysqlrepo.Customers), cache, ttl),
		Bookings:   app.NewEntities[domain.Booking]("bookings", mysqlrepo.NewScoped[domain.Booking](db, mysqlrepo.Bookings), cache, ttl),
		Vouchers:   app.NewEntities[domain.Voucher]("vouchers", mysqlrepo.NewScoped[domain.Voucher](db, mysqlrepo.Vouchers), cache, ttl),
		Promotions: app.NewEntities[domain.Promotion]("promotions", mysqlrepo.NewScoped[domain.Promotion](db, mysqlrepo.Promotions), cache, ttl),
	}

	// http
	srv := server.New(cfg.RequestTimeout)
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(h)
	observability.Serve(cfg.MetricsAddr, observability.MetricsHandler(reg))

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout+5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
