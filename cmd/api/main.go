package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/donmendez/go-retail-store/internal/catalog"
	"github.com/donmendez/go-retail-store/internal/config"
	"github.com/donmendez/go-retail-store/internal/feed"
	"github.com/donmendez/go-retail-store/internal/httpx"
	"github.com/donmendez/go-retail-store/internal/orders"
	"github.com/donmendez/go-retail-store/internal/payments"
	"github.com/donmendez/go-retail-store/internal/postgres"
	"github.com/donmendez/go-retail-store/internal/redisx"
	"github.com/donmendez/go-retail-store/internal/reports"
	"github.com/donmendez/go-retail-store/internal/sales"
	"github.com/donmendez/go-retail-store/internal/settings"
	"github.com/donmendez/go-retail-store/internal/users"
)

func newLogger(cfg config.Config) *logrus.Logger {
	log := logrus.New()
	if cfg.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}
	return log
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	log := newLogger(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := postgres.Migrate(cfg.PostgresDSN); err != nil {
		log.WithError(err).Fatal("migrate")
	}

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.WithError(err).Fatal("db connect")
	}
	defer db.Close()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	disp := feed.NewKafkaDispatcher(cfg.KafkaBrokers, cfg.ServiceName, 1024)
	disp.Start(ctx)

	// repositories
	catalogRepo := &catalog.Repo{DB: db}
	ledger := &catalog.Ledger{DB: db}
	userRepo := &users.Repo{DB: db}
	orderRepo := &orders.Repo{DB: db}
	paymentRepo := &payments.Repo{DB: db}
	saleRepo := &sales.Repo{DB: db}
	settingsRepo := &settings.Repo{DB: db}

	// services
	orderSvc := orders.NewService(orderRepo, userRepo, disp)
	paymentSvc := payments.NewService(paymentRepo, orderRepo, disp)
	saleSvc := sales.NewService(saleRepo, userRepo, disp)
	reportSvc := reports.NewService(saleRepo, paymentRepo)

	router := httpx.NewRouter()
	(&httpx.CatalogHandler{Repo: catalogRepo, Ledger: ledger, Events: disp}).Register(router)
	(&httpx.OrdersHandler{Svc: orderSvc, Repo: orderRepo, Redis: rdb}).Register(router)
	(&httpx.PaymentsHandler{Svc: paymentSvc, Repo: paymentRepo}).Register(router)
	(&httpx.SalesHandler{Svc: saleSvc, Repo: saleRepo, Reports: reportSvc}).Register(router)
	(&httpx.DebtsHandler{Repo: orderRepo, Redis: rdb}).Register(router)
	(&httpx.AdminHandler{Users: userRepo, Settings: settingsRepo}).Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("HTTP listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("listen")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	_ = srv.Shutdown(shutdownCtx)
	cancel()     // stop producer loops
	disp.Close() // flush & close writers
}
