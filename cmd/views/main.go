package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/donmendez/go-retail-store/internal/config"
	"github.com/donmendez/go-retail-store/internal/feed"
	kafkax "github.com/donmendez/go-retail-store/internal/kafka"
	"github.com/donmendez/go-retail-store/internal/orders"
	"github.com/donmendez/go-retail-store/internal/postgres"
	"github.com/donmendez/go-retail-store/internal/redisx"
	"github.com/donmendez/go-retail-store/internal/views"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	log := logrus.New()
	if cfg.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.WithError(err).Fatal("db connect")
	}
	defer db.Close()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &views.Service{
		Orders:      &orders.Repo{DB: db},
		Redis:       rdb,
		ServiceName: cfg.ServiceName + "-views",
		Log:         log,
	}

	orderCons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.ViewsGroup, feed.TopicOrdersChanged, cfg.ViewsWorkers, log)
	paymentCons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.ViewsGroup, feed.TopicPaymentsChanged, cfg.ViewsWorkers, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithField("topic", feed.TopicOrdersChanged).Info("views consumer started")
		return orderCons.Start(gctx, svc.HandleOrderChanged)
	})
	g.Go(func() error {
		log.WithField("topic", feed.TopicPaymentsChanged).Info("views consumer started")
		return paymentCons.Start(gctx, svc.HandlePaymentChanged)
	})

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
		log.Info("shutting down consumers...")
		cancel()
	case <-gctx.Done():
	}

	if err := g.Wait(); err != nil {
		log.WithError(err).Error("consumer exit")
	}
}
