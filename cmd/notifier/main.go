package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ariefcatur/go-cake-orders.git/internal/config"
	kafkax "github.com/ariefcatur/go-cake-orders.git/internal/kafka"
	"github.com/ariefcatur/go-cake-orders.git/internal/notify"
	"github.com/ariefcatur/go-cake-orders.git/internal/orders"
	"github.com/ariefcatur/go-cake-orders.git/internal/redisx"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With("service", cfg.ServiceName+"-notifier")

	if len(cfg.KafkaBrokers) == 0 || cfg.RedisAddr == "" {
		log.Error("notifier needs KAFKA_BROKERS and REDIS_ADDR")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &notify.Service{
		Redis:       rdb,
		Sink:        notify.LogSink{Log: log},
		ServiceName: cfg.ServiceName + "-notifier",
		Log:         log,
	}

	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.NotifierGroup, orders.TopicOrderConfirmed, cfg.NotifierWorkers, log)

	done := make(chan struct{})
	go func() {
		defer close(done)
		log.Info("consumer started", "group", cfg.NotifierGroup, "topic", orders.TopicOrderConfirmed, "workers", cfg.NotifierWorkers)
		if err := cons.Start(ctx, svc.HandleOrderConfirmed); err != nil {
			log.Error("consumer exit", "err", err)
			cancel()
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	log.Info("shutting down consumer...")
	cancel()
	<-done
}
