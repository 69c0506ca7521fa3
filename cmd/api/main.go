package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/go-cake-orders.git/internal/config"
	"github.com/ariefcatur/go-cake-orders.git/internal/httpx"
	kafkax "github.com/ariefcatur/go-cake-orders.git/internal/kafka"
	"github.com/ariefcatur/go-cake-orders.git/internal/metrics"
	"github.com/ariefcatur/go-cake-orders.git/internal/orders"
	"github.com/ariefcatur/go-cake-orders.git/internal/redisx"
	"github.com/ariefcatur/go-cake-orders.git/internal/session"
	"github.com/ariefcatur/go-cake-orders.git/internal/wizard"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("config", "err", err)
		os.Exit(1)
	}
	log = log.With("service", cfg.ServiceName)

	// Session store
	var store session.Store = session.NewMemoryStore(cfg.SessionTTL)
	if cfg.RedisAddr != "" {
		rdb := redisx.New(cfg.RedisAddr)
		defer rdb.Close()
		store = session.NewRedisStore(rdb, cfg.SessionTTL)
		log.Info("session store: redis", "addr", cfg.RedisAddr)
	}

	// Confirmation publisher
	var (
		pub  wizard.Publisher = wizard.LogPublisher{Log: log}
		prod *kafkax.Producer
	)
	if len(cfg.KafkaBrokers) > 0 {
		prod = kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderConfirmed, 1024, log)
		prod.Start()
		pub = wizard.KafkaPublisher{Producer: prod}
		log.Info("publisher: kafka", "brokers", cfg.KafkaBrokers, "topic", orders.TopicOrderConfirmed)
	}

	m := metrics.New(cfg.ServiceName)
	svc := wizard.NewService(
		store,
		orders.NewFormatter(cfg.MessagingHost, cfg.BusinessHandle, cfg.CurrencyPrefix),
		cfg.ReviewHost,
		pub, m, log, cfg.ServiceName,
	)

	router := httpx.NewRouter(m)
	(&httpx.WizardHandler{Wizard: svc, Log: log}).Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router, ReadHeaderTimeout: 5 * time.Second}

	// graceful shutdown
	go func() {
		log.Info("HTTP listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("listen", "err", err)
			os.Exit(1)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("http shutdown", "err", err)
	}
	if prod != nil {
		prod.Close()      // tutup inbox -> flush & close writer
		prod.WaitClosed() // drain
	}
}
