package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/redis/go-redis/v9"

	"pos-system/internal/app/api"
	"pos-system/internal/app/notifier"
	"pos-system/internal/common/config"
	"pos-system/internal/common/db"
	"pos-system/internal/common/httpx"
	"pos-system/internal/common/logger"
	"pos-system/internal/common/mq"
	"pos-system/internal/domain"
	"pos-system/internal/fulfillment"
	"pos-system/internal/idempotency"
	"pos-system/internal/loadgen"
	"pos-system/internal/metrics"
	"pos-system/internal/postgres"
)

func main() {
	mode := flag.String("mode", "", "api | load-generator | notifier")
	flag.Parse()

	cfg := config.Load()
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch *mode {
	case "api":
		err = runAPI(ctx, cfg)
	case "load-generator":
		err = runGenerator(ctx, cfg)
	case "notifier":
		err = runNotifier(ctx, cfg)
	default:
		fmt.Fprintln(os.Stderr, "--mode is required: api | load-generator | notifier")
		os.Exit(2)
	}
	if err != nil {
		lg := logger.New("bootstrap")
		lg.Error("fatal", err, map[string]any{"mode": *mode})
		lg.Sync()
		os.Exit(1)
	}
}

func runAPI(ctx context.Context, cfg *config.Config) error {
	lg := logger.New("order-api")
	defer lg.Sync()

	conn, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := conn.Migrate(ctx); err != nil {
		return err
	}

	orch := newOrchestrator(conn, cfg, lg)

	// Messaging and the idempotency cache are best-effort collaborators:
	// order intake stays up without them.
	var pub api.Publisher
	mqc, err := mq.Dial(cfg.RabbitURL)
	if err != nil {
		lg.Warn("rabbitmq_unavailable", map[string]any{"error": err.Error()})
	} else {
		defer mqc.Close()
		if err := mqc.DeclareTopology(); err != nil {
			return err
		}
		pub = mqc
	}

	var guard idempotency.Guard
	if opts, err := redis.ParseURL(cfg.RedisURL); err != nil {
		lg.Warn("redis_url_invalid", map[string]any{"error": err.Error()})
	} else {
		rdb := redis.NewClient(opts)
		if err := rdb.Ping(ctx).Err(); err != nil {
			lg.Warn("redis_unavailable", map[string]any{"error": err.Error()})
		} else {
			defer rdb.Close()
			guard = idempotency.NewRedisGuard(rdb, cfg.IdempotencyTTL)
		}
	}

	met := metrics.NewFulfillment("api")
	svc := api.NewOrderService(orch, pub, met, lg)
	h := api.NewHandler(svc, guard, lg)

	lg.Info("service_started", map[string]any{"port": cfg.Port})
	return httpx.New(":"+strconv.Itoa(cfg.Port), h.Router()).Run(ctx)
}

func runGenerator(ctx context.Context, cfg *config.Config) error {
	lg := logger.New("load-generator")
	defer lg.Sync()

	conn, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := conn.Migrate(ctx); err != nil {
		return err
	}

	gen := loadgen.New(
		newOrchestrator(conn, cfg, lg),
		postgres.NewCatalog(conn.Pool),
		loadgen.Config{
			MinInterval: cfg.GeneratorMinInterval,
			MaxInterval: cfg.GeneratorMaxInterval,
		},
		lg,
	)
	return gen.Run(ctx)
}

func runNotifier(ctx context.Context, cfg *config.Config) error {
	lg := logger.New("notifier")
	defer lg.Sync()

	mqc, err := mq.Dial(cfg.RabbitURL)
	if err != nil {
		return err
	}
	defer mqc.Close()
	if err := mqc.DeclareTopology(); err != nil {
		return err
	}

	lg.Info("service_started", nil)
	return notifier.Run(ctx, mqc, lg)
}

func newOrchestrator(conn *db.Conn, cfg *config.Config, lg *logger.Logger) *fulfillment.Orchestrator {
	return fulfillment.NewOrchestrator(
		postgres.NewCoordinator(conn.Pool),
		fulfillment.Policy{
			PointsRate: cfg.PointsRate,
			Defaults:   domain.Defaults{PaymentMethod: cfg.DefaultPaymentMethod},
		},
		lg,
	)
}
