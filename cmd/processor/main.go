package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/nimasrn/ppob-gateway/internal/app"
	"github.com/nimasrn/ppob-gateway/internal/config"
	"github.com/nimasrn/ppob-gateway/internal/processor"
	"github.com/nimasrn/ppob-gateway/internal/services"
	"github.com/nimasrn/ppob-gateway/pkg/logger"
	"github.com/nimasrn/ppob-gateway/pkg/prom"
	"github.com/nimasrn/ppob-gateway/pkg/redis"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	defer logger.Sync()

	err := config.Load(argContainsEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}
	cfg := config.Get()
	logger.Info("starting processor", "version", version, "commit", commit, "date", date)

	if cfg.CheckEventsStream == "" {
		logger.Error("CHECK_EVENTS_STREAM is not set, nothing to consume")
		return
	}

	ctx := context.Background()
	st, err := app.OpenStorage(ctx, cfg)
	if err != nil {
		logger.Error("failed connecting to storage", "error", err)
		return
	}
	defer st.Close(context.Background())

	redisAdap, err := redis.NewRedisAdapter("default", cfg.RedisUniversalKeyPrefix, &redis.Options{
		Addrs:      []string{cfg.RedisAddr},
		ClientName: cfg.AppName + "-processor",
		DB:         cfg.RedisDatabase,
		Username:   cfg.RedisUsername,
		Password:   cfg.RedisPassword,
	})
	if err != nil {
		logger.Error("failed connecting to redis", "error", err)
		return
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	if err := prom.Create(hostname, cfg.AppEnv, cfg.PromNamespace); err != nil {
		logger.Error("failed to create prometheus metrics", "error", err)
		return
	}
	if cfg.AppDebugMetricsAddr != "" {
		go prom.ListenAndServer(cfg.AppDebugMetricsAddr, cfg.AppDebugMetricsURI)
	}

	idemCfg := processor.DefaultIdempotencyConfig()
	idemCfg.MaxRetries = cfg.QueueMaxRetries
	recorder := processor.NewCheckRecorder(
		services.NewTransactionService(st.Transactions, cfg.Location()),
		processor.NewIdempotencyService(redisAdap, idemCfg),
	)

	qc := app.QueueConfig(cfg)
	if qc.ConsumerName == "" {
		qc.ConsumerName = hostname
	}
	service, err := processor.NewProcessorService(redisAdap, recorder, processor.Config{
		Queue:      qc,
		Consumers:  2,
		Workers:    cfg.ProcessorWorkers,
		BufferSize: cfg.ProcessorBufferSize,
	})
	if err != nil {
		logger.Error("failed to create the processor", "error", err)
		return
	}
	if err := service.Start(); err != nil {
		logger.Error("failed to start processor", "error", err)
		service.Stop()
		return
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	sig := <-c
	logger.Info("received signal, shutting down", "signal", sig.String())
	service.Stop()
}

func argContainsEnvPath() string {
	for _, v := range os.Args {
		if strings.HasPrefix(v, "--env=") {
			path := strings.TrimPrefix(v, "--env=")
			if _, err := os.Stat(path); err != nil {
				logger.Error("failed to open the passed env file", "path", path, "error", err)
				return ""
			}
			return path
		}
	}
	return ""
}
