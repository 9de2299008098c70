package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nimasrn/ppob-gateway/internal/app"
	"github.com/nimasrn/ppob-gateway/internal/config"
	xhttp "github.com/nimasrn/ppob-gateway/pkg/http"
	"github.com/nimasrn/ppob-gateway/pkg/logger"
	"github.com/nimasrn/ppob-gateway/pkg/prom"
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
	logger.Info("starting api", "version", version, "commit", commit, "date", date)

	ctx := context.Background()
	a, err := app.Build(ctx, cfg)
	if err != nil {
		logger.Error("failed to build application", "error", err)
		return
	}
	defer func() {
		if err := a.Close(context.Background()); err != nil {
			logger.Warn("error while closing resources", "error", err)
		}
	}()

	s := a.Engine
	s.Server.ReadBufferSize = 1024 * 16
	s.Server.WriteBufferSize = 1024 * 16
	s.Use(xhttp.TimeoutMiddleware(cfg.HttpRequestTimeout))

	if cfg.AppDebugMetricsAddr != "" {
		go prom.ListenAndServer(cfg.AppDebugMetricsAddr, cfg.AppDebugMetricsURI)
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.ListenAndServe(cfg.HttpListenAddr)
	}()

	select {
	case sig := <-c:
		logger.Info("received signal, shutting down", "signal", sig.String())
		done := make(chan struct{})
		go func() {
			s.Shutdown()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(30 * time.Second):
			logger.Warn("graceful shutdown timed out")
		}
	case err := <-errCh:
		if err != nil {
			logger.Error("error in running http-server", "error", err)
		}
	}
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
