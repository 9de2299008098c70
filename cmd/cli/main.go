package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/nimasrn/ppob-gateway/internal/app"
	"github.com/nimasrn/ppob-gateway/internal/config"
	"github.com/nimasrn/ppob-gateway/internal/services"
	"github.com/nimasrn/ppob-gateway/pkg/logger"
	"github.com/nimasrn/ppob-gateway/pkg/pg"
)

// main.go --env=.env --dir=./migrations [--seed-admin]
func main() {
	defer logger.Sync()

	err := config.Load(getEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Get()

	if cfg.StorageDriver == config.StoragePostgres {
		if err := pg.Migrate(app.PostgresWriteConfig(cfg), getMigrationPath()); err != nil {
			logger.Error("migration: error running migrations", "error", err)
			os.Exit(1)
		}
	} else {
		logger.Info("migration: skipped, storage driver has no schema", "driver", cfg.StorageDriver)
	}

	if hasFlag("--seed-admin") {
		if err := seedAdmin(cfg); err != nil {
			logger.Error("seed: failed to create default admin", "error", err)
			os.Exit(1)
		}
	}
}

// seedAdmin opens the configured storage, which also creates the mongo
// indexes, and makes sure the default admin exists.
func seedAdmin(cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	st, err := app.OpenStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	auth := services.NewAuthService(st.Admins, cfg.AdminDefaultUsername, cfg.AdminDefaultPassword)
	if err := auth.EnsureDefaultAdmin(ctx); err != nil {
		return err
	}
	logger.Info("seed: default admin is present", "username", cfg.AdminDefaultUsername)
	return nil
}

func hasFlag(name string) bool {
	for _, v := range os.Args[1:] {
		if v == name {
			return true
		}
	}
	return false
}

func flagValue(name string) (string, bool) {
	for _, v := range os.Args[1:] {
		if strings.HasPrefix(v, name+"=") {
			return strings.TrimPrefix(v, name+"="), true
		}
	}
	return "", false
}

func getEnvPath() string {
	path, ok := flagValue("--env")
	if !ok {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		if ok {
			logger.Error("failed to open the passed env file", "path", path, "error", err)
		}
		return ""
	}
	return path
}

func getMigrationPath() string {
	path, ok := flagValue("--dir")
	if !ok {
		path = "./migrations"
	}
	if _, err := os.Stat(path); err != nil {
		logger.Error("failed to open the migrations directory", "path", path, "error", err)
		return ""
	}
	return path
}
