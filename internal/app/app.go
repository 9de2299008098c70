// Package app wires configuration, storage, services and handlers into one
// fasthttp engine shared by the standalone server and the serverless
// functions.
package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/nimasrn/ppob-gateway/internal/config"
	gateway "github.com/nimasrn/ppob-gateway/internal/gateways"
	"github.com/nimasrn/ppob-gateway/internal/handlers"
	"github.com/nimasrn/ppob-gateway/internal/queue"
	"github.com/nimasrn/ppob-gateway/internal/services"
	xhttp "github.com/nimasrn/ppob-gateway/pkg/http"
	"github.com/nimasrn/ppob-gateway/pkg/logger"
	"github.com/nimasrn/ppob-gateway/pkg/prom"
	"github.com/nimasrn/ppob-gateway/pkg/redis"
)

const (
	APIPrefix   = "/api"
	seedTimeout = 10 * time.Second
)

type App struct {
	Config       *config.Config
	Engine       *xhttp.Engine
	Storage      *Storage
	Transactions *services.TransactionService

	closers []func(ctx context.Context) error
}

// Build connects storage, seeds the default admin and registers every
// route under /api. Nothing is served yet.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	st, err := OpenStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a := Assemble(ctx, cfg, st)
	a.closers = append([]func(context.Context) error{st.Close}, a.closers...)
	return a, nil
}

// Assemble builds the application on top of already opened storage.
func Assemble(ctx context.Context, cfg *config.Config, st *Storage) *App {
	a := &App{Config: cfg, Storage: st}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	if err := prom.Create(hostname, cfg.AppEnv, cfg.PromNamespace); err != nil {
		logger.Warn("failed to register prometheus metrics", "error", err)
	}

	loc := cfg.Location()
	authService := services.NewAuthService(st.Admins, cfg.AdminDefaultUsername, cfg.AdminDefaultPassword)
	seedCtx, cancel := context.WithTimeout(ctx, seedTimeout)
	err = authService.EnsureDefaultAdmin(seedCtx)
	cancel()
	if err != nil {
		// login seeds again on demand
		logger.Warn("failed to seed default admin", "error", err)
	}

	a.Transactions = services.NewTransactionService(st.Transactions, loc)
	customerService := services.NewPLNCustomerService(st.PLNCustomers)

	source, stats := a.billCheckSource(cfg, st)
	publisher := a.checkEventPublisher(ctx, cfg)
	billCheckService := services.NewBillCheckService(source, publisher)
	healthService := services.NewHealthService(st, stats)

	handlers.ExposeErrors(cfg.IsDevelopment())

	s := xhttp.NewServer(xhttp.DefaultServerOption)
	s.Router = xhttp.CreateDefaultRouter()
	s.Use(xhttp.CORSMiddleware)
	s.Use(xhttp.RecoverMiddleware)
	s.Use(xhttp.RequestLoggerMiddleware)

	g := s.Router.Group(APIPrefix)
	handlers.RegisterAuthRoutes(g, handlers.NewAuthHandler(authService))
	handlers.RegisterTransactionRoutes(g, handlers.NewTransactionHandler(a.Transactions))
	handlers.RegisterBillCheckRoutes(g, handlers.NewBillCheckHandler(billCheckService))
	handlers.RegisterReceiptRoutes(g, handlers.NewReceiptHandler(loc))
	handlers.RegisterPLNCustomerRoutes(g, handlers.NewPLNCustomerHandler(customerService))
	handlers.RegisterHealthRoutes(g, handlers.NewHealthHandler(healthService))
	a.Engine = s

	logger.Info("application built",
		"env", cfg.AppEnv,
		"storage", cfg.StorageDriver,
		"billcheck_source", billCheckService.SourceName(),
		"check_events", publisher != nil)
	return a
}

// billCheckSource returns the upstream for the configured mode. stats is
// nil in ledger mode.
func (a *App) billCheckSource(cfg *config.Config, st *Storage) (services.Source, services.ProviderStatsReporter) {
	gc := gateway.Config{Timeout: cfg.BillCheckTimeout}
	switch cfg.BillCheckMode {
	case config.BillCheckModeLedger:
		return services.NewLedgerSource(st.PLNCustomers), nil
	case config.BillCheckModeAPI:
		gc.Mode, gc.URL, gc.APIKey = gateway.ModeAPI, cfg.BillCheckAPIURL, cfg.BillCheckAPIKey
	default:
		gc.Mode, gc.URL = gateway.ModeScraper, cfg.BillCheckScraperURL
	}

	client := gateway.NewClient(gc)
	a.closers = append(a.closers, func(context.Context) error { return client.Close() })
	return client, client
}

// checkEventPublisher returns nil when events are disabled or redis is
// unreachable; checks never fail because of the stream.
func (a *App) checkEventPublisher(ctx context.Context, cfg *config.Config) services.EventPublisher {
	if cfg.CheckEventsStream == "" {
		return nil
	}
	if cfg.RedisAddr == "" {
		logger.Warn("CHECK_EVENTS_STREAM is set without REDIS_ADDR, events are disabled")
		return nil
	}

	adapter, err := redis.NewRedisAdapter("default", cfg.RedisUniversalKeyPrefix, &redis.Options{
		Addrs:      []string{cfg.RedisAddr},
		ClientName: cfg.AppName,
		DB:         cfg.RedisDatabase,
		Username:   cfg.RedisUsername,
		Password:   cfg.RedisPassword,
	})
	if err != nil {
		logger.Error("failed connecting to redis, check events are disabled", "error", err)
		return nil
	}

	q, err := queue.NewQueue(adapter, QueueConfig(cfg))
	if err != nil {
		logger.Error("failed creating check event stream", "error", err)
		return nil
	}
	return q
}

// QueueConfig maps the QUEUE_* settings onto the check-event stream.
func QueueConfig(cfg *config.Config) queue.QueueConfig {
	return queue.QueueConfig{
		Name:              cfg.CheckEventsStream,
		ConsumerGroup:     cfg.QueueConsumerGroup,
		ConsumerName:      cfg.QueueConsumerName,
		MaxRetries:        cfg.QueueMaxRetries,
		VisibilityTimeout: cfg.QueueVisibilityTimeout,
		PollInterval:      cfg.QueuePollInterval,
		BatchSize:         cfg.QueueBatchSize,
		MaxLen:            cfg.QueueMaxLen,
		EnableDLQ:         cfg.QueueEnableDLQ,
	}
}

func (a *App) Handler() xhttp.RequestHandler {
	return a.Engine.Handler()
}

// Close releases everything Build opened, last opened first.
func (a *App) Close(ctx context.Context) error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}

var (
	sharedLock sync.Mutex
	shared     *App
)

// Get builds the process wide App from the environment on first use. A
// failed build is retried by the next call.
func Get() (*App, error) {
	sharedLock.Lock()
	defer sharedLock.Unlock()

	if shared != nil {
		return shared, nil
	}
	cfg, err := config.FromEnviron()
	if err != nil {
		return nil, err
	}
	config.Set(cfg)
	a, err := Build(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	shared = a
	return shared, nil
}

// ServeHTTP is the net/http entry point of the serverless functions.
func ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a, err := Get()
	if err != nil {
		logger.Error("failed to initialise application", "error", err)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = fmt.Fprint(w, `{"success":false,"message":"Internal server error"}`)
		return
	}
	xhttp.NetHTTPHandler(a.Handler())(w, r)
}
