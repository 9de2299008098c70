package app

import (
	"context"
	"fmt"

	"github.com/nimasrn/ppob-gateway/internal/config"
	"github.com/nimasrn/ppob-gateway/internal/repository"
	"github.com/nimasrn/ppob-gateway/internal/repository/mongorepo"
	"github.com/nimasrn/ppob-gateway/internal/services"
	"github.com/nimasrn/ppob-gateway/pkg/mongodb"
	"github.com/nimasrn/ppob-gateway/pkg/pg"
)

// Storage is one backend's set of repositories.
type Storage struct {
	Admins       services.AdminRepository
	Transactions services.TransactionRepository
	PLNCustomers services.PLNCustomerRepository

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

func (s *Storage) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// OpenStorage connects the driver named by STORAGE_DRIVER.
func OpenStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := pg.CreateReadWrite(postgresReadConfig(cfg), PostgresWriteConfig(cfg), cfg.IsDevelopment())
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		st := NewPostgresStorage(db)
		st.close = func(context.Context) error { return db.Close() }
		return st, nil
	default:
		db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.MongoURI, Database: cfg.MongoDatabase})
		if err != nil {
			return nil, err
		}
		if err := db.EnsureIndexes(ctx, mongorepo.Indexes()...); err != nil {
			return nil, err
		}
		st := NewMongoStorage(db)
		st.close = mongodb.Disconnect
		return st, nil
	}
}

func NewPostgresStorage(db *pg.DB) *Storage {
	return &Storage{
		Admins:       repository.NewAdminRepository(db),
		Transactions: repository.NewTransactionRepository(db),
		PLNCustomers: repository.NewPLNCustomerRepository(db),
		ping:         db.Ping,
	}
}

func NewMongoStorage(db *mongodb.DB) *Storage {
	return &Storage{
		Admins:       mongorepo.NewAdminRepository(db),
		Transactions: mongorepo.NewTransactionRepository(db),
		PLNCustomers: mongorepo.NewPLNCustomerRepository(db),
		ping:         db.Ping,
	}
}

func PostgresWriteConfig(cfg *config.Config) pg.Config {
	return pg.Config{
		URL:      cfg.PostgresURL,
		User:     cfg.PostgresWriteUser,
		Host:     cfg.PostgresWriteHost,
		Port:     cfg.PostgresWritePort,
		Password: cfg.PostgresWritePassword,
		Database: cfg.PostgresWriteDatabase,
		SSLMode:  cfg.PostgresSSLMode,
	}
}

// postgresReadConfig falls back to the write side when no replica is set.
func postgresReadConfig(cfg *config.Config) pg.Config {
	if cfg.PostgresReadHost == "" {
		return PostgresWriteConfig(cfg)
	}
	return pg.Config{
		User:     cfg.PostgresReadUser,
		Host:     cfg.PostgresReadHost,
		Port:     cfg.PostgresReadPort,
		Password: cfg.PostgresReadPassword,
		Database: cfg.PostgresReadDatabase,
		SSLMode:  cfg.PostgresSSLMode,
	}
}
