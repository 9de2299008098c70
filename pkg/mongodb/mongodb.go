package mongodb

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nimasrn/ppob-gateway/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const defaultConnectTimeout = 10 * time.Second

type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// DB is a handle on one database of a connected client.
type DB struct {
	client   *mongo.Client
	database *mongo.Database
}

// Index describes a single-field or compound index to create on startup.
type Index struct {
	Collection string
	Keys       bson.D
	Unique     bool
}

var (
	connectLock sync.Mutex
	connected   *DB
)

// Connect returns the process wide connection, dialing and pinging the
// server on the first call only. Serverless invocations share a warm
// process, so later calls are free.
func Connect(ctx context.Context, cfg Config) (*DB, error) {
	connectLock.Lock()
	defer connectLock.Unlock()

	if connected != nil {
		return connected, nil
	}

	if cfg.URI == "" {
		return nil, fmt.Errorf("mongodb uri is not set")
	}
	timeout := cfg.ConnectTimeout
	if timeout == 0 {
		timeout = defaultConnectTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	connected = New(client, cfg.Database)
	logger.Info("connected to mongodb", "database", cfg.Database)
	return connected, nil
}

func New(client *mongo.Client, database string) *DB {
	return &DB{client: client, database: client.Database(database)}
}

func (d *DB) Collection(name string) *mongo.Collection {
	return d.database.Collection(name)
}

func (d *DB) Ping(ctx context.Context) error {
	return d.client.Ping(ctx, readpref.Primary())
}

// EnsureIndexes creates the given indexes; existing identical indexes are a
// no-op on the server.
func (d *DB) EnsureIndexes(ctx context.Context, indexes ...Index) error {
	for _, idx := range indexes {
		model := mongo.IndexModel{
			Keys:    idx.Keys,
			Options: options.Index().SetUnique(idx.Unique),
		}
		if _, err := d.Collection(idx.Collection).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("create index on %s: %w", idx.Collection, err)
		}
	}
	return nil
}

// Disconnect closes the shared client and forgets it.
func Disconnect(ctx context.Context) error {
	connectLock.Lock()
	defer connectLock.Unlock()

	if connected == nil {
		return nil
	}
	err := connected.client.Disconnect(ctx)
	connected = nil
	return err
}
