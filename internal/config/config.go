package config

import (
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/nimasrn/ppob-gateway/pkg/logger"
	"github.com/pkg/errors"
)

const ConfigTagName = "env"
const ConfigDefaultTagName = "default"

const (
	StorageMongo    = "mongo"
	StoragePostgres = "postgres"

	BillCheckModeScraper = "scraper"
	BillCheckModeAPI     = "api"
	BillCheckModeLedger  = "ledger"

	EnvDevelopment = "development"
)

var config *Config

// Config holds every configuration value used by the binaries and the
// serverless functions. Nothing else reads the environment directly.
type Config struct {
	AppEnv              string `env:"APP_ENV,default=development"`
	AppName             string `env:"APP_NAME,default=ppob_gateway"`
	AppTimezone         string `env:"APP_TIMEZONE,default=Asia/Jakarta"`
	AppDebugMetricsAddr string `env:"APP_DEBUG_METRIC_ADDR"`
	AppDebugMetricsURI  string `env:"APP_DEBUG_METRIC_URI,default=/metrics"`

	HttpListenAddr     string        `env:"HTTP_LISTEN_ADDR,default=:5000"`
	HttpRequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT,default=75s"`

	StorageDriver string `env:"STORAGE_DRIVER,default=mongo"`

	MongoURI      string `env:"MONGODB_URI,default=mongodb://localhost:27017"`
	MongoDatabase string `env:"MONGODB_DATABASE,default=ppob"`

	// POSTGRES_URL replaces the write side fields and, without a replica, the read side too
	PostgresURL     string `env:"POSTGRES_URL"`
	PostgresSSLMode string `env:"POSTGRES_SSLMODE,default=disable"`

	PostgresReadHost     string `env:"POSTGRES_READ_HOST"`
	PostgresReadPort     string `env:"POSTGRES_READ_PORT"`
	PostgresReadUser     string `env:"POSTGRES_READ_USER"`
	PostgresReadPassword string `env:"POSTGRES_READ_PASSWORD"`
	PostgresReadDatabase string `env:"POSTGRES_READ_DBNAME"`

	PostgresWriteHost     string `env:"POSTGRES_WRITE_HOST"`
	PostgresWritePort     string `env:"POSTGRES_WRITE_PORT"`
	PostgresWriteUser     string `env:"POSTGRES_WRITE_USER"`
	PostgresWritePassword string `env:"POSTGRES_WRITE_PASSWORD"`
	PostgresWriteDatabase string `env:"POSTGRES_WRITE_DBNAME"`

	RedisAddr               string `env:"REDIS_ADDR"`
	RedisUsername           string `env:"REDIS_USER"`
	RedisPassword           string `env:"REDIS_PASS"`
	RedisDatabase           int    `env:"REDIS_DATABASE"`
	RedisUniversalKeyPrefix string `env:"REDIS_UNIVERSAL_KEY_PREFIX"`

	PromNamespace string `env:"PROM_NAMESPACE,default=ppob"`

	BillCheckMode       string        `env:"BILLCHECK_MODE,default=scraper"`
	BillCheckAPIURL     string        `env:"BILLCHECK_API_URL"`
	BillCheckAPIKey     string        `env:"BILLCHECK_API_KEY"`
	BillCheckScraperURL string        `env:"BILLCHECK_SCRAPER_URL,default=http://localhost:8000"`
	BillCheckTimeout    time.Duration `env:"BILLCHECK_TIMEOUT,default=60s"`

	AdminDefaultUsername string `env:"ADMIN_DEFAULT_USERNAME,default=admin"`
	AdminDefaultPassword string `env:"ADMIN_DEFAULT_PASSWORD,default=admin123"`

	// empty disables check events
	CheckEventsStream string `env:"CHECK_EVENTS_STREAM"`

	QueueConsumerGroup     string        `env:"QUEUE_CONSUMER_GROUP,default=check-recorders"`
	QueueConsumerName      string        `env:"QUEUE_CONSUMER_NAME"`
	QueueMaxRetries        int           `env:"QUEUE_MAX_RETRIES,default=3"`
	QueueVisibilityTimeout time.Duration `env:"QUEUE_VISIBILITY_TIMEOUT,default=30s"`
	QueuePollInterval      time.Duration `env:"QUEUE_POLL_INTERVAL,default=100ms"`
	QueueBatchSize         int64         `env:"QUEUE_BATCH_SIZE,default=10"`
	QueueMaxLen            int64         `env:"QUEUE_MAX_LEN,default=100000"`
	QueueEnableDLQ         bool          `env:"QUEUE_ENABLE_DLQ,default=true"`

	ProcessorWorkers    int `env:"PROCESSOR_WORKERS,default=4"`
	ProcessorBufferSize int `env:"PROCESSOR_BUFFER_SIZE,default=100"`
}

func Load(path string) error {
	logger.Info("loading configs..", "path", path)
	if path != "" {
		logger.Info("trying to publish env from file", "path", path)
		if err := godotenv.Load(path); err != nil {
			return errors.New("failed to load configuration file " + path + " error: " + err.Error())
		}
	}

	c, err := FromEnviron()
	if err != nil {
		return err
	}

	config = c
	return nil
}

// FromEnviron maps the current environment onto a fresh Config without
// touching the package singleton.
func FromEnviron() (*Config, error) {
	c := &Config{}
	if _, err := env.UnmarshalFromEnviron(c); err != nil {
		return nil, errors.New("failed to map env variables to Configuration object " + " error: " + err.Error())
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case StorageMongo, StoragePostgres:
	default:
		return errors.Errorf("unsupported STORAGE_DRIVER %q", c.StorageDriver)
	}
	switch c.BillCheckMode {
	case BillCheckModeScraper, BillCheckModeAPI, BillCheckModeLedger:
	default:
		return errors.Errorf("unsupported BILLCHECK_MODE %q", c.BillCheckMode)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == EnvDevelopment
}

// Location returns the zone used for human readable dates. Serverless images
// often ship without tzdata, so Asia/Jakarta falls back to a fixed +07:00.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.AppTimezone)
	if err == nil {
		return loc
	}
	logger.Warn("failed to load timezone, using WIB offset", "timezone", c.AppTimezone, "error", err)
	return time.FixedZone("WIB", 7*60*60)
}

func Set(c *Config) {
	config = c
}

func Get() *Config {
	if config == nil {
		logger.Panic("Config is not initialized")
	}
	return config
}
