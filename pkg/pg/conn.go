package pg

import (
	"database/sql"
	"fmt"
	"strings"
)

type Config struct {
	// URL wins over the discrete fields. Hosted databases hand out a URL.
	URL      string `env:"URL"`
	User     string `env:"USER"`
	Host     string `env:"HOST"`
	Port     string `env:"PORT"`
	Password string `env:"PASSWORD"`
	Database string `env:"DBNAME"`
	SSLMode  string `env:"SSLMODE"`
}

func (c Config) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	parts := []string{
		"host=" + c.Host,
		"user=" + c.User,
		"password=" + c.Password,
		"dbname=" + c.Database,
	}
	if c.Port != "" {
		parts = append(parts, "port="+c.Port)
	}
	parts = append(parts, "sslmode="+sslMode)
	return strings.Join(parts, " ")
}

func (c Config) String() string {
	if c.URL != "" {
		return "postgres url"
	}
	return fmt.Sprintf("%s@%s:%s/%s", c.User, c.Host, c.Port, c.Database)
}

func newSqlConnection(config Config) (*sql.DB, error) {
	return sql.Open("postgres", config.DSN())
}
