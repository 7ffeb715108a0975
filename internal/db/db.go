// Package db opens the MySQL database holding the personal data that the
// redacting logger protects. Connection settings come from the environment.
package db

import (
	"context"
	"database/sql"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/go-sql-driver/mysql"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvUsername = "PERSONAL_DATA_DB_USERNAME"
	EnvPassword = "PERSONAL_DATA_DB_PASSWORD"
	EnvHost     = "PERSONAL_DATA_DB_HOST"
	EnvName     = "PERSONAL_DATA_DB_NAME"
)

const (
	DefaultUsername = "root"
	DefaultHost     = "localhost"
)

var (
	// ErrMissingConfig reports a required setting that is not set.
	ErrMissingConfig = errors.New("db: missing required configuration")
	// ErrConnect marks failures to reach or authenticate against the server.
	ErrConnect = errors.New("db: connection failed")
)

// Config holds the connection settings.
type Config struct {
	Username string
	Password string
	// Host is "host" or "host:port"; the MySQL default port is used when absent.
	Host string
	Name string
}

// ConfigFromEnv reads the connection settings through lookup, usually
// os.LookupEnv. Username and host fall back to their defaults, the password
// to empty. The database name has no default.
func ConfigFromEnv(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, fallback string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
		return fallback
	}

	cfg := Config{
		Username: get(EnvUsername, DefaultUsername),
		Password: get(EnvPassword, ""),
		Host:     get(EnvHost, DefaultHost),
		Name:     get(EnvName, ""),
	}
	if cfg.Name == "" {
		return Config{}, errors.Wrapf(ErrMissingConfig, "%s is not set", EnvName)
	}
	return cfg, nil
}

func (c Config) mysqlConfig() *mysql.Config {
	mc := mysql.NewConfig()
	mc.User = c.Username
	mc.Passwd = c.Password
	mc.Net = "tcp"
	mc.Addr = c.Host
	mc.DBName = c.Name
	mc.ParseTime = true
	return mc
}

// DSN returns the driver data source name for c.
func (c Config) DSN() string {
	return c.mysqlConfig().FormatDSN()
}

// Open connects to the database described by cfg and pings it under ctx.
// Any failure to reach the server is marked with ErrConnect.
func Open(ctx context.Context, cfg Config) (*sql.DB, error) {
	if cfg.Name == "" {
		return nil, errors.Wrapf(ErrMissingConfig, "database name")
	}
	connector, err := mysql.NewConnector(cfg.mysqlConfig())
	if err != nil {
		return nil, errors.Wrap(err, "db: build connector")
	}
	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(3)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Mark(errors.Wrapf(err, "db: ping %s", cfg.Host), ErrConnect)
	}
	return db, nil
}

// OpenFromEnv is ConfigFromEnv(os.LookupEnv) followed by Open.
func OpenFromEnv(ctx context.Context) (*sql.DB, error) {
	cfg, err := ConfigFromEnv(os.LookupEnv)
	if err != nil {
		return nil, err
	}
	return Open(ctx, cfg)
}
