package database

import (
	"context"
	"crypto/tls"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/Lumbe/lcrm-app/internal/config"
)

// Dialect identifies the SQL flavour behind a connection
type Dialect string

const (
	DialectMySQL  Dialect = "mysql"
	DialectSQLite Dialect = "sqlite"
)

// Connection wraps *sql.DB with its dialect.
// sql.DB is already thread-safe and manages its own connection pool, so no
// extra locking is layered on top.
type Connection struct {
	db      *sql.DB
	dialect Dialect
}

var tlsOnce sync.Once // TLS config may be registered only once per process

// Open connects to the configured database and verifies it with a ping
func Open(ctx context.Context, cfg config.DatabaseConfig, lggr *zap.Logger) (*Connection, error) {
	switch cfg.Driver {
	case config.DriverMySQL:
		return openMySQL(ctx, cfg, lggr)
	case config.DriverSQLite, "":
		return OpenSQLite(ctx, cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// MySQLDSN builds the DSN for a MySQL/TiDB server. Remote hosts get TLS.
func MySQLDSN(cfg config.DatabaseConfig, lggr *zap.Logger) string {
	tlsParam := ""
	if cfg.Host != "" && cfg.Host != "127.0.0.1" && cfg.Host != "localhost" {
		tlsOnce.Do(func() {
			if err := mysql.RegisterTLSConfig("tidb", &tls.Config{
				MinVersion: tls.VersionTLS12,
				ServerName: cfg.Host,
			}); err != nil {
				lggr.Warn("failed to register TLS config", zap.Error(err))
			}
		})
		tlsParam = "&tls=tidb"
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name, tlsParam)
}

func openMySQL(ctx context.Context, cfg config.DatabaseConfig, lggr *zap.Logger) (*Connection, error) {
	db, err := sql.Open("mysql", MySQLDSN(cfg, lggr))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// MaxIdleConns must equal MaxOpenConns, otherwise connections churn and
	// exhaust ephemeral ports under load.
	db.SetMaxOpenConns(100)
	db.SetMaxIdleConns(100)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(3 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Connection{db: db, dialect: DialectMySQL}, nil
}

// OpenSQLite opens an embedded database file. A single connection is used
// so that writers serialize instead of failing with SQLITE_BUSY.
func OpenSQLite(ctx context.Context, path string) (*Connection, error) {
	if path == "" {
		path = "lcrm.db"
	}
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Connection{db: db, dialect: DialectSQLite}, nil
}

// NewConnection wraps an existing handle, e.g. a sqlmock database
func NewConnection(db *sql.DB, dialect Dialect) *Connection {
	return &Connection{db: db, dialect: dialect}
}

// DB returns the underlying *sql.DB
func (c *Connection) DB() *sql.DB {
	return c.db
}

// Dialect returns the SQL flavour of the connection
func (c *Connection) Dialect() Dialect {
	return c.dialect
}

// Close closes the database connection
func (c *Connection) Close() error {
	return c.db.Close()
}
