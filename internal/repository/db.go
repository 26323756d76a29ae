package repository

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations
var migrations embed.FS

// DB is a connection pool paired with the dialect its queries are written for.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// Open creates a connection pool for the given driver and DSN.
func Open(ctx context.Context, driver, dsn string) (*DB, error) {
	dialect, err := ParseDialect(driver)
	if err != nil {
		return nil, err
	}

	dsn, err = normalizeDSN(dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing dsn: %w", err)
	}

	db, err := sql.Open(dialect.driverName(), dsn)
	if err != nil {
		return nil, err
	}

	if dialect == DialectSQLite {
		// Every connection to ":memory:" is its own database.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &DB{DB: db, Dialect: dialect}, nil
}

// Migrate applies the embedded schema migrations for the connection's dialect.
func (db *DB) Migrate(ctx context.Context, logger *slog.Logger) error {
	fsys, err := fs.Sub(migrations, "migrations/"+string(db.Dialect))
	if err != nil {
		return err
	}

	provider, err := goose.NewProvider(db.Dialect.gooseDialect(), db.DB, fsys)
	if err != nil {
		return fmt.Errorf("creating migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}

	for _, r := range results {
		logger.Info("migration applied", "version", r.Source.Version, "duration", r.Duration)
	}

	return nil
}

// normalizeDSN sets the connection options the repositories rely on.
func normalizeDSN(dialect Dialect, dsn string) (string, error) {
	switch dialect {
	case DialectMySQL:
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return "", err
		}
		cfg.ParseTime = true
		// RowsAffected must count matched rows so that an update that
		// changes nothing is not mistaken for a missing row.
		cfg.ClientFoundRows = true
		return cfg.FormatDSN(), nil
	case DialectSQLite:
		sep := "?"
		if strings.ContainsRune(dsn, '?') {
			sep = "&"
		}
		return dsn + sep + "_pragma=foreign_keys(1)", nil
	default:
		return dsn, nil
	}
}
