// Package storage opens the bun database behind the SQL repositories and
// creates its schema.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-cms-zones/internal/logging"
	"github.com/goliatone/go-cms-zones/pkg/interfaces"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// DefaultSQLiteDSN is the shared in-memory database used when no DSN is set.
const DefaultSQLiteDSN = "file::memory:?cache=shared"

var (
	ErrDriverUnsupported = errors.New("storage: driver is not supported")
	ErrDSNRequired       = errors.New("storage: dsn is required")
)

// Config selects the driver and connection.
type Config struct {
	Driver string
	DSN    string
	// Debug logs every query through Logger.
	Debug  bool
	Logger interfaces.Logger
}

// Open connects to cfg.Driver ("sqlite3" or "postgres") and verifies the
// connection.
func Open(ctx context.Context, cfg Config) (*bun.DB, error) {
	var (
		sqlDB *sql.DB
		db    *bun.DB
		err   error
	)
	dsn := strings.TrimSpace(cfg.DSN)
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "sqlite3", "sqlite":
		if dsn == "" {
			dsn = DefaultSQLiteDSN
		}
		sqlDB, err = sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("storage: open sqlite: %w", err)
		}
		if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
			sqlDB.SetMaxOpenConns(1)
		}
		db = bun.NewDB(sqlDB, sqlitedialect.New())
	case "postgres", "pg", "postgresql":
		if dsn == "" {
			return nil, ErrDSNRequired
		}
		sqlDB, err = sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("storage: open postgres: %w", err)
		}
		db = bun.NewDB(sqlDB, pgdialect.New())
	default:
		return nil, fmt.Errorf("%w: %q", ErrDriverUnsupported, cfg.Driver)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage: ping %s: %w", cfg.Driver, err)
	}
	if cfg.Debug {
		db.AddQueryHook(&queryLogger{logger: logging.OrNoOp(cfg.Logger)})
	}
	return db, nil
}

type queryLogger struct {
	logger interfaces.Logger
}

func (h *queryLogger) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *queryLogger) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	args := []any{
		"operation", event.Operation(),
		"query", event.Query,
		"duration_ms", time.Since(event.StartTime).Milliseconds(),
	}
	if event.Err != nil && !errors.Is(event.Err, sql.ErrNoRows) {
		h.logger.WithContext(ctx).Warn("storage.query.failed", append(args, "error", event.Err)...)
		return
	}
	h.logger.WithContext(ctx).Debug("storage.query", args...)
}
