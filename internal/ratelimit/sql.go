package ratelimit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"  // postgres driver
	_ "modernc.org/sqlite" // sqlite driver
)

// SQL dialects understood by SQLLimiter
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// SQLLimiter stores attempts in a shared table so several instances can
// enforce one window. Postgres serializes attempts per address with a
// transaction-scoped advisory lock; SQLite serializes all writers itself.
type SQLLimiter struct {
	db      *sql.DB
	dialect string
	config  Config
}

// OpenSQL opens a database for the given dialect and prepares the schema.
func OpenSQL(ctx context.Context, dialect, dsn string, config Config) (*SQLLimiter, error) {
	if dialect != DialectPostgres && dialect != DialectSQLite {
		return nil, fmt.Errorf("unsupported rate limit dialect: %s", dialect)
	}

	db, err := sql.Open(dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s rate limit store: %w", dialect, err)
	}
	if dialect == DialectSQLite {
		// One connection keeps ":memory:" databases shared and writes serialized
		db.SetMaxOpenConns(1)
	}

	limiter := NewSQLLimiter(db, dialect, config)
	if err := limiter.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return limiter, nil
}

// NewSQLLimiter wraps an open database. Call Migrate before first use.
func NewSQLLimiter(db *sql.DB, dialect string, config Config) *SQLLimiter {
	return &SQLLimiter{
		db:      db,
		dialect: dialect,
		config:  config.withDefaults(),
	}
}

// Migrate creates the attempts table and its index if missing
func (l *SQLLimiter) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS rate_limit_hits (
			address TEXT NOT NULL,
			hit_at_ms BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rate_limit_hits_address ON rate_limit_hits (address, hit_at_ms)`,
	}
	for _, stmt := range stmts {
		if _, err := l.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate rate limit store: %w", err)
		}
	}
	return nil
}

// Allow prunes, counts and conditionally records inside one transaction
func (l *SQLLimiter) Allow(ctx context.Context, address string, now time.Time) (allowed bool, err error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin rate limit transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if l.dialect == DialectPostgres {
		if _, err = tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, address); err != nil {
			return false, fmt.Errorf("failed to lock rate limit address: %w", err)
		}
	}

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM rate_limit_hits WHERE address = $1 AND hit_at_ms <= $2`,
		address, l.config.windowStart(now),
	); err != nil {
		return false, fmt.Errorf("failed to prune rate limit hits: %w", err)
	}

	var count int
	if err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM rate_limit_hits WHERE address = $1`,
		address,
	).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to count rate limit hits: %w", err)
	}

	if count < l.config.MaxRequests {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO rate_limit_hits (address, hit_at_ms) VALUES ($1, $2)`,
			address, now.UnixMilli(),
		); err != nil {
			return false, fmt.Errorf("failed to record rate limit hit: %w", err)
		}
		allowed = true
	}

	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit rate limit transaction: %w", err)
	}
	return allowed, nil
}

// Sweep deletes every expired attempt
func (l *SQLLimiter) Sweep(ctx context.Context, now time.Time) (int64, error) {
	res, err := l.db.ExecContext(ctx,
		`DELETE FROM rate_limit_hits WHERE hit_at_ms <= $1`,
		l.config.windowStart(now),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep rate limit hits: %w", err)
	}
	return res.RowsAffected()
}

// Close releases the underlying database
func (l *SQLLimiter) Close() error {
	return l.db.Close()
}
