// Package postgres opens pooled sqlx connections to PostgreSQL through the pgx driver.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Pool bounds the connections a *sqlx.DB keeps. Callers beyond MaxOpenConns
// wait for a free connection until their context expires.
type Pool struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration
}

// DefaultPool matches a small fixed-size pool of ten connections.
var DefaultPool = Pool{
	MaxOpenConns:    10,
	MaxIdleConns:    5,
	ConnMaxIdleTime: 5 * time.Minute,
	ConnMaxLifetime: 30 * time.Minute,
}

// Option overrides one Pool setting. Non-positive values keep the default.
type Option func(*Pool)

func WithConnMaxIdleTime(d time.Duration) Option {
	return func(p *Pool) {
		if d > 0 {
			p.ConnMaxIdleTime = d
		}
	}
}

func WithConnMaxLifetime(d time.Duration) Option {
	return func(p *Pool) {
		if d > 0 {
			p.ConnMaxLifetime = d
		}
	}
}

func WithMaxIdleConns(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.MaxIdleConns = n
		}
	}
}

func WithMaxOpenConns(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.MaxOpenConns = n
		}
	}
}

// Configure applies DefaultPool and opts to db and returns the pool in effect.
func Configure(db *sqlx.DB, opts ...Option) Pool {
	pool := DefaultPool
	for _, opt := range opts {
		opt(&pool)
	}

	// Idle connections above the open cap would be closed immediately anyway.
	pool.MaxIdleConns = min(pool.MaxIdleConns, pool.MaxOpenConns)

	db.SetMaxOpenConns(pool.MaxOpenConns)
	db.SetMaxIdleConns(pool.MaxIdleConns)
	db.SetConnMaxIdleTime(pool.ConnMaxIdleTime)
	db.SetConnMaxLifetime(pool.ConnMaxLifetime)

	return pool
}

// New opens a pool to dsn and verifies it with a ping bounded by ctx.
func New(ctx context.Context, dsn string, opts ...Option) (*sqlx.DB, error) {
	const op = "postgres.New"

	db, err := sqlx.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open database: %w", op, err)
	}

	Configure(db, opts...)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: failed to ping database: %w", op, err)
	}

	return db, nil
}
