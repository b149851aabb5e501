// Package postgre stores subscriptions in the gh_hooks table.
package postgre

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"forge-relay/internal/subscription"
	pkgLog "forge-relay/pkg/log"
)

// DB is the subset of *pgxpool.Pool the repository uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Repository is the Postgres-backed store.
type Repository interface {
	subscription.Store
	subscription.Writer
	EnsureSchema(ctx context.Context) error
}

type implRepository struct {
	db DB
	l  pkgLog.Logger
}

// New creates a repository over db.
func New(db DB, l pkgLog.Logger) Repository {
	return &implRepository{db: db, l: l}
}

// Connect opens a pool for dsn and verifies it with a ping.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
