package reconcile

import (
	"context"
	"database/sql"
)

// Conn is one connection checked out of the store.
type Conn interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	Close() error
}

// ConnSource hands out store connections. Every Conn it returns must be closed.
type ConnSource interface {
	Acquire(ctx context.Context) (Conn, error)
}

// SQLSource checks connections out of a database/sql pool.
type SQLSource struct {
	db *sql.DB
}

func NewSQLSource(db *sql.DB) *SQLSource {
	return &SQLSource{db: db}
}

func (s *SQLSource) Acquire(ctx context.Context) (Conn, error) {
	return s.db.Conn(ctx)
}
