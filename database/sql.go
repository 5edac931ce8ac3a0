package database

import (
	"context"
	"database/sql"

	"github.com/Konsultn-Engineering/sqlstmt/cache"
)

// SqlDatabase implements Database for *sql.DB.
type SqlDatabase struct {
	db    *sql.DB
	stmts *cache.StatementCache
}

type SqlOption func(*SqlDatabase)

// WithStatementCache keeps up to size prepared statements.
func WithStatementCache(size int) SqlOption {
	return func(s *SqlDatabase) {
		if size > 0 {
			s.stmts = cache.NewStatementCache(size)
		}
	}
}

// NewSqlDatabase creates a new SqlDatabase.
func NewSqlDatabase(db *sql.DB, opts ...SqlOption) *SqlDatabase {
	s := &SqlDatabase{db: db}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DB returns the underlying handle.
func (s *SqlDatabase) DB() *sql.DB { return s.db }

// QueryContext executes a query with a context. With a statement cache the
// statement stays open until the returned rows are closed.
func (s *SqlDatabase) QueryContext(ctx context.Context, query string, args ...any) (Rows, error) {
	if s.stmts == nil {
		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, err
		}
		return rows, nil
	}

	stmt, release, err := s.stmts.GetOrPrepare(ctx, s.db, query)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		release()
		return nil, err
	}
	return &stmtRows{Rows: rows, release: release}, nil
}

// ExecContext executes a query without returning rows.
func (s *SqlDatabase) ExecContext(ctx context.Context, query string, args ...any) (Result, error) {
	if s.stmts == nil {
		return s.db.ExecContext(ctx, query, args...)
	}

	stmt, release, err := s.stmts.GetOrPrepare(ctx, s.db, query)
	if err != nil {
		return nil, err
	}
	defer release()
	return stmt.ExecContext(ctx, args...)
}

// stmtRows hands its cached statement back when closed.
type stmtRows struct {
	*sql.Rows
	release func()
}

func (r *stmtRows) Close() error {
	defer r.release()
	return r.Rows.Close()
}

// PingContext verifies the connection to the database is alive.
func (s *SqlDatabase) PingContext(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases cached statements and closes the database.
func (s *SqlDatabase) Close() error {
	if s.stmts != nil {
		_ = s.stmts.Close()
	}
	return s.db.Close()
}

// SetMaxOpenConns sets the maximum number of open connections.
func (s *SqlDatabase) SetMaxOpenConns(n int) { s.db.SetMaxOpenConns(n) }

// SetMaxIdleConns sets the maximum number of idle connections.
func (s *SqlDatabase) SetMaxIdleConns(n int) { s.db.SetMaxIdleConns(n) }

var _ Database = (*SqlDatabase)(nil)
