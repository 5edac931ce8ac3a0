package service

import (
	"context"
	"errors"
	"sync"

	"github.com/Konsultn-Engineering/sqlstmt/connector"
	"github.com/Konsultn-Engineering/sqlstmt/database"
	"github.com/Konsultn-Engineering/sqlstmt/dialect"
)

type call struct {
	query string
	args  []any
}

// fakeDB records every statement and answers queries with fixed rows.
type fakeDB struct {
	mu       sync.Mutex
	calls    []call
	affected int64
	columns  []string
	rows     [][]any
	execErr  error
	pingErr  error
}

func (f *fakeDB) record(query string, args []any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{query: query, args: args})
}

func (f *fakeDB) QueryContext(_ context.Context, query string, args ...any) (database.Rows, error) {
	f.record(query, args)
	return &fakeRows{columns: f.columns, data: f.rows, i: -1}, nil
}

func (f *fakeDB) ExecContext(_ context.Context, query string, args ...any) (database.Result, error) {
	f.record(query, args)
	if f.execErr != nil {
		return nil, f.execErr
	}
	return fakeResult(f.affected), nil
}

func (f *fakeDB) PingContext(context.Context) error { return f.pingErr }
func (f *fakeDB) Close() error                      { return nil }

type fakeResult int64

func (r fakeResult) LastInsertId() (int64, error) { return 0, errors.New("not supported") }
func (r fakeResult) RowsAffected() (int64, error) { return int64(r), nil }

type fakeRows struct {
	columns []string
	data    [][]any
	i       int
	closed  bool
}

func (r *fakeRows) Next() bool {
	r.i++
	return r.i < len(r.data)
}

func (r *fakeRows) Scan(dest ...any) error {
	for i, d := range dest {
		*(d.(*any)) = r.data[r.i][i]
	}
	return nil
}

func (r *fakeRows) Close() error               { r.closed = true; return nil }
func (r *fakeRows) Columns() ([]string, error) { return r.columns, nil }
func (r *fakeRows) Err() error                 { return nil }

func fakeConn(db *fakeDB) connector.Connection {
	return connector.Wrap(db, dialect.NewPostgresDialect())
}
