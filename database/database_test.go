package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// fakeConnector is a minimal driver that counts prepares and returns one fixed row.
type fakeConnector struct {
	prepares atomic.Int32
}

func (c *fakeConnector) Connect(context.Context) (driver.Conn, error) { return &fakeConn{c: c}, nil }
func (c *fakeConnector) Driver() driver.Driver                       { return fakeDriver{c} }

type fakeDriver struct{ c *fakeConnector }

func (d fakeDriver) Open(string) (driver.Conn, error) { return &fakeConn{c: d.c}, nil }

type fakeConn struct{ c *fakeConnector }

func (f *fakeConn) Prepare(query string) (driver.Stmt, error) {
	f.c.prepares.Add(1)
	return &fakeStmt{query: query}, nil
}
func (f *fakeConn) Close() error              { return nil }
func (f *fakeConn) Begin() (driver.Tx, error) { return nil, errors.New("no transactions") }

type fakeStmt struct{ query string }

func (s *fakeStmt) Close() error  { return nil }
func (s *fakeStmt) NumInput() int { return -1 }
func (s *fakeStmt) Exec(args []driver.Value) (driver.Result, error) {
	return driver.RowsAffected(len(args)), nil
}
func (s *fakeStmt) Query([]driver.Value) (driver.Rows, error) {
	return &fakeRows{data: [][]driver.Value{{int64(1), []byte("Rachel")}}}, nil
}

type fakeRows struct {
	data [][]driver.Value
	i    int
}

func (r *fakeRows) Columns() []string { return []string{"id", "name"} }
func (r *fakeRows) Close() error      { return nil }
func (r *fakeRows) Next(dest []driver.Value) error {
	if r.i >= len(r.data) {
		return io.EOF
	}
	copy(dest, r.data[r.i])
	r.i++
	return nil
}

func openFake(t *testing.T, opts ...SqlOption) (*SqlDatabase, *fakeConnector) {
	t.Helper()
	c := &fakeConnector{}
	db := sql.OpenDB(c)
	db.SetMaxOpenConns(1)
	s := NewSqlDatabase(db, opts...)
	t.Cleanup(func() { _ = s.Close() })
	return s, c
}

func TestSqlDatabase_ExecContext(t *testing.T) {
	db, _ := openFake(t)

	res, err := db.ExecContext(context.Background(), "INSERT INTO t VALUES (?, ?)", "a", "b")
	require.NoError(t, err)
	n, err := res.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestSqlDatabase_StatementCache(t *testing.T) {
	ctx := context.Background()

	plain, pc := openFake(t)
	cached, cc := openFake(t, WithStatementCache(8))

	for i := 0; i < 3; i++ {
		_, err := plain.ExecContext(ctx, "UPDATE t SET a = ?", i)
		require.NoError(t, err)
		_, err = cached.ExecContext(ctx, "UPDATE t SET a = ?", i)
		require.NoError(t, err)
	}

	assert.Equal(t, int32(3), pc.prepares.Load())
	assert.Equal(t, int32(1), cc.prepares.Load())
}

func TestSqlDatabase_StatementCacheChurn(t *testing.T) {
	db, _ := openFake(t, WithStatementCache(1))
	queries := []string{"UPDATE t SET a = ?", "UPDATE t SET b = ?"}

	var g errgroup.Group
	for w := 0; w < 8; w++ {
		g.Go(func() error {
			for i := 0; i < 500; i++ {
				q := queries[(w+i)%len(queries)]
				if _, err := db.ExecContext(context.Background(), q, i); err != nil {
					return fmt.Errorf("worker %d exec %d: %w", w, i, err)
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, 1, db.stmts.Len())
}

func TestSqlDatabase_EvictedStatementOutlivesRows(t *testing.T) {
	ctx := context.Background()
	db, c := openFake(t, WithStatementCache(1))
	db.SetMaxOpenConns(2)

	rows, err := db.QueryContext(ctx, "SELECT id, name FROM person")
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, "UPDATE t SET a = ?", 1)
	require.NoError(t, err)

	require.True(t, rows.Next())
	row, err := ScanMap(rows)
	require.NoError(t, err)
	assert.Equal(t, "Rachel", row["name"])
	require.NoError(t, rows.Close())
	assert.NoError(t, rows.Close())

	rows, err = db.QueryContext(ctx, "SELECT id, name FROM person")
	require.NoError(t, err)
	require.NoError(t, rows.Close())
	assert.GreaterOrEqual(t, c.prepares.Load(), int32(3))
}

func TestScanMap(t *testing.T) {
	db, _ := openFake(t, WithStatementCache(8))

	rows, err := db.QueryContext(context.Background(), "SELECT id, name FROM person")
	require.NoError(t, err)
	defer rows.Close()

	require.True(t, rows.Next())
	row, err := ScanMap(rows)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": int64(1), "name": "Rachel"}, row)

	assert.False(t, rows.Next())
	assert.NoError(t, rows.Err())
}

func TestPgxResult_LastInsertId(t *testing.T) {
	_, err := (&PgxResult{}).LastInsertId()
	assert.ErrorIs(t, err, ErrLastInsertID)
}
