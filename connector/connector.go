// Package connector opens database connections through registered providers.
package connector

import (
	"context"

	"github.com/Konsultn-Engineering/sqlstmt/database"
	"github.com/Konsultn-Engineering/sqlstmt/dialect"
)

type Connection interface {
	Database() database.Database
	Dialect() dialect.Dialect
	Health(ctx context.Context) error
	Stats() ConnectionStats
	Close() error
}

type Connector interface {
	Connect(ctx context.Context) (Connection, error)
	Close() error
}

type connection struct {
	db      database.Database
	dialect dialect.Dialect
}

// Wrap adapts an existing handle into a Connection.
func Wrap(db database.Database, d dialect.Dialect) Connection {
	return &connection{db: db, dialect: d}
}

func (c *connection) Database() database.Database { return c.db }

func (c *connection) Dialect() dialect.Dialect { return c.dialect }

func (c *connection) Health(ctx context.Context) error { return c.db.PingContext(ctx) }

func (c *connection) Stats() ConnectionStats { return ConnectionStats{} }

func (c *connection) Close() error { return c.db.Close() }
