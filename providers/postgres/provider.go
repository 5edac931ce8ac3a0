// Package postgres registers the pgx backed "postgres" connection provider.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Konsultn-Engineering/sqlstmt/connector"
	"github.com/Konsultn-Engineering/sqlstmt/database"
	"github.com/Konsultn-Engineering/sqlstmt/dialect"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

const (
	// DriverPgx executes through the pgx pool directly.
	DriverPgx = "pgx"
	// DriverStdlib executes through database/sql on top of the same pool.
	DriverStdlib = "stdlib"

	defaultPort = 5432
)

type Provider struct{}

func init() {
	connector.Register("postgres", &Provider{})
}

func (p *Provider) buildDSN(cfg connector.Config) (string, error) {
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	b := connector.FromConfig("postgres", cfg).WithPostgresDefaults()
	if err := b.Validate(); err != nil {
		return "", err
	}
	return b.Build(), nil
}

func (p *Provider) poolConfig(cfg connector.Config) (*pgxpool.Config, error) {
	dsn, err := p.buildDSN(cfg)
	if err != nil {
		return nil, err
	}

	// apply defaults
	if cfg.Pool.MaxOpen <= 0 {
		cfg.Pool.MaxOpen = 10
	}
	if cfg.Pool.MaxIdle > cfg.Pool.MaxOpen {
		cfg.Pool.MaxIdle = cfg.Pool.MaxOpen
	}
	if cfg.Pool.MaxLifetime == 0 {
		cfg.Pool.MaxLifetime = time.Hour
	}
	if cfg.Pool.MaxIdleTime == 0 {
		cfg.Pool.MaxIdleTime = 30 * time.Minute
	}

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	poolCfg.MaxConns = int32(cfg.Pool.MaxOpen)
	poolCfg.MinConns = int32(cfg.Pool.MaxIdle)
	poolCfg.MaxConnLifetime = cfg.Pool.MaxLifetime
	poolCfg.MaxConnIdleTime = cfg.Pool.MaxIdleTime
	if cfg.Pool.HealthCheckFreq > 0 {
		poolCfg.HealthCheckPeriod = cfg.Pool.HealthCheckFreq
	}
	return poolCfg, nil
}

func (p *Provider) Connect(ctx context.Context, cfg connector.Config) (connector.Connection, error) {
	poolCfg, err := p.poolConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	var db database.Database
	switch cfg.Driver {
	case "", DriverPgx:
		db = database.NewPgxDatabase(pool)
	case DriverStdlib:
		db = database.NewSqlDatabase(stdlib.OpenDBFromPool(pool), database.WithStatementCache(cfg.Pool.StatementCacheSize))
	default:
		pool.Close()
		return nil, fmt.Errorf("postgres: unknown driver %q", cfg.Driver)
	}

	return &connection{pool: pool, db: db, dialect: p.Dialect()}, nil
}

func (p *Provider) Dialect() dialect.Dialect {
	return dialect.NewPostgresDialect()
}

type connection struct {
	pool    *pgxpool.Pool
	db      database.Database
	dialect dialect.Dialect
}

func (c *connection) Database() database.Database {
	return c.db
}

func (c *connection) Dialect() dialect.Dialect {
	return c.dialect
}

func (c *connection) Health(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

func (c *connection) Stats() connector.ConnectionStats {
	s := c.pool.Stat()
	return connector.ConnectionStats{
		OpenConnections: int(s.TotalConns()),
		InUse:           int(s.AcquiredConns()),
		Idle:            int(s.IdleConns()),
		MaxOpen:         int(s.MaxConns()),
	}
}

func (c *connection) Close() error {
	_ = c.db.Close()
	c.pool.Close()
	return nil
}
