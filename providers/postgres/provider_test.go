package postgres

import (
	"testing"
	"time"

	"github.com/Konsultn-Engineering/sqlstmt/connector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistered(t *testing.T) {
	assert.Contains(t, connector.Providers(), "postgres")
}

func TestPoolConfig(t *testing.T) {
	p := &Provider{}
	cfg := connector.Config{
		Provider: "postgres",
		Host:     "db.local",
		Database: "orders",
		Username: "app",
		Password: "secret",
		SSLMode:  "disable",
		Pool: connector.PoolConfig{
			MaxOpen:         4,
			MaxIdle:         8,
			HealthCheckFreq: 15 * time.Second,
		},
	}

	pc, err := p.poolConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "db.local", pc.ConnConfig.Host)
	assert.Equal(t, uint16(5432), pc.ConnConfig.Port)
	assert.Equal(t, "orders", pc.ConnConfig.Database)
	assert.Equal(t, "app", pc.ConnConfig.User)
	assert.Equal(t, int32(4), pc.MaxConns)
	assert.Equal(t, int32(4), pc.MinConns)
	assert.Equal(t, time.Hour, pc.MaxConnLifetime)
	assert.Equal(t, 15*time.Second, pc.HealthCheckPeriod)
}

func TestBuildDSN(t *testing.T) {
	dsn, err := (&Provider{}).buildDSN(connector.Config{Host: "h", Database: "d"})
	require.NoError(t, err)
	assert.Equal(t, "postgres://h:5432/d?connect_timeout=10&sslmode=prefer", dsn)

	_, err = (&Provider{}).buildDSN(connector.Config{})
	assert.Error(t, err)
}
