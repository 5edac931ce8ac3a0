package connector

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

type standardConnector struct {
	provider Provider
	config   Config
}

var globalManager = &Manager{
	providers: make(map[string]Provider),
}

type Manager struct {
	providers map[string]Provider
	mu        sync.RWMutex
}

func Register(name string, provider Provider) {
	globalManager.mu.Lock()
	defer globalManager.mu.Unlock()
	globalManager.providers[name] = provider
}

// Providers lists the registered provider names.
func Providers() []string {
	globalManager.mu.RLock()
	defer globalManager.mu.RUnlock()
	names := make([]string, 0, len(globalManager.providers))
	for name := range globalManager.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func New(config Config) (Connector, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid connection config: %w", err)
	}
	globalManager.mu.RLock()
	provider, ok := globalManager.providers[config.Provider]
	globalManager.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("provider %s not registered", config.Provider)
	}
	return &standardConnector{provider: provider, config: config}, nil
}

// Connect opens a connection, retrying when the config asks for it. The
// connect timeout bounds the whole attempt including retries.
func (c *standardConnector) Connect(ctx context.Context) (Connection, error) {
	if c.config.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.ConnectTimeout)
		defer cancel()
	}

	connect := func(ctx context.Context) (Connection, error) {
		return c.provider.Connect(ctx, c.config)
	}
	if c.config.Retry == nil {
		return connect(ctx)
	}
	conn, err := retryConnect(ctx, *c.config.Retry, connect)
	if err != nil {
		return nil, fmt.Errorf("failed to connect after %d retries: %w", c.config.Retry.MaxRetries, err)
	}
	return conn, nil
}

func (c *standardConnector) Close() error {
	return nil
}
