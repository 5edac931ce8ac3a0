// Package service runs compiled statements against a connection. A
// CaptureBuilder writes message data with an insert style statement; a
// QueryBuilder reads rows and hands them to a ResultSetTranslator.
//
// Every builder moves through Prepare, Init, Start, Stop and Close. Prepare
// compiles the template; a builder whose template is rejected never serves.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Konsultn-Engineering/sqlstmt/binder"
	"github.com/Konsultn-Engineering/sqlstmt/cache"
	"github.com/Konsultn-Engineering/sqlstmt/connector"
	"github.com/Konsultn-Engineering/sqlstmt/dialect"
	"github.com/Konsultn-Engineering/sqlstmt/message"
	"github.com/Konsultn-Engineering/sqlstmt/placeholder"
	"go.uber.org/zap"
)

var (
	ErrStatementRequired  = errors.New("statement is required")
	ErrConnectionRequired = errors.New("connection is required")
	ErrNotServing         = errors.New("builder is not serving")
)

var defaultPlans = cache.NewPlanCache(cache.DefaultPlanCacheSize)

type Option func(*Builder)

func WithLogger(logger *zap.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithPlanCache replaces the process wide plan cache.
func WithPlanCache(plans *cache.PlanCache) Option {
	return func(b *Builder) {
		if plans != nil {
			b.plans = plans
		}
	}
}

// WithQueryTimeout bounds each Service call.
func WithQueryTimeout(d time.Duration) Option {
	return func(b *Builder) { b.queryTimeout = d }
}

// Builder is the state shared by every statement builder.
type Builder struct {
	name         string
	statement    string
	conn         connector.Connection
	logger       *zap.Logger
	plans        *cache.PlanCache
	queryTimeout time.Duration

	mu       sync.RWMutex
	state    State
	compiled *placeholder.CompiledStatement
	plan     *binder.Plan
}

func newBuilder(name, statement string, conn connector.Connection, opts ...Option) *Builder {
	b := &Builder{
		name:      name,
		statement: statement,
		conn:      conn,
		logger:    zap.NewNop(),
		plans:     defaultPlans,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.logger.With(zap.String("builder", name))
	return b
}

func (b *Builder) Name() string { return b.name }

// Statement returns the template as configured.
func (b *Builder) Statement() string { return b.statement }

func (b *Builder) State() State {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

// Compiled returns the compiled statement, or nil before Prepare succeeds.
func (b *Builder) Compiled() *placeholder.CompiledStatement {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.compiled
}

// Plan returns the bind plan, or nil before Prepare succeeds.
func (b *Builder) Plan() *binder.Plan {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.plan
}

// Prepare compiles the template and resolves its bind plan for the
// connection's dialect.
func (b *Builder) Prepare() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != StateNew {
		return &StateError{Op: "prepare", State: b.state}
	}
	if strings.TrimSpace(b.statement) == "" {
		b.state = StateFailed
		return fmt.Errorf("prepare %s: %w", b.name, ErrStatementRequired)
	}
	if b.conn == nil {
		b.state = StateFailed
		return fmt.Errorf("prepare %s: %w", b.name, ErrConnectionRequired)
	}

	for _, m := range placeholder.Lint(b.statement) {
		b.logger.Warn("malformed placeholder kept as literal text",
			zap.Int("offset", m.Offset), zap.String("text", m.Snippet))
	}

	compiled, err := placeholder.Compile(b.statement)
	if err != nil {
		b.state = StateFailed
		b.logger.Error("statement rejected", zap.Error(err))
		return fmt.Errorf("prepare %s: %w", b.name, err)
	}
	b.logger.Debug("converted",
		zap.String("template", b.statement),
		zap.String("statement", compiled.Text),
		zap.Strings("parameters", compiled.Names()))

	d := b.conn.Dialect()
	key := cache.Fingerprint(d.Name(), compiled.Text, compiled.Names()...)
	b.plan = b.plans.GetOrBuild(key, func() *binder.Plan {
		return binder.NewPlan(compiled, d)
	})
	b.compiled = compiled
	b.state = StatePrepared
	return nil
}

// Init checks the connection is usable.
func (b *Builder) Init(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != StatePrepared {
		return &StateError{Op: "init", State: b.state}
	}
	if err := b.conn.Health(ctx); err != nil {
		return fmt.Errorf("init %s: %w", b.name, err)
	}
	b.state = StateInitialized
	return nil
}

func (b *Builder) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != StateInitialized && b.state != StateStopped {
		return &StateError{Op: "start", State: b.state}
	}
	b.state = StateStarted
	b.logger.Info("started", zap.String("dialect", b.plan.Dialect.Name()))
	return nil
}

func (b *Builder) Stop() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != StateStarted {
		return &StateError{Op: "stop", State: b.state}
	}
	b.state = StateStopped
	return nil
}

// Close retires the builder. The connection is left open; it may be shared.
func (b *Builder) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != StateClosed {
		b.state = StateClosed
		b.logger.Debug("closed")
	}
	return nil
}

// bind builds the driver arguments for msg from the prepared plan.
func (b *Builder) bind(msg *message.Message) (*binder.Plan, []any, error) {
	b.mu.RLock()
	state, plan, compiled := b.state, b.plan, b.compiled
	b.mu.RUnlock()

	if state != StateStarted {
		return nil, nil, fmt.Errorf("%s is %s: %w", b.name, state, ErrNotServing)
	}
	args, err := plan.Bind(compiled, msg)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", b.name, err)
	}

	if ce := b.logger.Check(zap.DebugLevel, "executing"); ce != nil {
		ce.Write(
			zap.String("message", msg.ID()),
			zap.String("sql", dialect.Interpolate(plan.Dialect, plan.SQL, args)))
	}
	return plan, args, nil
}

func (b *Builder) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if b.queryTimeout > 0 {
		return context.WithTimeout(ctx, b.queryTimeout)
	}
	return ctx, func() {}
}
