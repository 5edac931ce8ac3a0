package service

import (
	"context"
	"fmt"

	"github.com/Konsultn-Engineering/sqlstmt/connector"
	"github.com/Konsultn-Engineering/sqlstmt/message"
)

// QueryBuilder executes a statement that returns rows and translates them
// back onto the message.
type QueryBuilder struct {
	*Builder
	translator ResultSetTranslator
}

// NewQueryBuilder uses NoOpTranslator when translator is nil.
func NewQueryBuilder(name, statement string, conn connector.Connection, translator ResultSetTranslator, opts ...Option) *QueryBuilder {
	if translator == nil {
		translator = NoOpTranslator{}
	}
	return &QueryBuilder{
		Builder:    newBuilder(name, statement, conn, opts...),
		translator: translator,
	}
}

func (q *QueryBuilder) Translator() ResultSetTranslator { return q.translator }

func (q *QueryBuilder) Service(ctx context.Context, msg *message.Message) error {
	plan, args, err := q.bind(msg)
	if err != nil {
		return err
	}

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	rows, err := q.conn.Database().QueryContext(ctx, plan.SQL, args...)
	if err != nil {
		return fmt.Errorf("query %s: %w", q.name, err)
	}
	defer rows.Close()

	if err := q.translator.Translate(rows, msg); err != nil {
		return fmt.Errorf("translate %s: %w", q.name, err)
	}
	return rows.Err()
}
