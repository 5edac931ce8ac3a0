package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Konsultn-Engineering/sqlstmt/connector"
	"github.com/Konsultn-Engineering/sqlstmt/message"
	"go.uber.org/zap"
)

// RowsAffectedKey is the metadata key a capture writes its row count to.
const RowsAffectedKey = "sqlstmt.rows-affected"

// CaptureBuilder executes a statement that returns no rows, typically an
// insert of message data.
type CaptureBuilder struct {
	*Builder
}

func NewCaptureBuilder(name, statement string, conn connector.Connection, opts ...Option) *CaptureBuilder {
	return &CaptureBuilder{Builder: newBuilder(name, statement, conn, opts...)}
}

func (c *CaptureBuilder) Service(ctx context.Context, msg *message.Message) error {
	plan, args, err := c.bind(msg)
	if err != nil {
		return err
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	res, err := c.conn.Database().ExecContext(ctx, plan.SQL, args...)
	if err != nil {
		return fmt.Errorf("capture %s: %w", c.name, err)
	}
	if n, err := res.RowsAffected(); err == nil {
		msg.SetMetadata(RowsAffectedKey, strconv.FormatInt(n, 10))
		c.logger.Debug("captured", zap.String("message", msg.ID()), zap.Int64("rows", n))
	}
	return nil
}
