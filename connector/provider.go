package connector

import (
	"context"

	"github.com/Konsultn-Engineering/sqlstmt/dialect"
)

type Provider interface {
	Connect(ctx context.Context, config Config) (Connection, error)
	Dialect() dialect.Dialect
}
