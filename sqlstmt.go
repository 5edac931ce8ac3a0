// Package sqlstmt compiles SQL templates written with
// %sql_<origin>{<type>:<name>} placeholders into statements with #name bind
// markers and runs them through statement builders.
package sqlstmt

import (
	"context"

	"github.com/Konsultn-Engineering/sqlstmt/connector"
	"github.com/Konsultn-Engineering/sqlstmt/placeholder"
	"github.com/Konsultn-Engineering/sqlstmt/service"

	_ "github.com/Konsultn-Engineering/sqlstmt/providers/postgres"
)

type CompiledStatement = placeholder.CompiledStatement
type Descriptor = placeholder.Descriptor
type Config = connector.Config
type Connection = connector.Connection

func Compile(template string) (*CompiledStatement, error) {
	return placeholder.Compile(template)
}

func MustCompile(template string) *CompiledStatement {
	return placeholder.MustCompile(template)
}

// Connect opens a connection through the provider named in cfg.
func Connect(ctx context.Context, cfg Config) (Connection, error) {
	c, err := connector.New(cfg)
	if err != nil {
		return nil, err
	}
	return c.Connect(ctx)
}

func NewCapture(name, statement string, conn Connection, opts ...service.Option) *service.CaptureBuilder {
	return service.NewCaptureBuilder(name, statement, conn, opts...)
}

func NewQuery(name, statement string, conn Connection, translator service.ResultSetTranslator, opts ...service.Option) *service.QueryBuilder {
	return service.NewQueryBuilder(name, statement, conn, translator, opts...)
}
