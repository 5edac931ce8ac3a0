// Package dialect describes how a target database spells positional bind
// placeholders, quotes identifiers and renders literals.
package dialect

import (
	"fmt"
	"strings"
)

type Dialect interface {
	Name() string
	QuoteIdentifier(name string) string
	// Placeholder returns the bind placeholder for the n-th (1-based) argument.
	Placeholder(n int) string
	// RenderValue renders v as a SQL literal. Only used to make debug output
	// readable; statements are always executed with bound arguments.
	RenderValue(v any) string
}

// Lookup returns the dialect registered under name, ignoring case.
func Lookup(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case "postgres", "postgresql", "pgx":
		return NewPostgresDialect(), nil
	case "mysql":
		return NewMySQLDialect(), nil
	case "tidb":
		return NewTiDBDialect(), nil
	case "sqlite", "sqlite3":
		return NewSQLiteDialect(), nil
	default:
		return nil, fmt.Errorf("unknown dialect %q", name)
	}
}

// Interpolate substitutes rendered args into a statement produced for d. It is
// meant for logs only. The statement is scanned once, so rendered values are
// never rescanned.
func Interpolate(d Dialect, statement string, args []any) string {
	numbered := d.Placeholder(1) != d.Placeholder(2)

	var b strings.Builder
	next := 0
	for i := 0; i < len(statement); {
		n := 0
		if numbered {
			// highest first so $1 does not match the start of $10
			for k := len(args); k >= 1; k-- {
				if strings.HasPrefix(statement[i:], d.Placeholder(k)) {
					n = k
					break
				}
			}
		} else if next < len(args) && strings.HasPrefix(statement[i:], d.Placeholder(1)) {
			next++
			n = next
		}
		if n == 0 {
			b.WriteByte(statement[i])
			i++
			continue
		}
		b.WriteString(d.RenderValue(args[n-1]))
		i += len(d.Placeholder(n))
	}
	return b.String()
}
