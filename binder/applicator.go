// Package binder turns a compiled statement into one a driver can execute: it
// swaps #name bind markers for the positional placeholders of a dialect and
// builds the argument list for a message.
package binder

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Konsultn-Engineering/sqlstmt/dialect"
	"github.com/Konsultn-Engineering/sqlstmt/message"
	"github.com/Konsultn-Engineering/sqlstmt/placeholder"
)

var ErrUnknownParameter = errors.New("unknown parameter")

// BindError reports a value that could not be converted for its parameter.
type BindError struct {
	Name  string
	Type  placeholder.TypeKind
	Value any
	Err   error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("bind %s as %s from %q: %v", e.Name, e.Type, fmt.Sprint(e.Value), e.Err)
}

func (e *BindError) Unwrap() error {
	return e.Err
}

// Plan is a statement rewritten for a dialect. Names[i] and Params[i] are the
// parameter name and the index into the compiled statement's Parameters that
// feed the i-th positional placeholder. Plans are immutable.
type Plan struct {
	SQL     string
	Names   []string
	Params  []int
	Dialect dialect.Dialect
}

// NewPlan replaces the markers the compiler wrote, at the offsets it recorded,
// with positional placeholders. Any other '#' in stmt.Text is literal SQL and
// is left alone. A marker nested inside a longer one at the same offset is
// absorbed by it.
func NewPlan(stmt *placeholder.CompiledStatement, d dialect.Dialect) *Plan {
	idx := make([]int, len(stmt.Markers))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ia, ib := idx[a], idx[b]
		if stmt.Markers[ia] != stmt.Markers[ib] {
			return stmt.Markers[ia] < stmt.Markers[ib]
		}
		return len(stmt.Parameters[ia].Name) > len(stmt.Parameters[ib].Name)
	})

	p := &Plan{Dialect: d}
	var b strings.Builder
	text := stmt.Text
	end := 0
	for _, i := range idx {
		at := stmt.Markers[i]
		if at < end {
			continue
		}
		name := stmt.Parameters[i].Name
		b.WriteString(text[end:at])
		p.Names = append(p.Names, name)
		p.Params = append(p.Params, i)
		b.WriteString(d.Placeholder(len(p.Names)))
		end = at + len(placeholder.Marker(name))
	}
	b.WriteString(text[end:])
	p.SQL = b.String()
	return p
}

// Bind resolves and converts one argument per placeholder, in order. stmt must
// be the statement the plan was built from.
func (p *Plan) Bind(stmt *placeholder.CompiledStatement, msg *message.Message) ([]any, error) {
	if len(p.Params) != len(p.Names) {
		return nil, fmt.Errorf("%w: plan has %d names for %d parameters", ErrUnknownParameter, len(p.Names), len(p.Params))
	}
	args := make([]any, len(p.Names))
	for i, name := range p.Names {
		at := p.Params[i]
		if at < 0 || at >= len(stmt.Parameters) || stmt.Parameters[at].Name != name {
			return nil, fmt.Errorf("%w %q", ErrUnknownParameter, name)
		}
		d := stmt.Parameters[at]
		raw, err := Resolve(d, msg)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", name, err)
		}
		v, err := Coerce(d.Type, raw)
		if err != nil {
			return nil, &BindError{Name: name, Type: d.Type, Value: raw, Err: err}
		}
		args[i] = v
	}
	return args, nil
}
