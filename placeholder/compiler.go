// Package placeholder compiles SQL templates annotated with typed placeholders
// of the form %sql_<origin>{<type>:<name>} into a statement carrying #name bind
// markers and the ordered list of parameter descriptors for those markers.
//
//	INSERT INTO person (id, name) VALUES (%sql_id{string:id}, %sql_payload{string:name})
//
// compiles to
//
//	INSERT INTO person (id, name) VALUES (#id, #name)
//
// with descriptors [id:string/id, name:string/payload]. Compilation does no I/O
// and keeps no state between calls, so it is safe for concurrent use.
package placeholder

import (
	"fmt"
	"sort"
)

// CompiledStatement is the rewritten statement and its parameters in
// left-to-right order. Markers[i] is the byte offset in Text of the marker
// written for Parameters[i]. It is never modified after Compile returns.
type CompiledStatement struct {
	Text       string       `json:"statement" yaml:"statement"`
	Parameters []Descriptor `json:"parameters" yaml:"parameters"`
	Markers    []int        `json:"markers,omitempty" yaml:"markers,omitempty"`
}

// Names returns the parameter names in order, duplicates included.
func (c *CompiledStatement) Names() []string {
	names := make([]string, len(c.Parameters))
	for i, p := range c.Parameters {
		names[i] = p.Name
	}
	return names
}

// Lookup returns the first parameter with the given name.
func (c *CompiledStatement) Lookup(name string) (Descriptor, bool) {
	for _, p := range c.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return Descriptor{}, false
}

type positioned struct {
	desc Descriptor
	pos  int
}

// rewrite records one Rewrite call so offsets can be traced back to the
// template.
type rewrite struct {
	at           []int
	width, shift int
}

// Compile rewrites every placeholder in template to a bind marker. The first
// placeholder whose origin or type does not resolve aborts the whole call and
// nothing but the *CompileError is returned.
func Compile(template string) (*CompiledStatement, error) {
	text := template
	var params []positioned
	var steps []rewrite

	for {
		m, ok := Scan(text)
		if !ok {
			break
		}

		origin, ok := ParseOrigin(m.Origin)
		if !ok {
			return nil, compileError(ErrUnrecognizedOrigin, m, steps)
		}
		_, ctor, ok := LookupType(m.Type)
		if !ok {
			return nil, compileError(ErrUnrecognizedType, m, steps)
		}

		next, at := Rewrite(text, m)
		shift := len(m.Text) - len(Marker(m.Name))
		for i := range params {
			params[i].pos = remap(params[i].pos, at, len(m.Text), shift)
		}
		for _, pos := range at {
			params = append(params, positioned{desc: ctor(template, m.Name, origin), pos: pos})
		}
		steps = append(steps, rewrite{at: at, width: len(m.Text), shift: shift})
		text = next
	}

	sort.SliceStable(params, func(i, j int) bool { return params[i].pos < params[j].pos })

	out := &CompiledStatement{
		Text:       text,
		Parameters: make([]Descriptor, len(params)),
		Markers:    make([]int, len(params)),
	}
	for i, p := range params {
		out.Parameters[i] = p.desc
		out.Markers[i] = p.pos
	}
	return out, nil
}

// MustCompile is like Compile but panics on error. Use it for templates fixed
// at build time.
func MustCompile(template string) *CompiledStatement {
	c, err := Compile(template)
	if err != nil {
		panic(fmt.Sprintf("placeholder: Compile(%q): %v", template, err))
	}
	return c
}

// remap moves an offset in the text before a rewrite to the text after it.
// at holds the marker offsets in the new text; each replaced span was
// width bytes long and shrank by shift bytes.
func remap(pos int, at []int, width, shift int) int {
	for i, newAt := range at {
		oldAt := newAt + i*shift
		switch {
		case pos < oldAt:
			return pos - i*shift
		case pos < oldAt+width:
			return newAt
		}
	}
	return pos - len(at)*shift
}

// unmap is the inverse of remap. An offset inside a marker's name lands on
// the same byte of the name in the placeholder it replaced; the marker prefix
// lands on the placeholder's first byte.
func unmap(pos int, at []int, width, shift int) int {
	marker := width - shift
	for i, newAt := range at {
		oldAt := newAt + i*shift
		switch {
		case pos < newAt:
			return pos + i*shift
		case pos == newAt:
			return oldAt
		case pos < newAt+marker:
			return oldAt + shift + pos - newAt - 1
		}
	}
	return pos + len(at)*shift
}

func compileError(err error, m Match, steps []rewrite) *CompileError {
	keyword := m.Origin
	if err == ErrUnrecognizedType {
		keyword = m.Type
	}
	pos := m.Start
	for i := len(steps) - 1; i >= 0; i-- {
		pos = unmap(pos, steps[i].at, steps[i].width, steps[i].shift)
	}
	return &CompileError{
		Err:         err,
		Keyword:     keyword,
		Placeholder: m.Text,
		Offset:      pos,
	}
}
