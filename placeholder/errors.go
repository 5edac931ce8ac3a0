package placeholder

import (
	"errors"
	"fmt"
)

var (
	// ErrUnrecognizedType indicates a type keyword outside the closed type set.
	ErrUnrecognizedType = errors.New("unrecognized parameter type")

	// ErrUnrecognizedOrigin indicates an origin keyword outside the closed origin set.
	ErrUnrecognizedOrigin = errors.New("unrecognized parameter origin")
)

// CompileError aborts a compile. It names the keyword that failed to resolve and
// the placeholder it came from. Offset is where that placeholder starts in the
// template; a placeholder that only formed after an earlier rewrite reports the
// template byte its first character came from.
type CompileError struct {
	Err         error
	Keyword     string
	Placeholder string
	Offset      int
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%v %q in placeholder %s at offset %d", e.Err, e.Keyword, e.Placeholder, e.Offset)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}
