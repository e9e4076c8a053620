package rewrite

import (
	"errors"
	"fmt"

	"github.com/mvp-joe/verus-rewrite/internal/cst"
)

// ErrMalformedInput signals that the upstream grammar violated a structural
// invariant this package relies on. Traversal aborts whole; there is no
// partially-reconstructed output.
var ErrMalformedInput = errors.New("malformed input")

// MalformedInputError reports which node violated the invariant.
type MalformedInputError struct {
	Kind   cst.Kind
	Line   int
	Reason string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed input: %s (kind %q, line %d)", e.Reason, e.Kind, e.Line)
}

func (e *MalformedInputError) Unwrap() error {
	return ErrMalformedInput
}
