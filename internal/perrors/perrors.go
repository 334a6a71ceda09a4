// Package perrors implements the typed error taxonomy of the evaluator (spec §7).
package perrors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind is one of the PostScript-standard error names the evaluator raises.
type Kind string

const (
	StackUnderflow    Kind = "stackunderflow"
	TypeCheck         Kind = "typecheck"
	RangeCheck        Kind = "rangecheck"
	Undefined         Kind = "undefined"
	UndefinedResult   Kind = "undefinedresult"
	DictFull          Kind = "dictfull"
	InvalidAccess     Kind = "invalidaccess"
	UnmatchedMark     Kind = "unmatchedmark"
	UndefinedFilename Kind = "undefinedfilename"
	SyntaxError       Kind = "syntaxerror"
	IOError           Kind = "ioerror"
	LimitCheck        Kind = "limitcheck"
	NoCurrentPoint    Kind = "nocurrentpoint"
	InvalidFont       Kind = "invalidfont"

	// StopControl and QuitControl are not PDL-standard error names; they are
	// the typed-error-sum control-flow signals spec §9 calls for ("model
	// exceptions for error control flow as a typed error sum") backing the
	// `stop`/`stopped` and `quit` operators.
	StopControl Kind = "stop"
	QuitControl Kind = "quit"
)

// SourceLocation pinpoints where in the PDL source an error occurred.
type SourceLocation struct {
	File   string
	Line   int
	Column int
}

// PDLError is the error type the driver surfaces to the embedder.
type PDLError struct {
	Kind      Kind
	Message   string
	Op        string // operator name in progress, if any
	Location  SourceLocation
	cause     error
}

func (e *PDLError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s in /%s", e.Kind, e.Message, e.Op)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the wrapped cause to errors.Is/errors.As.
func (e *PDLError) Unwrap() error { return e.cause }

// New builds a PDLError with a formatted message.
func New(kind Kind, format string, args ...interface{}) *PDLError {
	return &PDLError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches kind and message to an underlying Go error, preserving it
// as the cause via github.com/pkg/errors so callers can still inspect the
// original failure (e.g. a filter decode error, a history-store I/O error).
func Wrap(cause error, kind Kind, format string, args ...interface{}) *PDLError {
	return &PDLError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		cause:   errors.Wrap(cause, string(kind)),
	}
}

// WithOp records the operator that was executing when the error occurred.
func (e *PDLError) WithOp(name string) *PDLError {
	e.Op = name
	return e
}

// WithLocation attaches source position information.
func (e *PDLError) WithLocation(loc SourceLocation) *PDLError {
	e.Location = loc
	return e
}

// Cause returns the deepest wrapped error, mirroring github.com/pkg/errors.Cause.
func Cause(err error) error {
	return errors.Cause(err)
}

// Is reports whether err is a PDLError of the given kind.
func Is(err error, kind Kind) bool {
	pe, ok := err.(*PDLError)
	if !ok {
		return false
	}
	return pe.Kind == kind
}
