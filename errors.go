package figura

import (
	"errors"
	"fmt"
)

var (
	// ErrLex indicates a lexer failure.
	ErrLex = errors.New("lex error")

	// ErrSyntax indicates a parser failure.
	ErrSyntax = errors.New("syntax error")

	// ErrRuntime indicates an interpreter failure.
	ErrRuntime = errors.New("runtime error")

	// ErrArithmetic indicates an arithmetic failure while evaluating an expression.
	ErrArithmetic = errors.New("arithmetic error")
)

// Lexical error kinds.
var (
	ErrIdentifierTooLong = errors.New("identifier too long")
	ErrLeadingZero       = errors.New("integer with leading zero")
	ErrIntegerOverflow   = errors.New("integer overflow")
	ErrBadColorLiteral   = errors.New("bad color literal")
	ErrBadOperator       = errors.New("bad operator")
	ErrUnknownCharacter  = errors.New("unknown character")
)

// Syntax error kinds.
var (
	ErrUnexpectedToken = errors.New("unexpected token")
	ErrUnexpectedEOF   = errors.New("unexpected end of input")
	ErrEmptyCollection = errors.New("empty collection")
)

// Runtime and arithmetic error kinds.
var (
	ErrUndefinedVariable = errors.New("undefined variable")
	ErrUnknownType       = errors.New("unknown type")
	ErrUnknownMember     = errors.New("unknown member")
	ErrIndexOutOfRange   = errors.New("index out of range")
	ErrUnknownAnimation  = errors.New("unknown animation")
	ErrArgumentCount     = errors.New("wrong argument count")
	ErrTypeMismatch      = errors.New("type mismatch")
	ErrRecursion         = errors.New("recursive animation call")
	ErrDivisionByZero    = errors.New("division by zero")
)

// Error is a diagnostic carrying its category (ErrLex, ErrSyntax, ErrRuntime,
// ErrArithmetic), a specific kind and the source line it refers to.
// Both the category and the kind match with errors.Is.
type Error struct {
	Category error  // One of ErrLex, ErrSyntax, ErrRuntime, ErrArithmetic
	Kind     error  // Specific kind, e.g. ErrLeadingZero
	Msg      string // Human readable detail
	Line     int    // Source line, 0 when unknown
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%v at line %d: %s", e.Category, e.Line, e.Msg)
	}

	return fmt.Sprintf("%v: %s", e.Category, e.Msg)
}

// Unwrap exposes the category and the kind to errors.Is.
func (e *Error) Unwrap() []error {
	return []error{e.Category, e.Kind}
}

// newError builds an *Error with a formatted message.
func newError(category, kind error, line int, format string, args ...any) *Error {
	return &Error{Category: category, Kind: kind, Line: line, Msg: fmt.Sprintf(format, args...)}
}

// runtimeErrorf builds a runtime error without line information.
// The interpreter attaches the line of the failing statement later.
func runtimeErrorf(kind error, format string, args ...any) *Error {
	return newError(ErrRuntime, kind, 0, format, args...)
}

// withLine sets the line on a diagnostic that does not have one yet.
func withLine(err error, line int) error {
	var e *Error
	if errors.As(err, &e) && e.Line == 0 {
		e.Line = line
	}

	return err
}
