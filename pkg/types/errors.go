package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a spreadsheet error code.
type ErrorCode string

// Error codes surfaced by the formula engine. The values double as the cell
// error texts the evaluator displays.
const (
	// Lexical, syntactic and most semantic compile errors
	ErrBadExpression ErrorCode = "#BAD_EXPR"
	// Function name missing from the registry
	ErrUnknownFunction ErrorCode = "#NAME?"
	// The literal invalid-reference token
	ErrInvalidReference ErrorCode = "#REF"
)

// Causes attached to bad-expression errors, for use with errors.Is.
var (
	ErrArgCount      = errors.New("invalid number of arguments")
	ErrMetaArgument  = errors.New("argument must be a reference to a cell or range")
	ErrRangeArgument = errors.New("argument must be a range")
)

// Error represents a structured formula error.
type Error struct {
	Code     ErrorCode
	Message  string
	Position int // token index, -1 when unknown
	Token    string
	Err      error
}

// NewError creates a new formula error.
func NewError(code ErrorCode, message string, position int) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Position: position,
	}
}

// BadExpression creates an ErrBadExpression error.
func BadExpression(message string, position int) *Error {
	return NewError(ErrBadExpression, message, position)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("%s at token %d: %s", e.Code, e.Position, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithToken adds token information to the error.
func (e *Error) WithToken(token string) *Error {
	e.Token = token
	return e
}

// WithCause wraps another error.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// CodeOf returns the code of the first *Error in err's chain, or "" when
// there is none.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsBadExpression reports whether err carries ErrBadExpression.
func IsBadExpression(err error) bool {
	return CodeOf(err) == ErrBadExpression
}
