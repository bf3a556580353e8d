// Package diagnostics defines the coded errors shared by the lexer, parser,
// compiler and VM.
package diagnostics

import "fmt"

// Error codes. The prefix identifies the pipeline stage that raised it.
const (
	ErrL001 = "L001" // unrecognized character
	ErrL002 = "L002" // malformed numeric literal

	ErrP001 = "P001" // malformed expression
	ErrP002 = "P002" // empty program
	ErrP003 = "P003" // leftover tokens after a valid parse

	ErrC001 = "C001" // compiler invariant violation

	ErrR001 = "R001" // operand stack underflow
	ErrR002 = "R002" // scope stack underflow
)

// Error is a diagnostic with a stage code and a source byte offset.
// Pos is -1 when no source position applies.
type Error struct {
	Code    string
	Pos     int
	Message string
}

func NewError(code string, pos int, message string) *Error {
	return &Error{Code: code, Pos: pos, Message: message}
}

func (e *Error) Error() string {
	if e.Pos >= 0 {
		return fmt.Sprintf("[%s] %s (at offset %d)", e.Code, e.Message, e.Pos)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Sink receives recoverable runtime diagnostics. Execution continues after
// each message; only fatal conditions surface as errors.
type Sink func(message string)
