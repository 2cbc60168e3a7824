package combat

import (
	"fmt"
	"strings"
)

// Code is the stable identity of an error class.
type Code string

const (
	CodeMalformedInput     Code = "MALFORMED_INPUT"
	CodeInvariantViolation Code = "INVARIANT_VIOLATION"
	CodeIllegalReplay      Code = "ILLEGAL_REPLAY"
	CodeNoFlawlessBoost    Code = "NO_FLAWLESS_BOOST"
)

// Error carries a code plus the round and unit at which it was raised.
// Derived errors are copies; sentinels are never mutated.
type Error struct {
	code  Code
	msg   string
	round int
	unit  UnitID
	cause error

	hasRound bool
	hasUnit  bool
}

var (
	ErrMalformedInput     = &Error{code: CodeMalformedInput}
	ErrInvariantViolation = &Error{code: CodeInvariantViolation}
	ErrIllegalReplay      = &Error{code: CodeIllegalReplay}
	ErrNoFlawlessBoost    = &Error{code: CodeNoFlawlessBoost}
)

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString(string(e.code))
	if e.hasRound {
		fmt.Fprintf(&b, " round=%d", e.round)
	}
	if e.hasUnit {
		fmt.Fprintf(&b, " unit=%d", e.unit)
	}
	if e.msg != "" {
		b.WriteString(": ")
		b.WriteString(e.msg)
	}
	if e.cause != nil {
		b.WriteString(": ")
		b.WriteString(e.cause.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Is matches by code only, so errors.Is(err, ErrInvariantViolation) holds
// for any derived invariant error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.code == t.code
}

func (e *Error) Code() Code {
	if e == nil {
		return ""
	}
	return e.code
}

// Round returns the round the error was raised in, if recorded.
func (e *Error) Round() (int, bool) { return e.round, e.hasRound }

// Unit returns the acting unit, if recorded.
func (e *Error) Unit() (UnitID, bool) { return e.unit, e.hasUnit }

func (e *Error) clone() *Error {
	next := *e
	return &next
}

func (e *Error) WithMsg(format string, args ...any) *Error {
	next := e.clone()
	next.msg = fmt.Sprintf(format, args...)
	return next
}

func (e *Error) WithCause(cause error) *Error {
	next := e.clone()
	next.cause = cause
	return next
}

func (e *Error) AtRound(round int) *Error {
	next := e.clone()
	next.round, next.hasRound = round, true
	return next
}

func (e *Error) ForUnit(id UnitID) *Error {
	next := e.clone()
	next.unit, next.hasUnit = id, true
	return next
}
