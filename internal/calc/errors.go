package calc

import "errors"

// ErrorKind classifies calculator failures.
type ErrorKind int

const (
	// InvalidCharacter means the input holds something other than digits,
	// '.', '+', '-', '*', '/', '(' or ')'.
	InvalidCharacter ErrorKind = iota

	// InvalidNumberFormat means a numeric run did not form a number, such as
	// a bare sign, "1.2.3" or "5.".
	InvalidNumberFormat

	// MismatchedParentheses means an unmatched ')' or a leftover '('.
	MismatchedParentheses

	// InvalidExpression means the postfix program was not well formed: an
	// operator without two operands, or a final stack that is not one value.
	InvalidExpression

	// DivisionByZero means the right operand of '/' was exactly zero.
	DivisionByZero
)

// String returns the kind name.
func (k ErrorKind) String() string {
	names := []string{
		"InvalidCharacter",
		"InvalidNumberFormat",
		"MismatchedParentheses",
		"InvalidExpression",
		"DivisionByZero",
	}
	if k >= 0 && int(k) < len(names) {
		return names[k]
	}
	return "Unknown"
}

// defaultMessage is the user-facing text shown when no more specific message
// was attached.
func (k ErrorKind) defaultMessage() string {
	switch k {
	case InvalidCharacter:
		return "Only numbers and operators + - * / ( ) are allowed."
	case InvalidNumberFormat:
		return "Invalid number format."
	case MismatchedParentheses:
		return "Mismatched parentheses."
	case InvalidExpression:
		return "Invalid expression."
	case DivisionByZero:
		return "Division by zero."
	default:
		return "Calculation failed."
	}
}

// Error is the single error type returned by the calculator. Msg is meant to
// be shown to the user verbatim.
type Error struct {
	Kind ErrorKind
	Msg  string
	Pos  int // byte offset in the whitespace-stripped input, -1 if unknown
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return e.Kind.defaultMessage()
}

// Is reports whether target is a calculator error of the same kind, so
// errors.Is(err, calc.ErrDivisionByZero) works for any message or position.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrInvalidCharacter      = &Error{Kind: InvalidCharacter, Pos: -1}
	ErrInvalidNumberFormat   = &Error{Kind: InvalidNumberFormat, Pos: -1}
	ErrMismatchedParentheses = &Error{Kind: MismatchedParentheses, Pos: -1}
	ErrInvalidExpression     = &Error{Kind: InvalidExpression, Pos: -1}
	ErrDivisionByZero        = &Error{Kind: DivisionByZero, Pos: -1}
)

// KindOf extracts the calculator error kind from err.
func KindOf(err error) (ErrorKind, bool) {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind, true
	}
	return 0, false
}

func newError(kind ErrorKind, pos int, msg string) *Error {
	if msg == "" {
		msg = kind.defaultMessage()
	}
	return &Error{Kind: kind, Msg: msg, Pos: pos}
}
