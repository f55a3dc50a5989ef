// Package calc evaluates infix arithmetic over + - * / and parentheses.
//
// Evaluation runs in three total stages: Tokenize scans the input into
// number and operator tokens, ToPostfix reorders them with the
// shunting-yard algorithm, and EvalPostfix runs the postfix program on a
// numeric stack. Every stage either consumes its whole input or returns an
// *Error.
package calc

import (
	"strconv"
	"strings"
	"unicode"
)

// TokenKind tags a Token.
type TokenKind int

const (
	// Number is a numeric literal, possibly carrying a fused unary minus.
	Number TokenKind = iota
	// Operator is one of + - * / ( ).
	Operator
)

// Token is a single lexeme of an arithmetic expression.
type Token struct {
	Kind TokenKind
	Text string
	Pos  int
}

func (t Token) String() string { return t.Text }

// IsOp reports whether t is the operator op.
func (t Token) IsOp(op byte) bool {
	return t.Kind == Operator && len(t.Text) == 1 && t.Text[0] == op
}

// Value parses a Number token.
func (t Token) Value() (float64, error) {
	if t.Kind != Number {
		return 0, newError(InvalidExpression, t.Pos, "")
	}
	v, err := strconv.ParseFloat(t.Text, 64)
	if err != nil {
		return 0, newError(InvalidNumberFormat, t.Pos, "Number is out of range.")
	}
	return v, nil
}

const operators = "+-*/()"

// unaryContext holds the characters after which '-' starts a negative
// literal instead of being subtraction.
const unaryContext = "+-*/("

func isNumberChar(c byte) bool {
	return (c >= '0' && c <= '9') || c == '.'
}

// stripSpace removes every whitespace rune.
func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// Tokenize strips whitespace and scans expression left to right.
func Tokenize(expression string) ([]Token, error) {
	clean := stripSpace(expression)

	for i := 0; i < len(clean); i++ {
		c := clean[i]
		if !isNumberChar(c) && strings.IndexByte(operators, c) < 0 {
			return nil, newError(InvalidCharacter, i, "")
		}
	}

	tokens := make([]Token, 0, len(clean))
	for i := 0; i < len(clean); {
		c := clean[i]

		if c == '-' && (i == 0 || strings.IndexByte(unaryContext, clean[i-1]) >= 0) {
			j := scanNumber(clean, i+1)
			lexeme := clean[i:j]
			if !validNumber(lexeme[1:]) {
				return nil, newError(InvalidNumberFormat, i, "Invalid negative number.")
			}
			tokens = append(tokens, Token{Kind: Number, Text: lexeme, Pos: i})
			i = j
			continue
		}

		if strings.IndexByte(operators, c) >= 0 {
			tokens = append(tokens, Token{Kind: Operator, Text: string(c), Pos: i})
			i++
			continue
		}

		j := scanNumber(clean, i)
		lexeme := clean[i:j]
		if !validNumber(lexeme) {
			return nil, newError(InvalidNumberFormat, i, "")
		}
		tokens = append(tokens, Token{Kind: Number, Text: lexeme, Pos: i})
		i = j
	}

	return tokens, nil
}

func scanNumber(s string, from int) int {
	j := from
	for j < len(s) && isNumberChar(s[j]) {
		j++
	}
	return j
}

// validNumber accepts [0-9]*\.?[0-9]+ : optional integer digits, at most one
// point, and at least one trailing digit.
func validNumber(s string) bool {
	if s == "" {
		return false
	}
	intPart, frac, hasPoint := strings.Cut(s, ".")
	if !hasPoint {
		return allDigits(intPart)
	}
	if intPart != "" && !allDigits(intPart) {
		return false
	}
	return frac != "" && allDigits(frac)
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
