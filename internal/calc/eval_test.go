package calc

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	cases := []struct {
		expr string
		want float64
	}{
		{"2+3*4", 14},
		{"(2+3)*4", 20},
		{"10 + 5 * 2", 20},
		{"8 - 2 * 3", 2},
		{"18 / 3 + 2", 8},
		{"10-4-3", 3},
		{"64/4/2", 8},
		{"(8 - 2) * (5 - 3)", 12},
		{"-3+5", 2},
		{"2*-3", -6},
		{"(-2)*(-2)", 4},
		{"1--1", 2},
		{".5+.25", 0.75},
		{"-.5*2", -1},
		{"  7  ", 7},
		{"1/3", 1.0 / 3.0},
		{"((((1))))", 1},
	}

	for _, tc := range cases {
		t.Run(tc.expr, func(t *testing.T) {
			got, err := Evaluate(tc.expr)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestEvaluateErrors(t *testing.T) {
	cases := []struct {
		expr string
		kind ErrorKind
		msg  string
	}{
		{"10/0", DivisionByZero, "Division by zero."},
		{"1/(2-2)", DivisionByZero, "Division by zero."},
		{"2+(3*4", MismatchedParentheses, "Mismatched parentheses."},
		{"2+3)", MismatchedParentheses, "Mismatched parentheses."},
		{")(", MismatchedParentheses, "Mismatched parentheses."},
		{"abc", InvalidCharacter, "Only numbers and operators + - * / ( ) are allowed."},
		{"2^3", InvalidCharacter, "Only numbers and operators + - * / ( ) are allowed."},
		{"1.2.3", InvalidNumberFormat, "Invalid number format."},
		{"5.", InvalidNumberFormat, "Invalid number format."},
		{"-", InvalidNumberFormat, "Invalid negative number."},
		{"-(3)", InvalidNumberFormat, "Invalid negative number."},
		{"2*-", InvalidNumberFormat, "Invalid negative number."},
		{"", InvalidExpression, "Invalid expression."},
		{"()", InvalidExpression, "Invalid expression."},
		{"2+", InvalidExpression, "Invalid expression."},
		{"*2", InvalidExpression, "Invalid expression."},
		{"2(3)", InvalidExpression, "Invalid expression."},
	}

	for _, tc := range cases {
		t.Run(tc.expr, func(t *testing.T) {
			_, err := Evaluate(tc.expr)
			require.Error(t, err)

			kind, ok := KindOf(err)
			require.True(t, ok, "error %v is not a calculator error", err)
			assert.Equal(t, tc.kind, kind)
			assert.Equal(t, tc.msg, err.Error())
		})
	}
}

func TestErrorsIs(t *testing.T) {
	_, err := Evaluate("10/0")
	assert.True(t, errors.Is(err, ErrDivisionByZero))
	assert.False(t, errors.Is(err, ErrInvalidExpression))

	_, err = Evaluate("x")
	assert.True(t, errors.Is(err, ErrInvalidCharacter))
}

func TestErrorPosition(t *testing.T) {
	_, err := Evaluate("1 + 2 $")
	var ce *Error
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, 3, ce.Pos, "position is in the whitespace-stripped input")
}

func TestTokenizeUnaryMinus(t *testing.T) {
	tokens, err := Tokenize("-1-(-2)*3")
	require.NoError(t, err)

	var texts []string
	for _, tok := range tokens {
		texts = append(texts, tok.Text)
	}
	assert.Equal(t, []string{"-1", "-", "(", "-2", ")", "*", "3"}, texts)
	assert.Equal(t, Number, tokens[0].Kind)
	assert.Equal(t, Operator, tokens[1].Kind)
}

func TestToPostfix(t *testing.T) {
	tokens, err := Tokenize("1+2*3-4/(5-6)")
	require.NoError(t, err)
	postfix, err := ToPostfix(tokens)
	require.NoError(t, err)

	var texts []string
	for _, tok := range postfix {
		texts = append(texts, tok.Text)
	}
	assert.Equal(t, "1 2 3 * + 4 5 6 - / -", strings.Join(texts, " "))
}

func TestEvaluateOutOfRange(t *testing.T) {
	huge := strings.Repeat("9", 400)
	_, err := Evaluate(huge)
	assert.True(t, errors.Is(err, ErrInvalidNumberFormat))

	big := strings.Repeat("9", 300)
	_, err = Evaluate(big + "*" + big)
	assert.True(t, errors.Is(err, ErrInvalidExpression))
}

func TestErrorKindString(t *testing.T) {
	assert.Equal(t, "DivisionByZero", DivisionByZero.String())
	assert.Equal(t, "Unknown", ErrorKind(42).String())
}
