// Package polynomial parses and renders polynomials of degree at most two in
// the single variable x.
package polynomial

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"mathlab/internal/numfmt"
)

// Polynomial is a·x² + b·x + c.
type Polynomial struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
	C float64 `json:"c"`
}

// ErrUnsupported is wrapped by every Extract failure.
var ErrUnsupported = errors.New("unsupported polynomial term")

// Sub returns p - q coefficient-wise.
func (p Polynomial) Sub(q Polynomial) Polynomial {
	return Polynomial{A: p.A - q.A, B: p.B - q.B, C: p.C - q.C}
}

// Degree is 2, 1 or 0. The zero polynomial has degree 0.
func (p Polynomial) Degree() int {
	switch {
	case p.A != 0:
		return 2
	case p.B != 0:
		return 1
	default:
		return 0
	}
}

// Eval evaluates p at x.
func (p Polynomial) Eval(x float64) float64 {
	return (p.A*x+p.B)*x + p.C
}

// String renders p canonically: zero terms are omitted, unit coefficients
// drop the numeral, and every term after the first carries its sign, e.g.
// "x^2-3x+2", "-x+4", "0".
func (p Polynomial) String() string {
	var sb strings.Builder
	writeTerm(&sb, p.A, "x^2")
	writeTerm(&sb, p.B, "x")
	writeTerm(&sb, p.C, "")
	if sb.Len() == 0 {
		return "0"
	}
	return sb.String()
}

func writeTerm(sb *strings.Builder, coeff float64, variable string) {
	if coeff == 0 {
		return
	}
	first := sb.Len() == 0

	var num string
	switch {
	case variable != "" && coeff == 1:
		num = "+"
	case variable != "" && coeff == -1:
		num = "-"
	default:
		num = numfmt.Signed(coeff)
	}
	if first {
		num = strings.TrimPrefix(num, "+")
	}
	sb.WriteString(num)
	sb.WriteString(variable)
}

// Normalize removes whitespace and '*' (implicit multiplication) and folds
// 'X' to 'x'.
func Normalize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsSpace(r), r == '*':
			return -1
		case r == 'X':
			return 'x'
		}
		return r
	}, s)
}

// Terms splits a normalized string into signed terms. The first term may be
// unsigned. A sign that is not followed by a term body is an error.
func Terms(s string) ([]string, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrUnsupported)
	}
	var terms []string
	for i := 0; i < len(s); {
		start := i
		if s[i] == '+' || s[i] == '-' {
			i++
		}
		bodyStart := i
		for i < len(s) && s[i] != '+' && s[i] != '-' {
			i++
		}
		if i == bodyStart {
			return nil, fmt.Errorf("%w: dangling sign at offset %d", ErrUnsupported, start)
		}
		terms = append(terms, s[start:i])
	}
	return terms, nil
}

// Extract parses s into coefficients. The string is normalized first, so
// "2X^2 - 3*x + 1" is accepted. Any term outside {k·x², k·x, k} fails the
// whole parse; repeated terms of one degree are summed.
func Extract(s string) (Polynomial, error) {
	terms, err := Terms(Normalize(s))
	if err != nil {
		return Polynomial{}, err
	}

	var p Polynomial
	for _, term := range terms {
		coeffText, degree, ok := splitVariable(term)
		if !ok {
			return Polynomial{}, fmt.Errorf("%w: %q", ErrUnsupported, term)
		}

		var v float64
		if degree == 0 {
			v, ok = parseNumber(coeffText)
		} else {
			v, ok = parseCoefficient(coeffText)
		}
		if !ok {
			return Polynomial{}, fmt.Errorf("%w: bad coefficient in %q", ErrUnsupported, term)
		}

		switch degree {
		case 2:
			p.A += v
		case 1:
			p.B += v
		default:
			p.C += v
		}
	}
	return p, nil
}

// splitVariable separates a term into its coefficient text and the power of
// x it carries. x may appear once, as a suffix "x", "x^1" or "x^2".
func splitVariable(term string) (coeff string, degree int, ok bool) {
	idx := strings.IndexByte(term, 'x')
	if idx < 0 {
		return term, 0, true
	}
	coeff, suffix := term[:idx], term[idx:]
	switch suffix {
	case "x", "x^1":
		return coeff, 1, true
	case "x^2":
		return coeff, 2, true
	default:
		return "", 0, false
	}
}

// parseCoefficient reads the signed numeral in front of x: "" and "+" are 1,
// "-" is -1.
func parseCoefficient(s string) (float64, bool) {
	switch s {
	case "", "+":
		return 1, true
	case "-":
		return -1, true
	}
	return parseNumber(s)
}

// parseNumber accepts an optionally signed decimal: digits with an optional
// fraction, or a bare fraction such as ".5".
func parseNumber(s string) (float64, bool) {
	body := strings.TrimLeft(s, "+-")
	if len(s)-len(body) > 1 || !isDecimal(body) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func isDecimal(s string) bool {
	intPart, frac, hasPoint := strings.Cut(s, ".")
	digits := func(t string) bool {
		for i := 0; i < len(t); i++ {
			if t[i] < '0' || t[i] > '9' {
				return false
			}
		}
		return true
	}
	if !digits(intPart) || !digits(frac) {
		return false
	}
	if hasPoint {
		return intPart != "" || frac != ""
	}
	return intPart != ""
}
