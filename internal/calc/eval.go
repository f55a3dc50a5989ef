package calc

import "math"

// precedence of the binary operators. All are left-associative.
var precedence = map[string]int{
	"+": 1,
	"-": 1,
	"*": 2,
	"/": 2,
}

func isBinary(t Token) bool {
	_, ok := precedence[t.Text]
	return t.Kind == Operator && ok
}

// ToPostfix converts infix tokens to postfix order with the shunting-yard
// algorithm. Parentheses never appear in the output.
func ToPostfix(tokens []Token) ([]Token, error) {
	out := make([]Token, 0, len(tokens))
	var stack []Token

	for _, t := range tokens {
		switch {
		case t.Kind == Number:
			out = append(out, t)

		case isBinary(t):
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				if !isBinary(top) || precedence[top.Text] < precedence[t.Text] {
					break
				}
				out = append(out, top)
				stack = stack[:len(stack)-1]
			}
			stack = append(stack, t)

		case t.IsOp('('):
			stack = append(stack, t)

		case t.IsOp(')'):
			for len(stack) > 0 && !stack[len(stack)-1].IsOp('(') {
				out = append(out, stack[len(stack)-1])
				stack = stack[:len(stack)-1]
			}
			if len(stack) == 0 {
				return nil, newError(MismatchedParentheses, t.Pos, "")
			}
			stack = stack[:len(stack)-1]

		default:
			return nil, newError(InvalidExpression, t.Pos, "")
		}
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.IsOp('(') || top.IsOp(')') {
			return nil, newError(MismatchedParentheses, top.Pos, "")
		}
		out = append(out, top)
	}

	return out, nil
}

// EvalPostfix runs a postfix program. Each operator pops the right operand
// first, then the left one.
func EvalPostfix(tokens []Token) (float64, error) {
	stack := make([]float64, 0, len(tokens))

	for _, t := range tokens {
		if t.Kind == Number {
			v, err := t.Value()
			if err != nil {
				return 0, err
			}
			stack = append(stack, v)
			continue
		}

		if !isBinary(t) || len(stack) < 2 {
			return 0, newError(InvalidExpression, t.Pos, "")
		}
		right := stack[len(stack)-1]
		left := stack[len(stack)-2]
		stack = stack[:len(stack)-2]

		var v float64
		switch t.Text {
		case "+":
			v = left + right
		case "-":
			v = left - right
		case "*":
			v = left * right
		case "/":
			if right == 0 {
				return 0, newError(DivisionByZero, t.Pos, "")
			}
			v = left / right
		}
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return 0, newError(InvalidExpression, t.Pos, "Result is out of range.")
		}
		stack = append(stack, v)
	}

	if len(stack) != 1 {
		return 0, newError(InvalidExpression, -1, "")
	}
	return stack[0], nil
}

// Evaluate tokenizes, converts and evaluates expression. Errors are always
// *Error.
func Evaluate(expression string) (float64, error) {
	tokens, err := Tokenize(expression)
	if err != nil {
		return 0, err
	}
	postfix, err := ToPostfix(tokens)
	if err != nil {
		return 0, err
	}
	return EvalPostfix(postfix)
}
