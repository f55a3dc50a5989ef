// Package analysis turns free-text math input into a structured description:
// domain, range, derivative, roots, vertex and a graph expression, plus a short
// human explanation.
//
// Analysis never fails. Input that cannot be analyzed produces a partial Result
// whose ExplanationSteps and ChatSummary say what was recognized.
package analysis

import (
	"math"
	"strings"

	"go.uber.org/zap"

	"mathlab/internal/classify"
	"mathlab/internal/numfmt"
	"mathlab/internal/polynomial"
)

// SystemTolerance is the absolute tolerance within which two per-line
// solutions of a system count as the same point.
const SystemTolerance = 1e-9

// Engine analyzes input with a classifier and an optional logger.
type Engine struct {
	classifier *classify.Classifier
	logger     *zap.Logger
}

// NewEngine returns an engine using the default classification rules. A nil
// logger disables logging.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{classifier: classify.New(nil), logger: logger}
}

var defaultEngine = NewEngine(nil)

// Analyze analyzes text with the default engine.
func Analyze(text string) Result {
	return defaultEngine.Analyze(text)
}

// Analyze classifies text and dispatches to the matching branch.
func (e *Engine) Analyze(text string) Result {
	input := strings.TrimSpace(text)
	kind, rule := e.classifier.Explain(input)

	var out Result
	switch {
	case input == "":
		out = analyzeBlank()
	case kind == classify.Function:
		out = analyzeFunction(input)
	case kind == classify.Equation:
		out = analyzeEquation(input)
	case kind == classify.System:
		out = analyzeSystem(input)
	case kind == classify.Inequality:
		out = analyzeInequality(input)
	case kind == classify.Derivative:
		out = analyzeDerivative(input)
	case kind == classify.Integral:
		out = analyzeIntegral(input)
	default:
		out = analyzeOther()
	}

	e.logger.Debug("analyzed input",
		zap.Stringer("type", out.Type),
		zap.String("rule", rule),
		zap.String("detail", detailName(out.Detail)),
		zap.Int("input_len", len(input)))
	return out
}

func analyzeBlank() Result {
	out := newResult(classify.Other)
	out.ExplanationSteps = "Please provide a mathematical input."
	out.ChatSummary = "Try: f(x)=x^2-4x+3 or x^2-5x+6=0"
	out.Detail = OtherDetail{Blank: true}
	return out
}

func analyzeFunction(input string) Result {
	expr := strings.TrimSpace(classify.FunctionHead().ReplaceAllString(input, ""))
	p, err := polynomial.Extract(expr)
	if err != nil {
		out := unparsed(classify.Function, expr, err)
		out.Graph.Expression = "y=" + expr
		return out
	}
	return AnalyzeQuadratic(p, classify.Function)
}

func analyzeEquation(input string) Result {
	sides := strings.Split(input, "=")
	if len(sides) != 2 {
		out := newResult(classify.Equation)
		out.ExplanationSteps = "Equation format is invalid."
		out.ChatSummary = "Use format like x^2-5x+6=0"
		out.Detail = UnparsedDetail{Expression: input, Reason: "expected exactly one '='"}
		return out
	}

	p, err := equationPolynomial(sides)
	if err != nil {
		return unparsed(classify.Equation, input, err)
	}
	return AnalyzeQuadratic(p, classify.Equation)
}

// equationPolynomial reduces the two sides of "L=R" to L-R.
func equationPolynomial(sides []string) (polynomial.Polynomial, error) {
	left, err := polynomial.Extract(sides[0])
	if err != nil {
		return polynomial.Polynomial{}, err
	}
	right, err := polynomial.Extract(sides[1])
	if err != nil {
		return polynomial.Polynomial{}, err
	}
	return left.Sub(right), nil
}

func unparsed(kind classify.Kind, expr string, err error) Result {
	out := newResult(kind)
	out.ExplanationSteps = "Recognized input, but parser currently supports quadratic polynomial form."
	out.ChatSummary = "Rewrite into ax^2+bx+c form."
	out.Detail = UnparsedDetail{Expression: expr, Reason: err.Error()}
	return out
}

func analyzeSystem(input string) Result {
	out := newResult(classify.System)

	var lines []string
	for _, line := range strings.Split(input, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	detail := SystemDetail{Lines: lines, Solutions: make([]*float64, len(lines))}
	for i, line := range lines {
		if x, ok := solveLinear(line); ok {
			detail.Solutions[i] = &x
		}
	}

	if len(lines) == 2 && detail.Solutions[0] != nil && detail.Solutions[1] != nil {
		x1, x2 := *detail.Solutions[0], *detail.Solutions[1]
		if math.Abs(x1-x2) < SystemTolerance {
			detail.Solved = true
			detail.X = x1
			common := pt(x1, 0)
			out.KeyPoints.Intersections = []Point{common}
			out.Graph.HighlightPoints = []Point{common}
			out.ExplanationSteps = "1) Solve each equation for x. 2) Match solutions. 3) Mark common point."
			out.ChatSummary = "System solved at x=" + numfmt.Format(x1) + "."
			out.Detail = detail
			return out
		}
	}

	out.ExplanationSteps = "System recognized; current solver supports simple linear equations in x."
	out.ChatSummary = "Provide two linear equations (single variable x)."
	out.Detail = detail
	return out
}

func analyzeInequality(input string) Result {
	out := newResult(classify.Inequality)
	out.Graph.Expression = input
	out.ExplanationSteps = "1) Move terms to one side. 2) Find boundary values. 3) Test intervals."
	out.ChatSummary = "Inequality recognized."
	out.Detail = InequalityDetail{Expression: input}
	return out
}

func analyzeDerivative(input string) Result {
	target := strings.TrimSpace(classify.DerivativePrefix().ReplaceAllString(input, ""))

	out := newResult(classify.Derivative)
	if target != "" {
		out.Analysis.Derivative = "d/dx(" + target + ")"
		out.Graph.Expression = "y=" + target
	} else {
		out.Analysis.Derivative = "Not provided"
	}
	out.ExplanationSteps = "1) Detect derivative request. 2) Extract target function. 3) Apply derivative rules."
	out.ChatSummary = "Derivative mode detected."
	out.Detail = DerivativeDetail{Target: target}
	return out
}

func analyzeIntegral(input string) Result {
	integrand := strings.TrimSpace(classify.IntegralPrefix().ReplaceAllString(input, ""))

	out := newResult(classify.Integral)
	out.ExplanationSteps = "1) Detect integral request. 2) Identify integrand/bounds. 3) Apply integration rules."
	out.ChatSummary = "Integral mode detected."
	out.Detail = IntegralDetail{Integrand: integrand}
	return out
}

func analyzeOther() Result {
	out := newResult(classify.Other)
	out.ExplanationSteps = "Input type recognized as Other."
	out.ChatSummary = "Use function/equation/system/inequality/derivative/integral format."
	out.Detail = OtherDetail{}
	return out
}

func detailName(d Detail) string {
	switch d.(type) {
	case QuadraticDetail:
		return "quadratic"
	case LinearDetail:
		return "linear"
	case UnparsedDetail:
		return "unparsed"
	case SystemDetail:
		return "system"
	case InequalityDetail:
		return "inequality"
	case DerivativeDetail:
		return "derivative"
	case IntegralDetail:
		return "integral"
	case OtherDetail:
		return "other"
	default:
		return "none"
	}
}
