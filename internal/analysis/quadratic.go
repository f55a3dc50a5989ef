package analysis

import (
	"fmt"
	"math"
	"strings"

	"mathlab/internal/classify"
	"mathlab/internal/numfmt"
	"mathlab/internal/polynomial"
)

const (
	allReals = "All real numbers"

	summaryUpward   = "Parabola opens upward (minimum at vertex)."
	summaryDownward = "Parabola opens downward (maximum at vertex)."
	summaryLine     = "This is a line (not a parabola)."
)

// AnalyzeQuadratic analyzes a·x²+bx+c. kind is reported as the result type,
// normally Function or Equation. a = 0 falls through to the linear case.
func AnalyzeQuadratic(p polynomial.Polynomial, kind classify.Kind) Result {
	if p.Degree() < 2 {
		return analyzeLinear(p, kind)
	}
	a, b, c := p.A, p.B, p.C
	out := newResult(kind)

	d := b*b - 4*a*c
	vx := -b / (2 * a)
	vy := p.Eval(vx)
	vertex := pt(vx, vy)

	out.Analysis.Domain = allReals
	if a > 0 {
		out.Analysis.Range = fmt.Sprintf("[%s, +infinity)", numfmt.Format(vy))
	} else {
		out.Analysis.Range = fmt.Sprintf("(-infinity, %s]", numfmt.Format(vy))
	}
	out.Analysis.Derivative = polynomial.Polynomial{B: 2 * a, C: b}.String()
	out.Analysis.Symmetry = "About line x=" + numfmt.Format(vx)

	roots := quadraticRoots(a, b, d)
	for _, r := range roots {
		out.KeyPoints.Roots = append(out.KeyPoints.Roots, pt(r, 0))
	}
	out.KeyPoints.Vertex = Vertex{Point: vertex, Valid: true}
	out.KeyPoints.Intersections = append([]Point{pt(0, c)}, out.KeyPoints.Roots...)
	out.KeyPoints.CriticalPoints = []Point{vertex}

	out.Graph.Expression = "y=" + p.String()
	highlights := make([]Point, 0, len(out.KeyPoints.Roots)+2)
	highlights = append(highlights, out.KeyPoints.Roots...)
	out.Graph.HighlightPoints = append(highlights, vertex, pt(0, c))

	out.ExplanationSteps = fmt.Sprintf(
		"1) Identify a=%s, b=%s, c=%s. 2) Compute D=b^2-4ac=%s. 3) Find roots and vertex. 4) Build graph expression.",
		numfmt.Format(a), numfmt.Format(b), numfmt.Format(c), numfmt.Format(d))
	if a > 0 {
		out.ChatSummary = summaryUpward
	} else {
		out.ChatSummary = summaryDownward
	}

	out.Detail = QuadraticDetail{Poly: p, Discriminant: d, Vertex: vertex, Roots: roots}
	return out
}

// quadraticRoots returns the real roots in ascending order.
func quadraticRoots(a, b, d float64) []float64 {
	switch {
	case d > 0:
		sq := math.Sqrt(d)
		r1 := (-b - sq) / (2 * a)
		r2 := (-b + sq) / (2 * a)
		if r1 > r2 {
			r1, r2 = r2, r1
		}
		return []float64{r1, r2}
	case d == 0:
		return []float64{-b / (2 * a)}
	default:
		return nil
	}
}

func analyzeLinear(p polynomial.Polynomial, kind classify.Kind) Result {
	b, c := p.B, p.C
	out := newResult(kind)

	out.Analysis.Domain = allReals
	if p.Degree() == 0 {
		out.Analysis.Range = numfmt.Format(c)
	} else {
		out.Analysis.Range = allReals
	}
	out.Analysis.Derivative = numfmt.Format(b)
	out.Analysis.Symmetry = "None"

	detail := LinearDetail{Poly: p}
	if p.Degree() == 1 {
		detail.HasRoot = true
		detail.Root = -c/b + 0
		out.KeyPoints.Roots = []Point{pt(detail.Root, 0)}
	}
	out.KeyPoints.Intersections = append([]Point{pt(0, c)}, out.KeyPoints.Roots...)
	out.Graph.Expression = "y=" + p.String()
	out.Graph.HighlightPoints = append([]Point(nil), out.KeyPoints.Intersections...)

	out.ExplanationSteps = fmt.Sprintf(
		"1) Simplify to linear form with b=%s, c=%s. 2) Find root/intercepts. 3) Build graph expression.",
		numfmt.Format(b), numfmt.Format(c))
	out.ChatSummary = summaryLine

	out.Detail = detail
	return out
}

// solveLinear reduces "L=R" to bx+c=0 and returns its root. It reports false
// when the line is not a single '=' equation, does not parse, is quadratic,
// or has no x term.
func solveLinear(line string) (float64, bool) {
	sides := strings.Split(line, "=")
	if len(sides) != 2 {
		return 0, false
	}
	p, err := equationPolynomial(sides)
	if err != nil || p.A != 0 || p.B == 0 {
		return 0, false
	}
	return -p.C/p.B + 0, true
}
