package analysis

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"mathlab/internal/classify"
	"mathlab/internal/polynomial"
)

func TestAnalyzeQuadratic(t *testing.T) {
	got := AnalyzeQuadratic(polynomial.Polynomial{A: 1, B: -3, C: 2}, classify.Function)

	want := Result{
		Type: classify.Function,
		Analysis: Summary{
			Domain:     "All real numbers",
			Range:      "[-0.25, +infinity)",
			Derivative: "2x-3",
			Symmetry:   "About line x=1.5",
		},
		KeyPoints: KeyPoints{
			Roots:          []Point{{1, 0}, {2, 0}},
			Vertex:         Vertex{Point: Point{1.5, -0.25}, Valid: true},
			Intersections:  []Point{{0, 2}, {1, 0}, {2, 0}},
			CriticalPoints: []Point{{1.5, -0.25}},
		},
		Graph: Graph{
			Expression:      "y=x^2-3x+2",
			HighlightPoints: []Point{{1, 0}, {2, 0}, {1.5, -0.25}, {0, 2}},
		},
		ExplanationSteps: "1) Identify a=1, b=-3, c=2. 2) Compute D=b^2-4ac=1. 3) Find roots and vertex. 4) Build graph expression.",
		ChatSummary:      "Parabola opens upward (minimum at vertex).",
		Detail: QuadraticDetail{
			Poly:         polynomial.Polynomial{A: 1, B: -3, C: 2},
			Discriminant: 1,
			Vertex:       Point{1.5, -0.25},
			Roots:        []float64{1, 2},
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("AnalyzeQuadratic mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyzeQuadraticOpensDownward(t *testing.T) {
	got := AnalyzeQuadratic(polynomial.Polynomial{A: -1, C: 4}, classify.Function)

	assert.Equal(t, "(-infinity, 4]", got.Analysis.Range)
	assert.Equal(t, "About line x=0", got.Analysis.Symmetry)
	assert.Equal(t, "-2x", got.Analysis.Derivative)
	assert.Equal(t, []Point{{-2, 0}, {2, 0}}, got.KeyPoints.Roots, "smaller root first")
	assert.Equal(t, "Parabola opens downward (maximum at vertex).", got.ChatSummary)
	assert.Equal(t, "y=-x^2+4", got.Graph.Expression)
}

func TestAnalyzeQuadraticRootCounts(t *testing.T) {
	repeated := AnalyzeQuadratic(polynomial.Polynomial{A: 1, B: -2, C: 1}, classify.Equation)
	assert.Equal(t, []Point{{1, 0}}, repeated.KeyPoints.Roots)
	assert.Equal(t, classify.Equation, repeated.Type)

	complexRoots := AnalyzeQuadratic(polynomial.Polynomial{A: 1, C: 1}, classify.Function)
	assert.Empty(t, complexRoots.KeyPoints.Roots)
	assert.NotNil(t, complexRoots.KeyPoints.Roots)
	assert.Equal(t, []Point{{0, 1}}, complexRoots.KeyPoints.Intersections)
	assert.Equal(t, []Point{{0, 1}, {0, 1}}, complexRoots.Graph.HighlightPoints)
}

func TestAnalyzeLinear(t *testing.T) {
	got := AnalyzeQuadratic(polynomial.Polynomial{B: 2, C: -4}, classify.Function)

	assert.Equal(t, "All real numbers", got.Analysis.Domain)
	assert.Equal(t, "All real numbers", got.Analysis.Range)
	assert.Equal(t, "2", got.Analysis.Derivative)
	assert.Equal(t, "None", got.Analysis.Symmetry)
	assert.Equal(t, []Point{{2, 0}}, got.KeyPoints.Roots)
	assert.Equal(t, []Point{{0, -4}, {2, 0}}, got.KeyPoints.Intersections)
	assert.False(t, got.KeyPoints.Vertex.Valid)
	assert.Equal(t, "y=2x-4", got.Graph.Expression)
	assert.Equal(t, "1) Simplify to linear form with b=2, c=-4. 2) Find root/intercepts. 3) Build graph expression.", got.ExplanationSteps)
	assert.Equal(t, "This is a line (not a parabola).", got.ChatSummary)
	assert.Equal(t, LinearDetail{Poly: polynomial.Polynomial{B: 2, C: -4}, HasRoot: true, Root: 2}, got.Detail)

	got.Graph.HighlightPoints[0].X = 99
	assert.Equal(t, Point{0, -4}, got.KeyPoints.Intersections[0], "highlights do not alias intersections")
}

func TestAnalyzeConstant(t *testing.T) {
	got := AnalyzeQuadratic(polynomial.Polynomial{C: 3}, classify.Function)
	assert.Equal(t, "3", got.Analysis.Range)
	assert.Empty(t, got.KeyPoints.Roots)
	assert.Equal(t, []Point{{0, 3}}, got.KeyPoints.Intersections)
	assert.Equal(t, "y=3", got.Graph.Expression)
}

func TestAnalyzeBranches(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		kind    classify.Kind
		summary string
		graph   string
	}{
		{"blank", "  ", classify.Other, "Try: f(x)=x^2-4x+3 or x^2-5x+6=0", ""},
		{"function", "f(x)=x^2-4x+3", classify.Function, "Parabola opens upward (minimum at vertex).", "y=x^2-4x+3"},
		{"bare function", "x^2 - 1", classify.Function, "Parabola opens upward (minimum at vertex).", "y=x^2-1"},
		{"unparsed function", "f(x)=sin(x)", classify.Function, "Rewrite into ax^2+bx+c form.", "y=sin(x)"},
		{"equation", "x^2-5x+6=0", classify.Equation, "Parabola opens upward (minimum at vertex).", "y=x^2-5x+6"},
		{"unparsed equation", "sin(x)=0", classify.Equation, "Rewrite into ax^2+bx+c form.", ""},
		{"bad equation", "x=1=2", classify.Equation, "Use format like x^2-5x+6=0", ""},
		{"inequality", "x^2 < 4", classify.Inequality, "Inequality recognized.", "x^2 < 4"},
		{"derivative", "derivative x^2", classify.Derivative, "Derivative mode detected.", "y=x^2"},
		{"integral", "integral x dx", classify.Integral, "Integral mode detected.", ""},
		{"other", "42", classify.Other, "Use function/equation/system/inequality/derivative/integral format.", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Analyze(tt.input)
			assert.Equal(t, tt.kind, got.Type)
			assert.Equal(t, tt.summary, got.ChatSummary)
			assert.Equal(t, tt.graph, got.Graph.Expression)
			assert.NotEmpty(t, got.ExplanationSteps)
			assert.NotNil(t, got.Detail)
		})
	}
}

func TestAnalyzeEquationDifference(t *testing.T) {
	got := Analyze("x^2 = 5x - 6")
	require.IsType(t, QuadraticDetail{}, got.Detail)
	detail := got.Detail.(QuadraticDetail)
	assert.Equal(t, polynomial.Polynomial{A: 1, B: -5, C: 6}, detail.Poly)
	assert.Equal(t, []float64{2, 3}, detail.Roots)
}

func TestAnalyzeDerivative(t *testing.T) {
	got := Analyze("d/dx x^3+1")
	assert.Equal(t, "d/dx(x^3+1)", got.Analysis.Derivative)
	assert.Equal(t, DerivativeDetail{Target: "x^3+1"}, got.Detail)

	// Only the keyword is removed; connecting words stay in the target.
	got = Analyze("Derivative of x^2")
	assert.Equal(t, "d/dx(of x^2)", got.Analysis.Derivative)
	assert.Equal(t, "y=of x^2", got.Graph.Expression)

	got = Analyze("derivative")
	assert.Equal(t, "Not provided", got.Analysis.Derivative)
	assert.Empty(t, got.Graph.Expression)
}

func TestAnalyzeIntegral(t *testing.T) {
	got := Analyze("∫ 2x dx")
	assert.Equal(t, IntegralDetail{Integrand: "2x dx"}, got.Detail)
}

func TestAnalyzeSystem(t *testing.T) {
	got := Analyze("x=2\nx=2")
	assert.Equal(t, classify.System, got.Type)
	assert.Equal(t, []Point{{2, 0}}, got.KeyPoints.Intersections)
	assert.Equal(t, []Point{{2, 0}}, got.Graph.HighlightPoints)
	assert.Equal(t, "System solved at x=2.", got.ChatSummary)
	detail := got.Detail.(SystemDetail)
	assert.True(t, detail.Solved)
	assert.Equal(t, 2.0, detail.X)

	got = Analyze("2x+1=5\n\n  x = 2  ")
	assert.Equal(t, "System solved at x=2.", got.ChatSummary)

	got = Analyze("x=1\nx=2")
	assert.Equal(t, classify.System, got.Type)
	assert.Empty(t, got.KeyPoints.Intersections)
	assert.Equal(t, "Provide two linear equations (single variable x).", got.ChatSummary)
	detail = got.Detail.(SystemDetail)
	assert.False(t, detail.Solved)
	require.Len(t, detail.Solutions, 2)
	assert.Equal(t, 1.0, *detail.Solutions[0])
	assert.Equal(t, 2.0, *detail.Solutions[1])

	got = Analyze("x^2=4\nx=2")
	assert.Equal(t, "System recognized; current solver supports simple linear equations in x.", got.ExplanationSteps)
	detail = got.Detail.(SystemDetail)
	assert.Nil(t, detail.Solutions[0])

	got = Analyze("x=1\nx=1\nx=1")
	assert.False(t, got.Detail.(SystemDetail).Solved)
}

func TestResultJSON(t *testing.T) {
	data, err := json.Marshal(Analyze("f(x)=x^2-4x+3"))
	require.NoError(t, err)

	want := `{
		"type": "Function",
		"analysis": {
			"domain": "All real numbers",
			"range": "[-1, +infinity)",
			"derivative": "2x-4",
			"symmetry": "About line x=2"
		},
		"key_points": {
			"roots": [[1,0],[3,0]],
			"vertex": [2,-1],
			"intersections": [[0,3],[1,0],[3,0]],
			"critical_points": [[2,-1]]
		},
		"graph": {
			"expression": "y=x^2-4x+3",
			"highlight_points": [[1,0],[3,0],[2,-1],[0,3]]
		},
		"explanation_steps": "1) Identify a=1, b=-4, c=3. 2) Compute D=b^2-4ac=4. 3) Find roots and vertex. 4) Build graph expression.",
		"chat_summary": "Parabola opens upward (minimum at vertex)."
	}`
	assert.JSONEq(t, want, string(data))
}

func TestResultJSONEmptyCollections(t *testing.T) {
	data, err := json.Marshal(Analyze(""))
	require.NoError(t, err)
	s := string(data)
	assert.Contains(t, s, `"roots":[]`)
	assert.Contains(t, s, `"vertex":[]`)
	assert.Contains(t, s, `"highlight_points":[]`)
	assert.NotContains(t, s, "null")

	var back Result
	require.NoError(t, json.Unmarshal(data, &back))
	assert.False(t, back.KeyPoints.Vertex.Valid)
	assert.Equal(t, classify.Other, back.Type)
}

func TestNegativeZeroIsFolded(t *testing.T) {
	// -c/b with c = 0 yields -0.
	got := Analyze("x=0\nx=0")
	data, err := json.Marshal(got.KeyPoints.Intersections)
	require.NoError(t, err)
	assert.Equal(t, "[[0,0]]", string(data))
}

func TestEngineLogs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	e := NewEngine(zap.New(core))

	e.Analyze("x<3")

	entries := logs.FilterMessage("analyzed input").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "Inequality", fields["type"])
	assert.Equal(t, "inequality", fields["rule"])
	assert.Equal(t, "inequality", fields["detail"])
}

func TestMarkdown(t *testing.T) {
	md := Analyze("y = x^2 - 3x + 2").Markdown()
	assert.True(t, strings.HasPrefix(md, "## Function\n"))
	assert.Contains(t, md, "- **Range:** `[-0.25, +infinity)`")
	assert.Contains(t, md, "- **Vertex:** (1.5, -0.25)")
	assert.Contains(t, md, "- **Roots:** (1, 0), (2, 0)")
	assert.Contains(t, md, "### Steps")
	assert.Contains(t, md, "1\\) Identify a=1, b=-3, c=2. 2) Compute")
	assert.NotContains(t, md, "\n1) ")
}
