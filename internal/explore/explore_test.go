package explore

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolveQuadratic(t *testing.T) {
	tests := []struct {
		name       string
		a, b, c    float64
		kind       RootKind
		roots      []float64
		vx, vy     float64
		wantString string
	}{
		{
			name: "two roots", a: 1, b: -3, c: 2,
			kind: TwoRealRoots, roots: []float64{2, 1}, vx: 1.5, vy: -0.25,
			wantString: "Discriminant: 1. Two real roots: x1=2, x2=1. Vertex: (1.5, -0.25).",
		},
		{
			name: "reset example", a: 1, b: -5, c: 6,
			kind: TwoRealRoots, roots: []float64{3, 2}, vx: 2.5, vy: -0.25,
			wantString: "Discriminant: 1. Two real roots: x1=3, x2=2. Vertex: (2.5, -0.25).",
		},
		{
			name: "repeated", a: 1, b: -2, c: 1,
			kind: RepeatedRoot, roots: []float64{1}, vx: 1, vy: 0,
			wantString: "Discriminant: 0. One repeated root: x=1. Vertex: (1, 0).",
		},
		{
			name: "complex", a: 1, b: 0, c: 1,
			kind: ComplexRoots, roots: []float64{}, vx: 0, vy: 1,
			wantString: "Discriminant: -4. No real roots (complex roots). Vertex: (0, 1).",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := SolveQuadratic(tt.a, tt.b, tt.c)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, r.RootKind)
			assert.Equal(t, tt.roots, r.Roots)
			assert.InDelta(t, tt.vx, r.VertexX, 1e-12)
			assert.InDelta(t, tt.vy, r.VertexY, 1e-12)
			assert.Equal(t, tt.wantString, r.Summary())
		})
	}
}

func TestSolveQuadraticErrors(t *testing.T) {
	_, err := SolveQuadratic(0, 2, 1)
	assert.True(t, errors.Is(err, ErrNotQuadratic))
	assert.Equal(t, "a cannot be 0 for a quadratic equation.", err.Error())

	_, err = SolveQuadratic(1, math.NaN(), 1)
	assert.True(t, errors.Is(err, ErrInvalidCoefficients))
}

func TestQuadraticReportJSON(t *testing.T) {
	r, err := SolveQuadratic(-1, 0, 4)
	require.NoError(t, err)
	assert.False(t, r.OpensUpward())

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"a": -1, "b": 0, "c": 4,
		"discriminant": 16,
		"vertex_x": 0, "vertex_y": 4,
		"root_kind": "two real roots",
		"roots": [-2, 2]
	}`, string(data))
}

func TestFibonacci(t *testing.T) {
	seq, err := Fibonacci(10)
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 1, 1, 2, 3, 5, 8, 13, 21, 34}, seq)

	seq, err = Fibonacci(1)
	require.NoError(t, err)
	assert.Equal(t, []int64{0}, seq)

	seq, err = Fibonacci(0)
	require.NoError(t, err)
	assert.Empty(t, seq)

	seq, err = Fibonacci(MaxTerms)
	require.NoError(t, err)
	assert.Equal(t, int64(7540113804746346429), seq[MaxTerms-1])

	_, err = Fibonacci(MaxTerms + 1)
	assert.ErrorIs(t, err, ErrTooManyTerms)
}

func TestRatios(t *testing.T) {
	ratios := Ratios([]int64{0, 1, 1, 2, 3, 5})
	assert.Equal(t, []float64{1, 2, 1.5, 5.0 / 3.0}, ratios)

	assert.Empty(t, Ratios([]int64{0, 1}))

	seq, err := Fibonacci(40)
	require.NoError(t, err)
	ratios = Ratios(seq)
	assert.InDelta(t, Phi, ratios[len(ratios)-1], 1e-12)
}

func TestPlayer(t *testing.T) {
	p, err := NewPlayer(5, 25)
	require.NoError(t, err)

	assert.Equal(t, 2, p.Shown())
	assert.Equal(t, 5, p.Len())
	assert.Equal(t, "Showing 2 of 5 terms", p.Progress())
	assert.Equal(t, "Sequence (2 terms): 0, 1. Latest ratio Fn/Fn-1: n/a", p.String())
	_, ok := p.LatestRatio()
	assert.False(t, ok)

	var revealed []int64
	for {
		term, done := p.Next()
		if done {
			break
		}
		revealed = append(revealed, term)
	}
	assert.Equal(t, []int64{1, 2, 3}, revealed)
	assert.True(t, p.Done())
	assert.Equal(t, []int64{0, 1, 1, 2, 3}, p.Visible())
	assert.Equal(t, "Sequence (5 terms): 0, 1, 1, 2, 3. Latest ratio Fn/Fn-1: 1.500000", p.String())

	f := p.Frame()
	assert.Equal(t, 4, f.Index)
	assert.Equal(t, int64(3), f.Term)
	require.NotNil(t, f.Ratio)
	assert.Equal(t, 1.5, *f.Ratio)
	assert.Equal(t, "Showing 5 of 5 terms", f.Progress)
	assert.Equal(t, 5, f.Total)
	assert.True(t, f.Last())

	p.Reset()
	assert.Equal(t, 2, p.Shown())
	assert.Nil(t, p.Frame().Ratio)
	assert.False(t, p.Frame().Last())
}

func TestPlayerVisibleIsCopy(t *testing.T) {
	p, err := NewPlayer(3, 0)
	require.NoError(t, err)
	v := p.Visible()
	v[0] = 99
	assert.Equal(t, []int64{0, 1}, p.Visible())
}

func TestNewPlayerRange(t *testing.T) {
	for _, n := range []int{-1, 0, 1, 26} {
		_, err := NewPlayer(n, 25)
		require.Error(t, err)
		assert.True(t, IsTermRange(err))
		assert.Equal(t, "Enter a valid number of terms between 2 and 25.", err.Error())
	}

	_, err := NewPlayer(MaxTerms, 1000)
	assert.NoError(t, err, "limit is clamped, not rejected")
}
