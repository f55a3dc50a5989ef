// Package explore implements the interactive cards of the math lab: the
// quadratic solver and the Fibonacci ratio explorer.
package explore

import (
	"errors"
	"fmt"
	"math"

	"mathlab/internal/numfmt"
)

var (
	ErrInvalidCoefficients = errors.New("Please enter valid numbers for a, b, and c.")
	ErrNotQuadratic        = errors.New("a cannot be 0 for a quadratic equation.")
)

// RootKind describes the real roots of a quadratic.
type RootKind int

const (
	TwoRealRoots RootKind = iota
	RepeatedRoot
	ComplexRoots
)

var rootKindNames = []string{
	"two real roots",
	"one repeated root",
	"complex roots",
}

func (k RootKind) String() string {
	if k >= 0 && int(k) < len(rootKindNames) {
		return rootKindNames[k]
	}
	return fmt.Sprintf("RootKind(%d)", int(k))
}

func (k RootKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// QuadraticReport is the solved form of a·x²+bx+c = 0.
type QuadraticReport struct {
	A            float64  `json:"a"`
	B            float64  `json:"b"`
	C            float64  `json:"c"`
	Discriminant float64  `json:"discriminant"`
	VertexX      float64  `json:"vertex_x"`
	VertexY      float64  `json:"vertex_y"`
	RootKind     RootKind `json:"root_kind"`
	// Roots holds x1=(-b+√d)/2a then x2=(-b-√d)/2a for two real roots, the
	// single root when repeated, and nothing for complex roots.
	Roots []float64 `json:"roots"`
}

// SolveQuadratic solves a·x²+bx+c = 0 over the reals.
func SolveQuadratic(a, b, c float64) (QuadraticReport, error) {
	if math.IsNaN(a) || math.IsNaN(b) || math.IsNaN(c) {
		return QuadraticReport{}, ErrInvalidCoefficients
	}
	if a == 0 {
		return QuadraticReport{}, ErrNotQuadratic
	}

	d := b*b - 4*a*c
	vx := -b/(2*a) + 0
	r := QuadraticReport{
		A: a, B: b, C: c,
		Discriminant: d,
		VertexX:      vx,
		VertexY:      a*vx*vx + b*vx + c,
		Roots:        []float64{},
	}

	switch {
	case d > 0:
		sq := math.Sqrt(d)
		r.RootKind = TwoRealRoots
		r.Roots = []float64{(-b+sq)/(2*a) + 0, (-b-sq)/(2*a) + 0}
	case d == 0:
		r.RootKind = RepeatedRoot
		r.Roots = []float64{vx}
	default:
		r.RootKind = ComplexRoots
	}
	return r, nil
}

// OpensUpward reports whether the parabola has a minimum.
func (r QuadraticReport) OpensUpward() bool { return r.A > 0 }

// Summary renders the result line of the solver card, e.g.
// "Discriminant: 1. Two real roots: x1=2, x2=1. Vertex: (1.5, -0.25)."
func (r QuadraticReport) Summary() string {
	var roots string
	switch r.RootKind {
	case TwoRealRoots:
		roots = fmt.Sprintf("Two real roots: x1=%s, x2=%s.", numfmt.Format(r.Roots[0]), numfmt.Format(r.Roots[1]))
	case RepeatedRoot:
		roots = fmt.Sprintf("One repeated root: x=%s.", numfmt.Format(r.Roots[0]))
	default:
		roots = "No real roots (complex roots)."
	}
	return fmt.Sprintf("Discriminant: %s. %s Vertex: (%s, %s).",
		numfmt.Format(r.Discriminant), roots, numfmt.Format(r.VertexX), numfmt.Format(r.VertexY))
}
