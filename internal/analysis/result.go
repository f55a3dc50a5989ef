package analysis

import (
	"encoding/json"
	"fmt"
	"math"

	"mathlab/internal/classify"
	"mathlab/internal/polynomial"
)

// Point is a 2-D point. It marshals as a two-element array [x, y].
type Point struct {
	X, Y float64
}

// pt builds a point with negative zeros folded to zero.
func pt(x, y float64) Point {
	return Point{X: x + 0, Y: y + 0}
}

func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]*float64{finite(p.X), finite(p.Y)})
}

func (p *Point) UnmarshalJSON(b []byte) error {
	var xy []float64
	if err := json.Unmarshal(b, &xy); err != nil {
		return err
	}
	if len(xy) != 2 {
		return fmt.Errorf("point: want 2 coordinates, got %d", len(xy))
	}
	p.X, p.Y = xy[0], xy[1]
	return nil
}

// finite returns nil for NaN and ±Inf, which JSON cannot carry.
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Vertex is an optional point. An unset vertex marshals as [].
type Vertex struct {
	Point
	Valid bool
}

func (v Vertex) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("[]"), nil
	}
	return v.Point.MarshalJSON()
}

func (v *Vertex) UnmarshalJSON(b []byte) error {
	var xy []float64
	if err := json.Unmarshal(b, &xy); err != nil {
		return err
	}
	switch len(xy) {
	case 0:
		*v = Vertex{}
	case 2:
		*v = Vertex{Point: Point{X: xy[0], Y: xy[1]}, Valid: true}
	default:
		return fmt.Errorf("vertex: want 0 or 2 coordinates, got %d", len(xy))
	}
	return nil
}

// Summary holds the descriptive fields of an analysis. Empty strings mean
// "not determined".
type Summary struct {
	Domain     string `json:"domain"`
	Range      string `json:"range"`
	Derivative string `json:"derivative"`
	Symmetry   string `json:"symmetry"`
}

type KeyPoints struct {
	Roots          []Point `json:"roots"`
	Vertex         Vertex  `json:"vertex"`
	Intersections  []Point `json:"intersections"`
	CriticalPoints []Point `json:"critical_points"`
}

type Graph struct {
	Expression      string  `json:"expression"`
	HighlightPoints []Point `json:"highlight_points"`
}

// Result is the structured output of Analyze. Its JSON form is the wire
// format consumed by plotting front ends. Detail carries the branch-specific
// data and is not serialized.
type Result struct {
	Type             classify.Kind `json:"type"`
	Analysis         Summary       `json:"analysis"`
	KeyPoints        KeyPoints     `json:"key_points"`
	Graph            Graph         `json:"graph"`
	ExplanationSteps string        `json:"explanation_steps"`
	ChatSummary      string        `json:"chat_summary"`

	Detail Detail `json:"-"`
}

// newResult returns a result with every sequence non-nil so that the JSON
// form always carries arrays.
func newResult(kind classify.Kind) Result {
	return Result{
		Type: kind,
		KeyPoints: KeyPoints{
			Roots:          []Point{},
			Intersections:  []Point{},
			CriticalPoints: []Point{},
		},
		Graph: Graph{HighlightPoints: []Point{}},
	}
}

// Detail is the branch-specific payload of a Result. The concrete type is one
// of the *Detail structs in this package.
type Detail interface {
	isDetail()
}

// QuadraticDetail is produced when the input reduced to a·x²+bx+c with a ≠ 0.
type QuadraticDetail struct {
	Poly         polynomial.Polynomial
	Discriminant float64
	Vertex       Point
	// Roots are the real roots in ascending order.
	Roots []float64
}

// LinearDetail is produced when the input reduced to bx+c.
type LinearDetail struct {
	Poly polynomial.Polynomial
	// HasRoot is false for a constant (b = 0).
	HasRoot bool
	Root    float64
}

// UnparsedDetail marks a Function or Equation whose terms fall outside the
// supported polynomial form.
type UnparsedDetail struct {
	Expression string
	Reason     string
}

// SystemDetail describes a multi-line system of equations.
type SystemDetail struct {
	Lines []string
	// Solutions has one entry per line; nil when that line is not a
	// solvable linear equation in x.
	Solutions []*float64
	Solved    bool
	X         float64
}

type InequalityDetail struct {
	Expression string
}

// DerivativeDetail holds the differentiation target. Nothing is computed.
type DerivativeDetail struct {
	Target string
}

// IntegralDetail holds the integrand text. Nothing is computed.
type IntegralDetail struct {
	Integrand string
}

// OtherDetail is produced for unclassified input. Blank is set when the
// input was empty.
type OtherDetail struct {
	Blank bool
}

func (QuadraticDetail) isDetail()  {}
func (LinearDetail) isDetail()     {}
func (UnparsedDetail) isDetail()   {}
func (SystemDetail) isDetail()     {}
func (InequalityDetail) isDetail() {}
func (DerivativeDetail) isDetail() {}
func (IntegralDetail) isDetail()   {}
func (OtherDetail) isDetail()      {}
