package explore

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MaxTerms is the longest sequence whose terms fit in an int64.
const MaxTerms = 93

// MinPlayerTerms is the number of terms a Player shows right after it is
// generated.
const MinPlayerTerms = 2

// Phi is the golden ratio the Fibonacci ratios approach.
const Phi = 1.618033988749895

var ErrTooManyTerms = fmt.Errorf("sequence longer than %d terms overflows int64", MaxTerms)

// TermRangeError rejects a requested sequence length.
type TermRangeError struct {
	N   int
	Max int
}

func (e *TermRangeError) Error() string {
	return fmt.Sprintf("Enter a valid number of terms between %d and %d.", MinPlayerTerms, e.Max)
}

// Fibonacci returns the first n terms starting 0, 1.
func Fibonacci(n int) ([]int64, error) {
	if n > MaxTerms {
		return nil, ErrTooManyTerms
	}
	if n <= 0 {
		return []int64{}, nil
	}
	seq := make([]int64, n)
	if n > 1 {
		seq[1] = 1
	}
	for i := 2; i < n; i++ {
		seq[i] = seq[i-1] + seq[i-2]
	}
	return seq, nil
}

// Ratios returns seq[i]/seq[i-1] for i >= 2, skipping zero divisors.
func Ratios(seq []int64) []float64 {
	ratios := []float64{}
	for i := 2; i < len(seq); i++ {
		if seq[i-1] != 0 {
			ratios = append(ratios, float64(seq[i])/float64(seq[i-1]))
		}
	}
	return ratios
}

// Player steps through a generated sequence one term at a time. A Player is
// not safe for concurrent use.
type Player struct {
	full  []int64
	shown int
}

// NewPlayer generates n terms and shows the first two. n must lie in
// [MinPlayerTerms, limit]; limit is clamped to MaxTerms.
func NewPlayer(n, limit int) (*Player, error) {
	if limit > MaxTerms || limit <= 0 {
		limit = MaxTerms
	}
	if n < MinPlayerTerms || n > limit {
		return nil, &TermRangeError{N: n, Max: limit}
	}
	full, err := Fibonacci(n)
	if err != nil {
		return nil, err
	}
	return &Player{full: full, shown: MinPlayerTerms}, nil
}

// Frame is one playback step.
type Frame struct {
	Index    int      `json:"index"`
	Total    int      `json:"total"`
	Term     int64    `json:"term"`
	Ratio    *float64 `json:"ratio"`
	Progress string   `json:"progress"`
}

// Last reports whether f shows the final term.
func (f Frame) Last() bool { return f.Index+1 >= f.Total }

// Next reveals one more term. done is true once every term is visible, in
// which case nothing new was revealed.
func (p *Player) Next() (term int64, done bool) {
	if p.shown >= len(p.full) {
		return p.full[len(p.full)-1], true
	}
	p.shown++
	return p.full[p.shown-1], false
}

// Frame describes the most recently revealed term.
func (p *Player) Frame() Frame {
	f := Frame{
		Index:    p.shown - 1,
		Total:    len(p.full),
		Term:     p.full[p.shown-1],
		Progress: p.Progress(),
	}
	if r, ok := p.LatestRatio(); ok {
		f.Ratio = &r
	}
	return f
}

// Done reports whether every term is visible.
func (p *Player) Done() bool { return p.shown >= len(p.full) }

// Shown is the number of visible terms.
func (p *Player) Shown() int { return p.shown }

// Len is the total number of generated terms.
func (p *Player) Len() int { return len(p.full) }

// Visible returns a copy of the visible terms.
func (p *Player) Visible() []int64 {
	return append([]int64(nil), p.full[:p.shown]...)
}

// Reset hides all but the first two terms.
func (p *Player) Reset() { p.shown = MinPlayerTerms }

// LatestRatio is the last ratio of the visible terms.
func (p *Player) LatestRatio() (float64, bool) {
	ratios := Ratios(p.full[:p.shown])
	if len(ratios) == 0 {
		return 0, false
	}
	return ratios[len(ratios)-1], true
}

// Progress renders "Showing k of n terms".
func (p *Player) Progress() string {
	return fmt.Sprintf("Showing %d of %d terms", p.shown, len(p.full))
}

// String renders the visible sequence with its latest ratio, e.g.
// "Sequence (4 terms): 0, 1, 1, 2. Latest ratio Fn/Fn-1: 2.000000".
func (p *Player) String() string {
	visible := p.Visible()
	terms := make([]string, len(visible))
	for i, v := range visible {
		terms[i] = strconv.FormatInt(v, 10)
	}
	ratio := "n/a"
	if r, ok := p.LatestRatio(); ok {
		ratio = strconv.FormatFloat(r, 'f', 6, 64)
	}
	return fmt.Sprintf("Sequence (%d terms): %s. Latest ratio Fn/Fn-1: %s", p.shown, strings.Join(terms, ", "), ratio)
}

// IsTermRange reports whether err rejects a sequence length.
func IsTermRange(err error) bool {
	var tr *TermRangeError
	return errors.As(err, &tr)
}
