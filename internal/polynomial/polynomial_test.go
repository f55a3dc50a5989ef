package polynomial

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		input string
		want  Polynomial
	}{
		{"x^2-4x+3", Polynomial{1, -4, 3}},
		{"2X^2 - 3*x + 1", Polynomial{2, -3, 1}},
		{"-x^2+x", Polynomial{-1, 1, 0}},
		{"+x", Polynomial{0, 1, 0}},
		{"5", Polynomial{0, 0, 5}},
		{"-.5", Polynomial{0, 0, -0.5}},
		{"3+x^2", Polynomial{1, 0, 3}},
		{"x+x+x^2+2x^2-1-1", Polynomial{3, 2, -2}},
		{"0.5x^2+1.25x", Polynomial{0.5, 1.25, 0}},
		{"2x^1", Polynomial{0, 2, 0}},
		{"x - x", Polynomial{0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Extract(tt.input)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Extract(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestExtractFailures(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"x^3+1",
		"x^23",
		"x2",
		"sin(x)",
		"2y+1",
		"1e3",
		"0x10",
		"x+",
		"x--1",
		"1..5",
		"(x+1)",
		"xx",
		"2x^2x",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			_, err := Extract(in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnsupported), "got %v", err)
		})
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		p    Polynomial
		want string
	}{
		{Polynomial{1, -3, 2}, "x^2-3x+2"},
		{Polynomial{-1, 0, 4}, "-x^2+4"},
		{Polynomial{0, -1, 4}, "-x+4"},
		{Polynomial{0, 2, -4}, "2x-4"},
		{Polynomial{0, 0, -7}, "-7"},
		{Polynomial{0, 0, 0}, "0"},
		{Polynomial{0.5, 1.0 / 3.0, 0}, "0.5x^2+0.3333x"},
		{Polynomial{2, 1, 1}, "2x^2+x+1"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.p.String())
		})
	}
}

func TestFormatExtractRoundTrip(t *testing.T) {
	for a := -3; a <= 3; a++ {
		for b := -3; b <= 3; b++ {
			for c := -3; c <= 3; c++ {
				p := Polynomial{float64(a), float64(b), float64(c)}
				s := p.String()
				got, err := Extract(s)
				require.NoError(t, err, "Extract(%q)", s)
				assert.Equal(t, p, got, fmt.Sprintf("round trip through %q", s))
			}
		}
	}
}

func TestSubAndEval(t *testing.T) {
	left := Polynomial{1, 0, 0}
	right := Polynomial{0, 5, -6}
	diff := left.Sub(right)
	assert.Equal(t, Polynomial{1, -5, 6}, diff)
	assert.Equal(t, 2, diff.Degree())
	assert.InDelta(t, 0, diff.Eval(2), 1e-12)
	assert.InDelta(t, 0, diff.Eval(3), 1e-12)

	assert.Equal(t, 1, Polynomial{0, 2, 1}.Degree())
	assert.Equal(t, 0, Polynomial{}.Degree())
}

func TestTerms(t *testing.T) {
	terms, err := Terms("x^2-4x+3")
	require.NoError(t, err)
	assert.Equal(t, []string{"x^2", "-4x", "+3"}, terms)

	_, err = Terms("-")
	assert.Error(t, err)
}
