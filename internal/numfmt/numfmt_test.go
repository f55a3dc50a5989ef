package numfmt

import (
	"math"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want string
	}{
		{"integer", 5, "5"},
		{"negative integer", -12, "-12"},
		{"zero", 0, "0"},
		{"negative zero", math.Copysign(0, -1), "0"},
		{"one decimal", 5.1, "5.1"},
		{"third", 1.0 / 3.0, "0.3333"},
		{"two thirds rounds", 2.0 / 3.0, "0.6667"},
		{"quarter", -0.25, "-0.25"},
		{"vertex", 1.5, "1.5"},
		{"tiny negative", -0.00001, "0"},
		{"trailing zeros trimmed", 2.50001, "2.5"},
		{"large integer", 1e15, "1000000000000000"},
		{"nan", math.NaN(), "NaN"},
		{"inf", math.Inf(1), "Infinity"},
		{"neg inf", math.Inf(-1), "-Infinity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.in); got != tt.want {
				t.Errorf("Format(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSigned(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{3, "+3"},
		{0, "+0"},
		{-3, "-3"},
		{0.5, "+0.5"},
	}
	for _, tt := range tests {
		if got := Signed(tt.in); got != tt.want {
			t.Errorf("Signed(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
