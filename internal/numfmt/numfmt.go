// Package numfmt renders floating-point values the same way everywhere a
// coefficient, root, vertex coordinate or calculator result is shown.
package numfmt

import (
	"math"
	"strconv"
	"strings"
)

// Places is the number of fractional digits kept for non-integers.
const Places = 4

// Format renders x canonically: integers without a decimal point, everything
// else with at most four fractional digits and no trailing zeros.
//
//	Format(5)   == "5"
//	Format(5.1) == "5.1"
//	Format(1/3) == "0.3333"
func Format(x float64) string {
	switch {
	case math.IsNaN(x):
		return "NaN"
	case math.IsInf(x, 1):
		return "Infinity"
	case math.IsInf(x, -1):
		return "-Infinity"
	}

	if x == math.Trunc(x) {
		return strconv.FormatFloat(x+0, 'f', -1, 64)
	}

	s := strconv.FormatFloat(x, 'f', Places, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}

// Signed is Format with an explicit leading "+" for non-negative values, for
// joining terms such as "2x" and "+3".
func Signed(x float64) string {
	s := Format(x)
	if strings.HasPrefix(s, "-") {
		return s
	}
	return "+" + s
}
