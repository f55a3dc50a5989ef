// Package classify tags free-text math input with one of a fixed set of
// categories. Rules are evaluated in order and the first match wins.
package classify

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind is the category of a math input.
type Kind int

const (
	Function Kind = iota
	Equation
	System
	Inequality
	Derivative
	Integral
	Other
)

var kindNames = []string{
	"Function",
	"Equation",
	"System of equations",
	"Inequality",
	"Derivative",
	"Integral",
	"Other",
}

// String returns the display name, e.g. "System of equations".
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[Other]
}

// Kinds returns every category in declaration order.
func Kinds() []Kind {
	return []Kind{Function, Equation, System, Inequality, Derivative, Integral, Other}
}

// ParseKind maps a display name back to its Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if strings.EqualFold(k.String(), s) {
			return k, nil
		}
	}
	return Other, fmt.Errorf("unknown classification %q", s)
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

var (
	derivativePrefix = regexp.MustCompile(`(?i)^(d/dx|derivative)`)
	integralPrefix   = regexp.MustCompile(`(?i)^(∫|integral)`)
	comparison       = regexp.MustCompile(`[<>]=?|≤|≥`)
	functionHead     = regexp.MustCompile(`^\s*(f\(x\)|y)\s*=`)
)

// FunctionHead matches the "f(x)=" or "y=" prefix of a function definition.
func FunctionHead() *regexp.Regexp { return functionHead }

// DerivativePrefix matches the leading "d/dx" or "derivative" keyword.
func DerivativePrefix() *regexp.Regexp { return derivativePrefix }

// IntegralPrefix matches the leading integral sign or "integral" keyword.
func IntegralPrefix() *regexp.Regexp { return integralPrefix }

// Rule is one predicate of the ordered rule table. Match receives the input
// with surrounding whitespace already trimmed.
type Rule struct {
	Name  string
	Kind  Kind
	Match func(s string) bool
}

// DefaultRules returns the rule table in precedence order.
func DefaultRules() []Rule {
	return []Rule{
		{"blank", Other, func(s string) bool { return s == "" }},
		{"system", System, func(s string) bool {
			return strings.Contains(s, "\n") && strings.Contains(s, "=")
		}},
		{"derivative", Derivative, derivativePrefix.MatchString},
		{"integral", Integral, integralPrefix.MatchString},
		{"inequality", Inequality, comparison.MatchString},
		{"function-head", Function, functionHead.MatchString},
		{"equation", Equation, func(s string) bool { return strings.Contains(s, "=") }},
		// A bare expression with a free variable is plotted as a function.
		{"free-variable", Function, func(s string) bool { return strings.ContainsAny(s, "xX") }},
	}
}

// Classifier runs an ordered rule table.
type Classifier struct {
	rules []Rule
}

// New returns a classifier over rules. A nil table means DefaultRules.
func New(rules []Rule) *Classifier {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Classifier{rules: rules}
}

// Classify returns the kind of the first matching rule, or Other.
func (c *Classifier) Classify(text string) Kind {
	kind, _ := c.Explain(text)
	return kind
}

// Explain is Classify that also names the rule that fired ("" when no rule
// matched).
func (c *Classifier) Explain(text string) (Kind, string) {
	clean := strings.TrimSpace(text)
	for _, r := range c.rules {
		if r.Match(clean) {
			return r.Kind, r.Name
		}
	}
	return Other, ""
}

var defaultClassifier = New(nil)

// Classify tags text using the default rule table.
func Classify(text string) Kind {
	return defaultClassifier.Classify(text)
}
