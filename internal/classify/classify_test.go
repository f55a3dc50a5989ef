package classify

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Kind
	}{
		{"empty", "", Other},
		{"blank", "   \t\n ", Other},
		{"function head", "f(x)=x^2-1", Function},
		{"y head", "y = 2x + 1", Function},
		{"equation", "x^2-5x+6=0", Equation},
		{"inequality", "x<3", Inequality},
		{"inequality ge", "2x >= 4", Inequality},
		{"inequality unicode", "x ≤ 5", Inequality},
		{"derivative word", "derivative of x^2", Derivative},
		{"derivative upper", "Derivative x^3", Derivative},
		{"d/dx", "d/dx x^2+1", Derivative},
		{"integral sign", "∫ x dx", Integral},
		{"integral word", "INTEGRAL of 2x", Integral},
		{"system", "x=2\nx=2", System},
		{"newline without equals", "x+1\nx+2", Function},
		{"bare expression", "x^2+1", Function},
		{"bare expression upper", "X^2+1", Function},
		{"plain number", "42", Other},
		{"words", "hello world", Other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.input))
		})
	}
}

func TestClassifyPrecedence(t *testing.T) {
	c := New(nil)

	// Derivative is checked before the comparison operators.
	kind, rule := c.Explain("derivative of x>0")
	assert.Equal(t, Derivative, kind)
	assert.Equal(t, "derivative", rule)

	// A system wins over a function head on its first line.
	kind, rule = c.Explain("y=2x\ny=3")
	assert.Equal(t, System, kind)
	assert.Equal(t, "system", rule)

	// An inequality containing '=' is not an equation.
	kind, _ = c.Explain("x<=3")
	assert.Equal(t, Inequality, kind)

	kind, rule = c.Explain("3.14")
	assert.Equal(t, Other, kind)
	assert.Empty(t, rule)
}

func TestCustomRules(t *testing.T) {
	c := New([]Rule{
		{"always-integral", Integral, func(string) bool { return true }},
	})
	assert.Equal(t, Integral, c.Classify("x=1"))
}

func TestKindText(t *testing.T) {
	for _, k := range Kinds() {
		parsed, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}

	data, err := json.Marshal(map[string]Kind{"type": System})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"System of equations"}`, string(data))

	var k Kind
	require.NoError(t, json.Unmarshal([]byte(`"Inequality"`), &k))
	assert.Equal(t, Inequality, k)

	_, err = ParseKind("Matrix")
	assert.Error(t, err)
}
