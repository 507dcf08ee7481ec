package mathexpr

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eval(t *testing.T, src string, vars map[string]float64) float64 {
	t.Helper()
	p, err := Compile(src)
	require.NoError(t, err)
	v, err := p.Eval(vars)
	require.NoError(t, err)
	return v
}

func TestArithmeticPrecedence(t *testing.T) {
	assert.Equal(t, 7.0, eval(t, "1+2*3", nil))
	assert.Equal(t, 9.0, eval(t, "(1+2)*3", nil))
	assert.Equal(t, 512.0, eval(t, "2^3^2", nil), "power is right associative")
	assert.Equal(t, -4.0, eval(t, "-2^2", nil))
	assert.Equal(t, 1.0, eval(t, "7 % 3", nil))
}

func TestVariablesAndConstants(t *testing.T) {
	v := eval(t, "sin(theta) + r", map[string]float64{"theta": math.Pi / 2, "r": 1})
	assert.InDelta(t, 2.0, v, 1e-12)
	assert.InDelta(t, math.Pi, eval(t, "pi", nil), 1e-12)
	assert.InDelta(t, 2*math.Pi, eval(t, "tau", nil), 1e-12)
}

func TestComparisonsYieldZeroOrOne(t *testing.T) {
	assert.Equal(t, 1.0, eval(t, "2 > 1", nil))
	assert.Equal(t, 0.0, eval(t, "1 >= 2", nil))
	assert.Equal(t, 1.0, eval(t, "clamp(5, 0, 1)", nil))
}

func TestBuiltins(t *testing.T) {
	assert.InDelta(t, 2.0, eval(t, "sqrt(4)", nil), 1e-12)
	assert.InDelta(t, 3.0, eval(t, "max(1, min(3, 5))", nil), 1e-12)
	assert.InDelta(t, 8.0, eval(t, "pow(2, 3)", nil), 1e-12)
	assert.InDelta(t, math.Pi/4, eval(t, "atan2(1, 1)", nil), 1e-12)
}

func TestCompileErrors(t *testing.T) {
	for _, src := range []string{"", "1+", "sin(", "foo(1)", "1 2", ")("} {
		_, err := Compile(src)
		if err == nil {
			p, _ := Compile(src)
			_, err = p.Eval(nil)
		}
		assert.Error(t, err, "source %q", src)
	}
}

func TestEvalErrors(t *testing.T) {
	p, err := Compile("1/x")
	require.NoError(t, err)
	_, err = p.Eval(map[string]float64{"x": 0})
	assert.Error(t, err, "division by zero")

	_, err = p.Eval(nil)
	assert.Error(t, err, "unknown variable")

	assert.Equal(t, 0.0, p.EvalOrZero(map[string]float64{"x": 0}))
}

func TestSqrtOfNegativeIsError(t *testing.T) {
	p, err := Compile("sqrt(0-1)")
	require.NoError(t, err)
	_, err = p.Eval(nil)
	assert.Error(t, err, "non-finite results surface as errors")
}

func TestWithFuncs(t *testing.T) {
	p, err := Compile("double(21)")
	require.NoError(t, err)
	p = p.WithFuncs(map[string]Func{
		"double": func(args []float64) (float64, error) {
			if len(args) != 1 {
				return 0, ErrArity
			}
			return args[0] * 2, nil
		},
	})
	v, err := p.Eval(nil)
	require.NoError(t, err)
	assert.Equal(t, 42.0, v)
}

func TestSourceRoundTrip(t *testing.T) {
	p, err := Compile("x * 2")
	require.NoError(t, err)
	assert.Equal(t, "x * 2", p.Source())
}
