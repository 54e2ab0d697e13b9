package methods_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/rootfind"
	"github.com/zephyrtronium/rootfind/methods"
)

func TestExpressionAt(t *testing.T) {
	cases := []struct {
		name string
		x    methods.Expression
		at   float64
		want float64
	}{
		{"poly", methods.Expression{F: "x^2 - 3"}, 2, 1},
		{"var", methods.Expression{F: "t^2 + 1", Var: "t"}, 3, 10},
		{"vars", methods.Expression{F: "a*x + b", Vars: map[string]string{"a": "2", "b": "-1"}}, 4, 7},
		{"implicit", methods.Expression{F: "2x sin(pi/2)"}, 1.5, 3},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := c.x.At(c.at)
			require.NoError(t, err)
			assert.InDelta(t, c.want, got, 1e-12)
		})
	}
}

func TestExpressionAtErrors(t *testing.T) {
	_, err := methods.Expression{F: ""}.At(1)
	assert.ErrorIs(t, err, methods.ErrInvalidInput)

	_, err = methods.Expression{F: "x +"}.At(1)
	assert.ErrorIs(t, err, methods.ErrInvalidInput)

	_, err = methods.Expression{F: "a*x", Vars: map[string]string{"a": "many"}}.At(1)
	assert.ErrorIs(t, err, methods.ErrInvalidInput)

	_, err = methods.Expression{F: "ln(x)"}.At(-1)
	assert.ErrorIs(t, err, rootfind.ErrUndefined)
	assert.False(t, errors.Is(err, methods.ErrInvalidInput))
}

func TestExpressionDerivatives(t *testing.T) {
	d, err := methods.Expression{F: "x^3 - 2*x^2 + 4/3*x - 8/27"}.Derivatives(2)
	require.NoError(t, err)
	assert.Equal(t, []string{"3 * x^2 - 4 * x + 4 / 3", "6 * x - 4"}, d)

	d, err = methods.Expression{F: "x^3"}.Derivatives(methods.MaxDerivativeOrder)
	require.NoError(t, err)
	assert.Equal(t, "0", d[len(d)-1])

	_, err = methods.Expression{F: "x"}.Derivatives(0)
	assert.ErrorIs(t, err, methods.ErrInvalidInput)
	_, err = methods.Expression{F: "x"}.Derivatives(methods.MaxDerivativeOrder + 1)
	assert.ErrorIs(t, err, methods.ErrInvalidInput)
}

func TestExpressionSample(t *testing.T) {
	pts, err := methods.Expression{F: "sqrt(x)"}.Sample(-1, 1, 3)
	require.NoError(t, err)
	require.Len(t, pts, 3)
	assert.Equal(t, -1.0, pts[0].X)
	assert.Nil(t, pts[0].Y)
	require.NotNil(t, pts[1].Y)
	assert.Equal(t, 0.0, *pts[1].Y)
	require.NotNil(t, pts[2].Y)
	assert.Equal(t, 1.0, *pts[2].Y)

	_, err = methods.Expression{F: "x"}.Sample(1, 1, 3)
	assert.ErrorIs(t, err, rootfind.ErrInvalidRange)
	_, err = methods.Expression{F: "x"}.Sample(0, math.Inf(1), 3)
	assert.ErrorIs(t, err, rootfind.ErrInvalidRange)
}
