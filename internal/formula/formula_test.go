package formula

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Invalid(t *testing.T) {
	_, err := Parse("1 +")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "formula: parse")
}

func TestEval_Arithmetic(t *testing.T) {
	expr, err := Parse("2 * (3 + 4)")
	require.NoError(t, err)
	assert.Equal(t, "2 * (3 + 4)", expr.Source())

	v, err := expr.Eval(nil)
	require.NoError(t, err)
	assert.True(t, v.IsNum)
	assert.InDelta(t, 14, v.Num, 1e-12)
}

func TestEval_PathBindings(t *testing.T) {
	expr, err := Parse("car.engine.rpm / 2 + gain")
	require.NoError(t, err)

	v, err := expr.Eval(Bindings{
		"/car/engine/rpm": 6000,
		"gain":            1.5,
	})
	require.NoError(t, err)
	assert.InDelta(t, 3001.5, v.Num, 1e-9)
}

func TestEval_Conditional(t *testing.T) {
	expr, err := Parse(`speed > 50 ? "fast" : "slow"`)
	require.NoError(t, err)

	v, err := expr.Eval(Bindings{"speed": 80})
	require.NoError(t, err)
	assert.False(t, v.IsNum)
	assert.Equal(t, "fast", v.Str)

	v, err = expr.Eval(Bindings{"speed": 10})
	require.NoError(t, err)
	assert.Equal(t, "slow", v.String())
}

func TestEval_Functions(t *testing.T) {
	expr, err := Parse("max(a, b) + abs(c)")
	require.NoError(t, err)
	v, err := expr.Eval(Bindings{"a": 1, "b": 5, "c": -2})
	require.NoError(t, err)
	assert.InDelta(t, 7, v.Num, 1e-12)
}

func TestEval_MissingVariable(t *testing.T) {
	expr, err := Parse("unknown * 2")
	require.NoError(t, err)
	_, err = expr.Eval(Bindings{})
	require.Error(t, err)
}

func TestEval_LeafAndPrefixConflict(t *testing.T) {
	expr, err := Parse("a.b")
	require.NoError(t, err)
	v, err := expr.Eval(Bindings{"a": 1, "a/b": 2})
	require.NoError(t, err)
	assert.InDelta(t, 2, v.Num, 1e-12)
}

func TestRelease(t *testing.T) {
	expr, err := Parse("1")
	require.NoError(t, err)
	expr.Release()
	_, err = expr.Eval(nil)
	assert.ErrorIs(t, err, ErrReleased)
}

func TestValue_Conversions(t *testing.T) {
	f, ok := Value{Str: " 2.5 "}.Float()
	assert.True(t, ok)
	assert.InDelta(t, 2.5, f, 1e-12)

	_, ok = Value{Str: "abc"}.Float()
	assert.False(t, ok)

	assert.Equal(t, "0.25", Value{IsNum: true, Num: 0.25}.String())
}

func TestVariables(t *testing.T) {
	expr, err := Parse("car.mass * g + car.drag")
	require.NoError(t, err)
	vars := expr.(*hclExpr).Variables()
	assert.Equal(t, []string{"car", "g"}, vars)
}

func TestEval_NaNBinding(t *testing.T) {
	vars := Bindings{"car/x": math.NaN(), "gain": 2}

	expr, err := Parse("1 + gain")
	require.NoError(t, err)
	v, err := expr.Eval(vars)
	require.NoError(t, err, "unrelated NaN binding does not break evaluation")
	assert.InDelta(t, 3, v.Num, 1e-12)

	expr, err = Parse("car.x + 1")
	require.NoError(t, err)
	_, err = expr.Eval(vars)
	assert.Error(t, err)
}
