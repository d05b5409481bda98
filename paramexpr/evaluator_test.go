package paramexpr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trueform/core/compileerr"
	"github.com/trueform/core/ir"
	"github.com/trueform/core/paramexpr"
)

// TestEval_LengthUnitLaw checks that a literal in inches converts to
// the millimeter canonical unit: literal(1, "in") resolves to 25.4.
func TestEval_LengthUnitLaw(t *testing.T) {
	ev, err := paramexpr.NewEvaluator(nil)
	require.NoError(t, err)

	v, err := ev.Eval(ir.Literal(1, ir.UnitIn), ir.TypeLength)
	require.NoError(t, err)
	assert.Equal(t, ir.TypeLength, v.Type)
	assert.InDelta(t, 25.4, v.Num, 1e-9)
}

// TestEval_AddMixedLengthUnits checks cross-unit addition: add(literal(10,"mm"),
// literal(1,"cm")) resolves to 20mm.
func TestEval_AddMixedLengthUnits(t *testing.T) {
	ev, err := paramexpr.NewEvaluator(nil)
	require.NoError(t, err)

	expr := ir.Binary(ir.OpAdd, ir.Literal(10, ir.UnitMM), ir.Literal(1, ir.UnitCM))
	v, err := ev.Eval(expr, ir.TypeLength)
	require.NoError(t, err)
	assert.InDelta(t, 20, v.Num, 1e-9)
}

func TestEval_DegToRad(t *testing.T) {
	ev, err := paramexpr.NewEvaluator(nil)
	require.NoError(t, err)

	v, err := ev.Eval(ir.Literal(180, ir.UnitDeg), ir.TypeAngle)
	require.NoError(t, err)
	assert.InDelta(t, 3.14159265358979, v.Num, 1e-9)
}

func TestEval_DivByZero(t *testing.T) {
	ev, err := paramexpr.NewEvaluator(nil)
	require.NoError(t, err)

	expr := ir.Binary(ir.OpDiv, ir.Literal(10, ir.UnitMM), ir.Literal(0, ""))
	_, err = ev.Eval(expr, ir.TypeLength)
	require.Error(t, err)
	var ce *compileerr.CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, compileerr.CodeParamDivZero, ce.Code)
}

func TestEval_MulRequiresCountOperand(t *testing.T) {
	ev, err := paramexpr.NewEvaluator(nil)
	require.NoError(t, err)

	expr := ir.Binary(ir.OpMul, ir.Literal(2, ir.UnitMM), ir.Literal(3, ir.UnitDeg))
	_, err = ev.Eval(expr, ir.TypeLength)
	require.Error(t, err)
	var ce *compileerr.CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, compileerr.CodeParamTypeMismatch, ce.Code)
}

func TestEval_AmbiguousUnitlessRejected(t *testing.T) {
	ev, err := paramexpr.NewEvaluator(nil)
	require.NoError(t, err)

	// Two unitless operands combined in a length-demanding context are
	// rejected rather than silently promoted.
	expr := ir.Binary(ir.OpAdd, ir.Literal(5, ""), ir.Literal(3, ""))
	_, err = ev.Eval(expr, ir.TypeLength)
	require.Error(t, err)
	var ce *compileerr.CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, compileerr.CodeParamTypeMismatch, ce.Code)
}

func TestParam_CycleDetected(t *testing.T) {
	params := []ir.ParamDef{
		{ID: "a", Type: ir.TypeLength, Value: ir.Param("b")},
		{ID: "b", Type: ir.TypeLength, Value: ir.Param("a")},
	}
	ev, err := paramexpr.NewEvaluator(params)
	require.NoError(t, err)

	_, err = ev.Param("a")
	require.Error(t, err)
	var ce *compileerr.CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, compileerr.CodeParamCycle, ce.Code)
}

func TestParam_MissingReference(t *testing.T) {
	params := []ir.ParamDef{
		{ID: "a", Type: ir.TypeLength, Value: ir.Param("ghost")},
	}
	ev, err := paramexpr.NewEvaluator(params)
	require.NoError(t, err)

	_, err = ev.Param("a")
	require.Error(t, err)
	var ce *compileerr.CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, compileerr.CodeParamMissing, ce.Code)
}

func TestNewEvaluator_DuplicateParam(t *testing.T) {
	params := []ir.ParamDef{
		{ID: "a", Type: ir.TypeLength, Value: ir.Literal(1, ir.UnitMM)},
		{ID: "a", Type: ir.TypeLength, Value: ir.Literal(2, ir.UnitMM)},
	}
	_, err := paramexpr.NewEvaluator(params)
	require.Error(t, err)
	var ce *compileerr.CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, compileerr.CodeParamDuplicate, ce.Code)
}

func TestParams_DiamondDependencyMemoized(t *testing.T) {
	// w = 10mm; a = w*2; b = w*3; total = a+b
	params := []ir.ParamDef{
		{ID: "w", Type: ir.TypeLength, Value: ir.Literal(10, ir.UnitMM)},
		{ID: "a", Type: ir.TypeLength, Value: ir.Binary(ir.OpMul, ir.Param("w"), ir.Literal(2, ""))},
		{ID: "b", Type: ir.TypeLength, Value: ir.Binary(ir.OpMul, ir.Param("w"), ir.Literal(3, ""))},
		{ID: "total", Type: ir.TypeLength, Value: ir.Binary(ir.OpAdd, ir.Param("a"), ir.Param("b"))},
	}
	ev, err := paramexpr.NewEvaluator(params)
	require.NoError(t, err)

	all, err := ev.Params()
	require.NoError(t, err)
	assert.InDelta(t, 50, all["total"].Num, 1e-9)
}
