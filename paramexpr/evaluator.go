package paramexpr

import (
	"github.com/trueform/core/compileerr"
	"github.com/trueform/core/ir"
)

// visitState mirrors the white/gray/black coloring used for DFS cycle
// detection elsewhere in this module: 0 = unvisited, 1 = in progress
// (gray — a revisit means a cycle), 2 = resolved and cached.
const (
	stateWhite = 0
	stateGray  = 1
	stateBlack = 2
)

// Value is an expression evaluated to a canonical scalar: millimeters
// for TypeLength, radians for TypeAngle, a bare number for TypeCount.
type Value struct {
	Type ir.ParamType
	Num  float64
}

// Evaluator resolves ir.Expr trees against a fixed parameter
// declaration set, memoizing each param's evaluated Value and detecting
// cycles in the parameter graph.
type Evaluator struct {
	defs  map[ir.ID]ir.ParamDef
	state map[ir.ID]int
	cache map[ir.ID]Value
}

// NewEvaluator validates params for duplicate ids and returns an
// Evaluator ready to resolve expressions against them. It does not
// evaluate anything eagerly; param_cycle is only detected on first use
// of the cyclic chain.
func NewEvaluator(params []ir.ParamDef) (*Evaluator, error) {
	defs := make(map[ir.ID]ir.ParamDef, len(params))
	for _, p := range params {
		if _, dup := defs[p.ID]; dup {
			return nil, compileerr.Newf(compileerr.CodeParamDuplicate, "duplicate param id %q", p.ID)
		}
		defs[p.ID] = p
	}
	return &Evaluator{
		defs:  defs,
		state: make(map[ir.ID]int, len(params)),
		cache: make(map[ir.ID]Value, len(params)),
	}, nil
}

// Param returns the canonical Value of a declared parameter, evaluating
// and caching it (and its transitive dependencies) on first use.
func (e *Evaluator) Param(id ir.ID) (Value, error) {
	return e.resolveParam(id)
}

// Params evaluates every declared parameter and returns the full
// canonical value set, keyed by id. Evaluation order does not affect
// the result: every param is memoized the first time it is reached,
// whether directly or as a dependency of another.
func (e *Evaluator) Params() (map[ir.ID]Value, error) {
	out := make(map[ir.ID]Value, len(e.defs))
	for id := range e.defs {
		v, err := e.resolveParam(id)
		if err != nil {
			return nil, err
		}
		out[id] = v
	}
	return out, nil
}

// Eval resolves a free-standing expression (not a declared param) to a
// canonical Value, requiring it to coerce to declared. Used for every
// scalar feature field (lengths, angles, counts) and for override
// expressions.
func (e *Evaluator) Eval(expr ir.Expr, declared ir.ParamType) (Value, error) {
	// A bare unitless literal assigned directly into a typed context
	// promotes to that context's type. Anything else that evaluates to
	// TypeCount in a length/angle context is ambiguous and rejected
	// rather than silently promoted.
	if expr.Kind == ir.ExprLiteral && expr.Unit == "" && declared != ir.TypeCount {
		return Value{Type: declared, Num: expr.Value}, nil
	}
	v, err := e.evalNode(expr)
	if err != nil {
		return Value{}, err
	}
	if v.Type != declared {
		return Value{}, compileerr.Newf(compileerr.CodeParamTypeMismatch,
			"expected %s, got %s", declared, v.Type)
	}
	return v, nil
}

// resolveParam evaluates and caches params[id], detecting cycles via
// the visit-state map.
func (e *Evaluator) resolveParam(id ir.ID) (Value, error) {
	if v, ok := e.cache[id]; ok {
		return v, nil
	}
	if e.state[id] == stateGray {
		return Value{}, compileerr.Newf(compileerr.CodeParamCycle, "param %q participates in a cycle", id)
	}
	def, ok := e.defs[id]
	if !ok {
		return Value{}, compileerr.Newf(compileerr.CodeParamMissing, "param %q not declared", id)
	}
	e.state[id] = stateGray
	v, err := e.Eval(def.Value, def.Type)
	if err != nil {
		return Value{}, err
	}
	e.state[id] = stateBlack
	e.cache[id] = v
	return v, nil
}

// evalNode evaluates expr without forcing a declared type; the result's
// Type reflects the expression's own structure (TypeCount for a bare
// unitless literal, the peer's type after binary-op promotion, etc.).
func (e *Evaluator) evalNode(expr ir.Expr) (Value, error) {
	switch expr.Kind {
	case ir.ExprLiteral:
		return e.evalLiteral(expr)
	case ir.ExprParam:
		return e.resolveParam(expr.ParamID)
	case ir.ExprNeg:
		v, err := e.evalNode(*expr.Left)
		if err != nil {
			return Value{}, err
		}
		v.Num = -v.Num
		return v, nil
	case ir.ExprBinary:
		lv, err := e.evalNode(*expr.Left)
		if err != nil {
			return Value{}, err
		}
		rv, err := e.evalNode(*expr.Right)
		if err != nil {
			return Value{}, err
		}
		return combine(expr.Op, lv, rv)
	default:
		return Value{}, compileerr.Newf(compileerr.CodeParamTypeMismatch, "unknown expr kind %q", expr.Kind)
	}
}

func (e *Evaluator) evalLiteral(expr ir.Expr) (Value, error) {
	if expr.Unit == "" {
		return Value{Type: ir.TypeCount, Num: expr.Value}, nil
	}
	if factor, ok := expr.Unit.LengthFactor(); ok {
		return Value{Type: ir.TypeLength, Num: expr.Value * factor}, nil
	}
	if factor, ok := expr.Unit.AngleFactor(); ok {
		return Value{Type: ir.TypeAngle, Num: expr.Value * factor}, nil
	}
	return Value{}, compileerr.Newf(compileerr.CodeParamUnitMismatch, "unrecognized unit %q", expr.Unit)
}

// combine applies a binary operator's type rule to two already-evaluated
// operands.
func combine(op ir.BinOp, lv, rv Value) (Value, error) {
	switch op {
	case ir.OpAdd, ir.OpSub:
		return combineAdditive(op, lv, rv)
	case ir.OpMul:
		return combineMul(lv, rv)
	case ir.OpDiv:
		return combineDiv(lv, rv)
	default:
		return Value{}, compileerr.Newf(compileerr.CodeParamTypeMismatch, "unknown operator %q", op)
	}
}

func combineAdditive(op ir.BinOp, lv, rv Value) (Value, error) {
	resultType := lv.Type
	switch {
	case lv.Type == rv.Type:
		// same type (including both TypeCount) — no promotion needed.
	case lv.Type == ir.TypeCount:
		resultType = rv.Type
	case rv.Type == ir.TypeCount:
		resultType = lv.Type
	default:
		return Value{}, compileerr.Newf(compileerr.CodeParamTypeMismatch,
			"cannot combine %s and %s with %q", lv.Type, rv.Type, op)
	}
	num := lv.Num + rv.Num
	if op == ir.OpSub {
		num = lv.Num - rv.Num
	}
	return Value{Type: resultType, Num: num}, nil
}

func combineMul(lv, rv Value) (Value, error) {
	switch {
	case lv.Type == ir.TypeCount && rv.Type == ir.TypeCount:
		return Value{Type: ir.TypeCount, Num: lv.Num * rv.Num}, nil
	case lv.Type == ir.TypeCount:
		return Value{Type: rv.Type, Num: lv.Num * rv.Num}, nil
	case rv.Type == ir.TypeCount:
		return Value{Type: lv.Type, Num: lv.Num * rv.Num}, nil
	default:
		return Value{}, compileerr.Newf(compileerr.CodeParamTypeMismatch,
			"× requires at least one count operand, got %s and %s", lv.Type, rv.Type)
	}
}

func combineDiv(lv, rv Value) (Value, error) {
	if rv.Type != ir.TypeCount {
		return Value{}, compileerr.Newf(compileerr.CodeParamTypeMismatch,
			"÷ requires a count divisor, got %s", rv.Type)
	}
	if rv.Num == 0 {
		return Value{}, compileerr.New(compileerr.CodeParamDivZero, "division by zero")
	}
	return Value{Type: lv.Type, Num: lv.Num / rv.Num}, nil
}
