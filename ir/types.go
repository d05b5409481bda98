package ir

import "math"

// ID is a non-empty string unique within its declared scope (features and
// params within a part; profiles and named outputs across a part).
type ID = string

// Unit is a length or angle unit token. The zero value "" denotes a
// unitless (count-typed) literal.
type Unit string

// Recognized length and angle units. Canonical internal units are
// millimeters (length) and radians (angle).
const (
	UnitMM  Unit = "mm"
	UnitCM  Unit = "cm"
	UnitM   Unit = "m"
	UnitIn  Unit = "in"
	UnitRad Unit = "rad"
	UnitDeg Unit = "deg"
)

// LengthFactor returns the multiplier that converts a value in u to
// millimeters, and whether u is a recognized length unit.
func (u Unit) LengthFactor() (float64, bool) {
	switch u {
	case UnitMM:
		return 1, true
	case UnitCM:
		return 10, true
	case UnitM:
		return 1000, true
	case UnitIn:
		return 25.4, true
	default:
		return 0, false
	}
}

// AngleFactor returns the multiplier that converts a value in u to
// radians, and whether u is a recognized angle unit.
func (u Unit) AngleFactor() (float64, bool) {
	switch u {
	case UnitRad:
		return 1, true
	case UnitDeg:
		return math.Pi / 180, true
	default:
		return 0, false
	}
}

// ParamType classifies the dimensional kind of a parameter or evaluated
// expression.
type ParamType string

const (
	TypeLength ParamType = "length"
	TypeAngle  ParamType = "angle"
	TypeCount  ParamType = "count"
)

// ExprKind tags the variant of an Expr.
type ExprKind string

const (
	ExprLiteral ExprKind = "literal"
	ExprParam   ExprKind = "param"
	ExprNeg     ExprKind = "neg"
	ExprBinary  ExprKind = "binary"
)

// BinOp is a binary arithmetic operator in an Expr.
type BinOp string

const (
	OpAdd BinOp = "+"
	OpSub BinOp = "-"
	OpMul BinOp = "*"
	OpDiv BinOp = "/"
)

// Expr is a tagged-variant arithmetic expression tree. Exactly the fields
// relevant to Kind are populated; see the per-kind constructors below.
type Expr struct {
	Kind ExprKind

	// literal
	Value float64
	Unit  Unit

	// param
	ParamID ID

	// neg / binary
	Left  *Expr
	Right *Expr
	Op    BinOp // binary only
}

// Literal returns a literal(value, unit) Expr. An empty unit is a
// unitless (count-typed) literal.
func Literal(value float64, unit Unit) Expr {
	return Expr{Kind: ExprLiteral, Value: value, Unit: unit}
}

// Param returns a param(id) Expr.
func Param(id ID) Expr {
	return Expr{Kind: ExprParam, ParamID: id}
}

// Neg returns a neg(value) Expr.
func Neg(value Expr) Expr {
	v := value
	return Expr{Kind: ExprNeg, Left: &v}
}

// Binary returns a binary(op, left, right) Expr.
func Binary(op BinOp, left, right Expr) Expr {
	l, r := left, right
	return Expr{Kind: ExprBinary, Op: op, Left: &l, Right: &r}
}

// TypedExpr pairs a scalar expression with the dimensional type it must
// evaluate to. Feature.Params entries are TypedExpr so the evaluator
// knows, per field, whether a bare unitless literal should promote to
// length, angle, or stay a count.
type TypedExpr struct {
	Type  ParamType
	Value Expr
}

// ParamDef declares a named parameter and the expression that computes it.
// Params form a DAG: Value may reference other params via Param(id), but
// never itself, directly or transitively.
type ParamDef struct {
	ID    ID
	Type  ParamType
	Value Expr
}

// AxisToken is one of the six principal axis directions.
type AxisToken string

const (
	AxisPosX AxisToken = "+X"
	AxisNegX AxisToken = "-X"
	AxisPosY AxisToken = "+Y"
	AxisNegY AxisToken = "-Y"
	AxisPosZ AxisToken = "+Z"
	AxisNegZ AxisToken = "-Z"
)

// ValidAxisTokens enumerates the only legal AxisToken values.
var ValidAxisTokens = map[AxisToken]bool{
	AxisPosX: true, AxisNegX: true,
	AxisPosY: true, AxisNegY: true,
	AxisPosZ: true, AxisNegZ: true,
}

// Vec3 is a free vector or point; all three components must be finite.
type Vec3 struct {
	X, Y, Z float64
}

// PredicateKind tags the variant of a Predicate.
type PredicateKind string

const (
	PredPlanar    PredicateKind = "planar"
	PredNormal    PredicateKind = "normal"
	PredCreatedBy PredicateKind = "createdBy"
	PredRole      PredicateKind = "role"
)

// Predicate filters candidate selections during selector resolution.
type Predicate struct {
	Kind PredicateKind

	Axis      AxisToken // normal
	FeatureID ID        // createdBy
	Role      string    // role
}

// RankKind tags the variant of a RankRule.
type RankKind string

const (
	RankMaxArea    RankKind = "maxArea"
	RankMaxZ       RankKind = "maxZ"
	RankMinZ       RankKind = "minZ"
	RankClosestTo  RankKind = "closestTo"
)

// RankRule narrows a predicate-filtered candidate set to a single match.
// RankRules are applied in declared order; ClosestTo is populated only
// when Kind == RankClosestTo.
type RankRule struct {
	Kind      RankKind
	ClosestTo *Selector
}

// SelectorKind tags the variant of a Selector.
type SelectorKind string

const (
	SelFace  SelectorKind = "face"
	SelEdge  SelectorKind = "edge"
	SelSolid SelectorKind = "solid"
	SelNamed SelectorKind = "named"
)

// Selector is a declarative query over kernel-produced topology:
// predicates narrow a candidate set by kind and metadata, ranks narrow a
// multi-candidate match to one. Named selectors instead resolve directly
// against a part's named outputs or a literal selection-id list.
type Selector struct {
	Kind       SelectorKind
	Predicates []Predicate // face/edge/solid
	Ranks      []RankRule  // face/edge/solid

	// named: exactly one of Name or Names is populated after
	// canonicalization. Name is a single output key; Names is the
	// sorted, parsed form of a "id1, id2, ..." selection-id list.
	Name  string
	Names []string
}

// ProfileDecl is a single named profile declared by a sketch2d feature.
// Shape is an opaque, backend-interpreted payload (e.g. a rectangle or
// spline definition); the core pipeline never inspects it, only hashes
// and forwards it to the backend.
type ProfileDecl struct {
	Name  string
	Shape interface{}
}

// FeatureKind enumerates the supported build-program step kinds.
type FeatureKind string

const (
	KindDatumPlane      FeatureKind = "datum.plane"
	KindDatumAxis       FeatureKind = "datum.axis"
	KindDatumFrame      FeatureKind = "datum.frame"
	KindSketch2D        FeatureKind = "sketch2d"
	KindExtrude         FeatureKind = "extrude"
	KindRevolve         FeatureKind = "revolve"
	KindLoft            FeatureKind = "loft"
	KindSweep           FeatureKind = "sweep"
	KindPipe            FeatureKind = "pipe"
	KindPipeSweep       FeatureKind = "pipeSweep"
	KindHexTubeSweep    FeatureKind = "hexTubeSweep"
	KindHole            FeatureKind = "hole"
	KindFillet          FeatureKind = "fillet"
	KindFilletVariable  FeatureKind = "fillet.variable"
	KindChamfer         FeatureKind = "chamfer"
	KindChamferVariable FeatureKind = "chamfer.variable"
	KindThicken         FeatureKind = "thicken"
	KindShell           FeatureKind = "shell"
	KindSurface         FeatureKind = "surface"
	KindPlane           FeatureKind = "plane"
	KindMirror          FeatureKind = "mirror"
	KindMoveBody        FeatureKind = "moveBody"
	KindMoveFace        FeatureKind = "moveFace"
	KindDeleteFace      FeatureKind = "deleteFace"
	KindReplaceFace     FeatureKind = "replaceFace"
	KindDraft           FeatureKind = "draft"
	KindThread          FeatureKind = "thread"
	KindSplitBody       FeatureKind = "splitBody"
	KindSplitFace       FeatureKind = "splitFace"
	KindPatternLinear   FeatureKind = "pattern.linear"
	KindPatternCircular FeatureKind = "pattern.circular"
	KindBoolean         FeatureKind = "boolean"
)

// BooleanOp names the variant of a boolean feature's Shape payload.
type BooleanOp string

const (
	BoolUnion     BooleanOp = "union"
	BoolSubtract  BooleanOp = "subtract"
	BoolIntersect BooleanOp = "intersect"
)

// Feature is a single typed node in a part's build program.
//
// Not every field is meaningful for every Kind; Selectors and Params are
// generic bags keyed by the field name a given Kind uses (e.g. extrude
// reads Selectors["profile"] indirectly via ProfileRef and Params["depth"];
// fillet reads Selectors["edges"]; splitFace reads Selectors["source"] and
// Selectors["tool"]). This mirrors how the wire format names selector- and
// scalar-typed fields without requiring thirty bespoke structs.
type Feature struct {
	ID     ID
	Kind   FeatureKind
	Deps   []ID
	Tags   []string
	Result string // named output key, e.g. "body:main"

	Params    map[string]TypedExpr
	Selectors map[string]Selector

	Profiles   []ProfileDecl // sketch2d only
	ProfileRef string        // profile.ref(name) on extrude/revolve/loft/sweep/surface/...
	PatternRef ID            // pattern.linear/circular reference on the feature it drives
	DatumRef   ID            // plane-datum(id) / axis-datum(id)

	Axis   AxisToken
	Vector *Vec3

	Shape interface{} // opaque backend payload (profile shape, boolean op, etc.)

	StageKey string // staged-feature policy lookup key; empty means not staged
}

// KernelInfo names the backend a build targets.
type KernelInfo struct {
	Name    string
	Version string
}

// Tolerance bounds the linear and angular slop a backend may apply.
type Tolerance struct {
	Linear  float64
	Angular float64
}

// UnitsConfig records the default display/export units for a build; it
// does not affect internal evaluation, which is always mm/rad.
type UnitsConfig struct {
	Length Unit
	Angle  Unit
}

// BuildContext carries the cross-cutting settings of a single build.
type BuildContext struct {
	Units     UnitsConfig
	Kernel    KernelInfo
	Tolerance Tolerance
}

// IntentPart is a single part's build program: its features and the
// parameters they may reference. Connectors, Datums, Constraints,
// Assertions, and CosmeticThreads are carried opaquely; they are not
// compile-relevant to this pipeline.
type IntentPart struct {
	ID       ID
	Features []Feature
	Params   []ParamDef

	Connectors      interface{} `json:",omitempty"`
	Datums          interface{} `json:",omitempty"`
	Constraints     interface{} `json:",omitempty"`
	Assertions      interface{} `json:",omitempty"`
	CosmeticThreads interface{} `json:",omitempty"`
}

// IntentDocument is the top-level compile unit.
type IntentDocument struct {
	ID        ID
	Schema    string
	IRVersion int
	Parts     []IntentPart
	Context   BuildContext

	Assemblies   interface{} `json:",omitempty"`
	Capabilities interface{} `json:",omitempty"`
	Constraints  interface{} `json:",omitempty"`
	Assertions   interface{} `json:",omitempty"`
}

// KernelObjectKind classifies a backend-produced artifact.
type KernelObjectKind string

const (
	ObjSolid   KernelObjectKind = "solid"
	ObjFace    KernelObjectKind = "face"
	ObjEdge    KernelObjectKind = "edge"
	ObjDatum   KernelObjectKind = "datum"
	ObjPattern KernelObjectKind = "pattern"
	ObjProfile KernelObjectKind = "profile"
	ObjSurface KernelObjectKind = "surface"
	ObjUnknown KernelObjectKind = "unknown"
)

// KernelObject is an opaque artifact returned by the backend and stored
// under a named-output key. Meta may hold backend-owned handles; callers
// must not clone or retain it beyond the BuildResult that produced it.
type KernelObject struct {
	ID   ID
	Kind KernelObjectKind
	Meta map[string]interface{}
}

// KernelSelectionKind classifies a taggable topological element.
type KernelSelectionKind string

const (
	SelectionFace    KernelSelectionKind = "face"
	SelectionEdge    KernelSelectionKind = "edge"
	SelectionSolid   KernelSelectionKind = "solid"
	SelectionSurface KernelSelectionKind = "surface"
)

// Well-known KernelSelection.Meta keys the selector resolver reads.
const (
	MetaCreatedBy = "createdBy"
	MetaRole      = "role"
	MetaPlanar    = "planar"
	MetaNormal    = "normal"
	MetaNormalVec = "normalVec"
	MetaArea      = "area"
	MetaCenterZ   = "centerZ"
	MetaCenter    = "center"
	MetaOwnerKey  = "ownerKey"
)

// KernelSelection is a taggable topological element exposed by the
// backend for later selection (by fillet, chamfer, hole, draft, ...).
type KernelSelection struct {
	ID   ID
	Kind KernelSelectionKind
	Meta map[string]interface{}
}
