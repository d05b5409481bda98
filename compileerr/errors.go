// Package compileerr defines the structured error shape every compile,
// resolution, and backend-boundary failure in this module surfaces as:
// a stable Code, a human Message, and optional Details.
//
// Callers branch on Code (a plain string comparison or errors.As to get
// at the *CompileError and inspect Code) rather than parsing Error()
// text. Codes are part of the public contract; see the Code* constants
// below for the full enumerated set.
package compileerr

import "fmt"

// Code identifies the class of a CompileError.
type Code string

// Parameter, selector, and feature validation codes raised while
// normalizing a part.
const (
	CodeParamDuplicate        Code = "param_duplicate"
	CodeParamMissing          Code = "param_missing"
	CodeParamCycle            Code = "param_cycle"
	CodeParamUnitMismatch     Code = "param_unit_mismatch"
	CodeParamTypeMismatch     Code = "param_type_mismatch"
	CodeParamDivZero          Code = "param_div_zero"
	CodeParamOverrideMissing  Code = "param_override_missing"
	CodeOutputDuplicate       Code = "output_duplicate"
	CodeProfileDuplicate      Code = "profile_duplicate"
	CodeProfileMissing        Code = "profile_missing"
	CodeDepMissing            Code = "dep_missing"
	CodePredCreatedByMissing  Code = "pred_created_by_missing"
	CodePatternMissing        Code = "pattern_missing"
	CodeSelectorNamedMissing  Code = "selector_named_missing"
	CodeSelectorAnchorMissing Code = "selector_anchor_missing"
	CodeAxisInvalid           Code = "axis_invalid"
	CodeFeatureIDEmpty        Code = "feature_id_empty"
	// CodeFeatureIDDuplicate fills a gap left open by uniqueness
	// invariants on feature ids: every id must be unique within a part,
	// so a collision needs its own code distinct from feature_id_empty.
	CodeFeatureIDDuplicate Code = "feature_id_duplicate"
	// CodeStagedFeatureRejected is raised when a staged feature kind is
	// used under the "error" staged-feature policy.
	CodeStagedFeatureRejected Code = "staged_feature_rejected"

	// Dependency-graph and scheduling codes raised while building or
	// executing the feature graph.
	CodeGraphCycle                Code = "graph_cycle"
	CodeBackendUnsupportedFeature Code = "backend_unsupported_feature"
	CodeSelectorAmbiguity         Code = "selector_ambiguity"
	CodeSelectionZeroMatches      Code = "selection_zero_matches"
	// CodeSelectorMissingMetadata is raised when a predicate or rank rule
	// requires a KernelSelection.Meta key a candidate doesn't carry
	// (spec.md §4.6: "missing metadata → metadata <field>"); Details
	// holds the missing field name.
	CodeSelectorMissingMetadata Code = "selector_missing_metadata"

	// Container and wire-format codes.
	CodeUnsupportedSchema    Code = "unsupported_schema"
	CodeUnsupportedVersion   Code = "unsupported_version"
	CodeArtifactHashMismatch Code = "artifact_hash_mismatch"
	CodeArtifactPathInvalid  Code = "artifact_path_invalid"
)

// CompileError is the structured error every pipeline stage raises.
type CompileError struct {
	Code    Code
	Message string
	Details interface{}
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// New returns a CompileError with the given code and message.
func New(code Code, message string) *CompileError {
	return &CompileError{Code: code, Message: message}
}

// Newf returns a CompileError with a formatted message.
func Newf(code Code, format string, args ...interface{}) *CompileError {
	return &CompileError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithDetails returns a copy of e with Details set.
func (e *CompileError) WithDetails(details interface{}) *CompileError {
	cp := *e
	cp.Details = details
	return &cp
}

// Is reports whether target is a *CompileError with the same Code,
// enabling errors.Is(err, compileerr.New(compileerr.CodeDepMissing, "")).
func (e *CompileError) Is(target error) bool {
	t, ok := target.(*CompileError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}
