package normalize

import (
	"fmt"

	"github.com/trueform/core/compileerr"
	"github.com/trueform/core/ir"
)

// StagedPolicy controls how normalize reacts to a feature whose stage
// key appears in the process-wide staged-feature registry.
type StagedPolicy string

const (
	StagedAllow StagedPolicy = "allow"
	StagedWarn  StagedPolicy = "warn"
	StagedError StagedPolicy = "error"
)

// stagedRegistry is the process-wide, immutable table of feature kinds
// currently flagged as maturing. It is initialized once and never
// mutated; callers do not get to register new entries at runtime.
var stagedRegistry = map[string]bool{
	string(ir.KindHexTubeSweep): true,
	string(ir.KindThread):       true,
	string(ir.KindPipeSweep):    true,
}

// stageKeyOf returns the registry lookup key for f: its explicit
// StageKey if set (for finer-grained kind+mode staging, e.g. a specific
// surface mode), otherwise its Kind.
func stageKeyOf(f ir.Feature) string {
	if f.StageKey != "" {
		return f.StageKey
	}
	return string(f.Kind)
}

// IsStaged reports whether f is currently flagged in the staged-feature
// registry.
func IsStaged(f ir.Feature) bool {
	return stagedRegistry[stageKeyOf(f)]
}

// Warning is a non-fatal diagnostic recorded while normalizing, e.g. use
// of a staged feature under StagedWarn.
type Warning struct {
	FeatureID ir.ID
	Kind      ir.FeatureKind
	Message   string
}

// applyStagedPolicy scans features for staged kinds under policy,
// returning accumulated warnings or, under StagedError, the first
// violation as a CompileError.
func applyStagedPolicy(features []ir.Feature, policy StagedPolicy) ([]Warning, error) {
	if policy == "" {
		policy = StagedAllow
	}
	var warnings []Warning
	for _, f := range features {
		if !IsStaged(f) {
			continue
		}
		switch policy {
		case StagedAllow:
			continue
		case StagedWarn:
			warnings = append(warnings, Warning{
				FeatureID: f.ID,
				Kind:      f.Kind,
				Message:   fmt.Sprintf("feature %q (%s) is staged", f.ID, f.Kind),
			})
		case StagedError:
			return nil, compileerr.Newf(compileerr.CodeStagedFeatureRejected,
				"feature %q (%s) is staged and stagedFeatures=error", f.ID, f.Kind)
		default:
			return nil, compileerr.Newf(compileerr.CodeStagedFeatureRejected,
				"unknown staged-feature policy %q", policy)
		}
	}
	return warnings, nil
}
