package wire

import (
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/trueform/core/compileerr"
	"github.com/trueform/core/ir"
)

// SupportedSchema and SupportedIRVersion name the only document shape
// this module reads. A document naming a different schema, or an
// IRVersion newer than SupportedIRVersion, is rejected rather than
// guessed at.
const (
	SupportedSchema    = "trueform.ir.v1"
	SupportedIRVersion = 1
)

// DecodeJSON parses b as an ir.IntentDocument and validates its schema
// and version.
func DecodeJSON(b []byte) (*ir.IntentDocument, error) {
	var doc ir.IntentDocument
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	if err := checkVersion(doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// EncodeJSON renders doc as indented canonical JSON.
func EncodeJSON(doc *ir.IntentDocument) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// DecodeYAML parses b as an ir.IntentDocument written in the YAML
// authoring form and validates its schema and version.
func DecodeYAML(b []byte) (*ir.IntentDocument, error) {
	var doc ir.IntentDocument
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	if err := checkVersion(doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// EncodeYAML renders doc in the YAML authoring form.
func EncodeYAML(doc *ir.IntentDocument) ([]byte, error) {
	return yaml.Marshal(doc)
}

func checkVersion(doc ir.IntentDocument) error {
	if doc.Schema != "" && doc.Schema != SupportedSchema {
		return compileerr.Newf(compileerr.CodeUnsupportedSchema, "unsupported schema %q", doc.Schema)
	}
	if doc.IRVersion > SupportedIRVersion {
		return compileerr.Newf(compileerr.CodeUnsupportedVersion, "unsupported IR version %d (max %d)", doc.IRVersion, SupportedIRVersion)
	}
	return nil
}
