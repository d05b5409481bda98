// Package wire encodes and decodes ir.IntentDocument to and from its
// on-disk forms: canonical JSON (the wire format proper) and YAML (an
// authoring convenience over the same schema). Both paths validate the
// document's schema and IR version before returning it.
package wire
