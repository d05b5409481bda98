package container

// ManifestEntry describes one file packed into the archive: its
// archive-relative path, a "sha256:<hex>"-prefixed content digest, and
// its size in bytes. Schema is populated only on the document entry
// (the IR schema token it was written under); Type is populated only on
// artifact entries (e.g. "mesh", "step").
type ManifestEntry struct {
	Path   string `json:"path"`
	Hash   string `json:"hash"`
	Bytes  int64  `json:"bytes"`
	Schema string `json:"schema,omitempty"`
	Type   string `json:"type,omitempty"`
}

// Manifest is the archive's manifest.json per spec.md §6.2: a mandatory
// Document entry distinct from the optional Artifacts list, so a reader
// can always find the IR document without scanning artifact types.
type Manifest struct {
	Schema    string          `json:"schema"`
	BuildID   string          `json:"buildId,omitempty"`
	CreatedAt string          `json:"createdAt,omitempty"`
	Document  ManifestEntry   `json:"document"`
	Artifacts []ManifestEntry `json:"artifacts,omitempty"`
}

// ManifestPath and DocumentPath are both reserved: a caller may not
// Add an artifact under either name, since Build writes document.json
// itself from SetDocument's body.
const (
	ManifestPath = "manifest.json"
	DocumentPath = "document.json"
)

// sha256Prefix tags a raw hex digest with the algorithm it names, per
// spec.md §6.2's "sha256:<hex>" hash field shape.
const sha256Prefix = "sha256:"
