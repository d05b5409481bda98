package container

import (
	"archive/zip"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"path"
	"strings"

	"github.com/trueform/core/compileerr"
)

// Schema identifies this package's manifest/archive layout.
const Schema = "trueform.container.v1"

// Writer accumulates a document and named artifacts and produces a
// .tfp/.tfc archive.
type Writer struct {
	documentBody   []byte
	documentSchema string
	hasDocument    bool

	artifacts []ManifestEntry
	bodies    map[string][]byte
	buildID   string
	createdAt string
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{bodies: make(map[string][]byte)}
}

// SetBuildInfo tags the archive's manifest with the build run that
// produced it. Both are opaque strings to this package; callers
// typically pass a uuid and an RFC 3339 timestamp.
func (w *Writer) SetBuildInfo(buildID, createdAt string) {
	w.buildID = buildID
	w.createdAt = createdAt
}

// SetDocument stores body as the archive's mandatory document.json,
// tagged with the IR schema (e.g. "trueform.ir.v1") it was serialized
// under. Build fails if no document has been set.
func (w *Writer) SetDocument(body []byte, schema string) {
	w.documentBody = body
	w.documentSchema = schema
	w.hasDocument = true
}

// Add stores body under archivePath as an artifact of the given type
// (e.g. "mesh", "step", "stl"; opaque to this package), to be hashed and
// indexed when Build is called. archivePath must be a clean,
// forward-slash, non-absolute path that does not escape the archive
// root and does not collide with a reserved path.
func (w *Writer) Add(archivePath, artifactType string, body []byte) error {
	if err := checkPath(archivePath); err != nil {
		return err
	}
	if _, dup := w.bodies[archivePath]; dup {
		return compileerr.Newf(compileerr.CodeArtifactPathInvalid, "duplicate archive path %q", archivePath)
	}
	w.bodies[archivePath] = body
	w.artifacts = append(w.artifacts, ManifestEntry{
		Path:  archivePath,
		Hash:  sha256Hash(body),
		Bytes: int64(len(body)),
		Type:  artifactType,
	})
	return nil
}

// Build serializes the document, every added artifact, and a
// manifest.json into a zip archive and returns its bytes. It fails if
// SetDocument was never called.
func (w *Writer) Build() ([]byte, error) {
	if !w.hasDocument {
		return nil, compileerr.New(compileerr.CodeArtifactPathInvalid, "archive has no document; call SetDocument before Build")
	}

	manifest := Manifest{
		Schema:    Schema,
		BuildID:   w.buildID,
		CreatedAt: w.createdAt,
		Document: ManifestEntry{
			Path:   DocumentPath,
			Hash:   sha256Hash(w.documentBody),
			Bytes:  int64(len(w.documentBody)),
			Schema: w.documentSchema,
		},
		Artifacts: w.artifacts,
	}
	manifestBytes, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	if err := writeZipEntry(zw, ManifestPath, manifestBytes); err != nil {
		return nil, err
	}
	if err := writeZipEntry(zw, DocumentPath, w.documentBody); err != nil {
		return nil, err
	}
	for _, e := range w.artifacts {
		if err := writeZipEntry(zw, e.Path, w.bodies[e.Path]); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeZipEntry(zw *zip.Writer, name string, body []byte) error {
	f, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = f.Write(body)
	return err
}

// Reader gives verified access to an opened archive's document and
// artifacts.
type Reader struct {
	manifest Manifest
	bodies   map[string][]byte
}

// Open parses b as a .tfp/.tfc archive, verifying the document's and
// every artifact's SHA-256 digest against the manifest before returning.
func Open(b []byte) (*Reader, error) {
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, err
	}

	raw := make(map[string][]byte, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		body, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}
		raw[f.Name] = body
	}

	manifestBytes, ok := raw[ManifestPath]
	if !ok {
		return nil, compileerr.New(compileerr.CodeArtifactPathInvalid, "archive missing manifest.json")
	}
	var manifest Manifest
	if err := json.Unmarshal(manifestBytes, &manifest); err != nil {
		return nil, err
	}

	if err := verifyEntry(raw, manifest.Document); err != nil {
		return nil, err
	}
	for _, e := range manifest.Artifacts {
		if err := verifyEntry(raw, e); err != nil {
			return nil, err
		}
	}

	return &Reader{manifest: manifest, bodies: raw}, nil
}

func verifyEntry(raw map[string][]byte, e ManifestEntry) error {
	body, ok := raw[e.Path]
	if !ok {
		return compileerr.Newf(compileerr.CodeArtifactPathInvalid, "manifest names missing file %q", e.Path)
	}
	if sha256Hash(body) != e.Hash {
		return compileerr.Newf(compileerr.CodeArtifactHashMismatch, "file %q failed hash verification", e.Path)
	}
	return nil
}

func sha256Hash(body []byte) string {
	sum := sha256.Sum256(body)
	return sha256Prefix + hex.EncodeToString(sum[:])
}

// Manifest returns the archive's parsed manifest.
func (r *Reader) Manifest() Manifest {
	return r.manifest
}

// Document returns the verified document.json bytes.
func (r *Reader) Document() []byte {
	return r.bodies[DocumentPath]
}

// Artifact returns the verified bytes stored under archivePath.
func (r *Reader) Artifact(archivePath string) ([]byte, bool) {
	b, ok := r.bodies[archivePath]
	return b, ok
}

func checkPath(p string) error {
	if p == "" || p == ManifestPath || p == DocumentPath {
		return compileerr.Newf(compileerr.CodeArtifactPathInvalid, "invalid archive path %q", p)
	}
	clean := path.Clean(p)
	if clean != p || strings.HasPrefix(clean, "../") || strings.HasPrefix(clean, "/") || clean == ".." {
		return compileerr.Newf(compileerr.CodeArtifactPathInvalid, "archive path %q escapes the archive root", p)
	}
	return nil
}
