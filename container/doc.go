// Package container reads and writes .tfp/.tfc archives: zip files
// carrying a manifest.json index plus the artifacts (IR documents,
// meshes, STEP/STL exports) it names, each checked against a recorded
// SHA-256 digest on read.
package container
