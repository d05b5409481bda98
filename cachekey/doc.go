// Package cachekey computes content-addressed cache keys for a build:
// a key composed from each feature's own stable hash, the evaluated
// parameter set, the build context, and any overrides, so two builds
// produce the same key iff they would produce the same result.
package cachekey
