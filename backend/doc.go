// Package backend defines the contract a geometry kernel must satisfy to
// execute a normalized feature: invoking it, meshing or exporting its
// result, checking model validity, and reporting which feature kinds it
// supports.
//
// This package carries no concrete kernel; package fakebackend supplies
// an in-memory reference implementation used by the executor's own
// tests and available to callers that want to exercise the pipeline
// without a real geometry kernel.
package backend
