// Package paths provides filesystem helpers shared by the generators.
//
// It locates the enclosing git repository of a path, creates directories with
// create-if-absent semantics, and replaces files atomically so an interrupted
// run never leaves a half-written artifact behind.
package paths
