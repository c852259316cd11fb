// Package stamper runs the version stamping pipeline.
//
// Run reads the settings, guards the working directory with a run marker,
// reads and validates the version and revision inputs, resolves the build
// date and build type, renders every configured artifact and writes them
// with truncate-and-create semantics.
package stamper
