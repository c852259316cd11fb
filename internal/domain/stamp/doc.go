// Package stamp contains the core domain types of the version stamper.
//
// It defines Version (the 4-part Major.Minor.Patch.Build number), BuildType
// (the build configuration label) and Record, the immutable set of values
// that every generated artifact is rendered from.
package stamp
