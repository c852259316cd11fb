// Package source reads the stamper's inputs: the Key=Value version file and
// the optional revision file.
//
// All file access goes through an afero.Fs so the pipeline can run against an
// in-memory filesystem in tests.
package source
