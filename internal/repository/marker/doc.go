// Package marker guards a stamping run with a marker file.
//
// Parallel build projects sometimes invoke the stamper against the same
// directory. The marker records the owner PID; a marker whose owner is no
// longer running, or that outlived its lifetime, is considered stale and is
// taken over.
package marker
