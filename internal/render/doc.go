// Package render turns a stamp.Record into the bytes of each artifact kind.
//
// Rendering is pure formatting: identical records and settings always produce
// identical output. Optional record fields (revision, build date, build type)
// are left out of an artifact when empty.
package render
