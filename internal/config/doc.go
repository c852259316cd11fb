// Package config defines the stamper settings and provides helpers to load,
// validate and save them in YAML format.
//
// Settings name the input files, the product metadata stamped into resources,
// the installer naming scheme and the list of artifacts to generate. Default
// returns settings that reproduce the classic version.rc and installer outputs.
package config
