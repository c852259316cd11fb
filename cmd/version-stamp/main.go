// Package main is the entry point of the version-stamp CLI.
package main

import "github.com/oshokin/version-stamp/cmd/version-stamp/cmd"

func main() {
	cmd.Execute()
}
